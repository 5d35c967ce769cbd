package types

// Field names a registration form field. Values match the JSON keys used on the wire.
type Field string

// Registration form fields.
const (
	FieldCompanyName     Field = "companyName"
	FieldPhoneNumber     Field = "phoneNumber"
	FieldEmail           Field = "email"
	FieldAddress         Field = "address"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirmPassword"
)

// String returns the string form of the field name.
func (f Field) String() string { return string(f) }

// Fields lists every form field in display order.
var Fields = []Field{
	FieldCompanyName,
	FieldPhoneNumber,
	FieldEmail,
	FieldAddress,
	FieldPassword,
	FieldConfirmPassword,
}

// Stage is a wizard step. Only StageIdentity..StageCredentials are valid.
type Stage int

// Wizard stages in order.
const (
	StageIdentity    Stage = 1
	StageLocation    Stage = 2
	StageCredentials Stage = 3
)

// Valid reports whether s is one of the three wizard stages.
func (s Stage) Valid() bool { return s >= StageIdentity && s <= StageCredentials }

// String returns a short human label for the stage.
func (s Stage) String() string {
	switch s {
	case StageIdentity:
		return "company"
	case StageLocation:
		return "location"
	case StageCredentials:
		return "credentials"
	default:
		return "unknown"
	}
}

// StageFields returns the fields collected on stage s.
func StageFields(s Stage) []Field {
	switch s {
	case StageIdentity:
		return []Field{FieldCompanyName, FieldPhoneNumber, FieldEmail}
	case StageLocation:
		return []Field{FieldAddress}
	case StageCredentials:
		return []Field{FieldPassword, FieldConfirmPassword}
	default:
		return nil
	}
}

// StageErrors maps a field to a human-readable error. An empty map means valid.
type StageErrors map[Field]string

// Clone returns an independent copy of e.
func (e StageErrors) Clone() StageErrors {
	out := make(StageErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}
