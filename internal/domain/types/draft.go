package types

// RegistrationDraft is the mutable form record collected across the wizard.
type RegistrationDraft struct {
	CompanyName     string `json:"companyName"`
	PhoneNumber     string `json:"phoneNumber"`
	Email           string `json:"email"`
	Address         string `json:"address"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Get returns the value of field f. Unknown fields yield "".
func (d RegistrationDraft) Get(f Field) string {
	switch f {
	case FieldCompanyName:
		return d.CompanyName
	case FieldPhoneNumber:
		return d.PhoneNumber
	case FieldEmail:
		return d.Email
	case FieldAddress:
		return d.Address
	case FieldPassword:
		return d.Password
	case FieldConfirmPassword:
		return d.ConfirmPassword
	default:
		return ""
	}
}

// Set assigns value to field f and reports whether f is a known field.
func (d *RegistrationDraft) Set(f Field, value string) bool {
	switch f {
	case FieldCompanyName:
		d.CompanyName = value
	case FieldPhoneNumber:
		d.PhoneNumber = value
	case FieldEmail:
		d.Email = value
	case FieldAddress:
		d.Address = value
	case FieldPassword:
		d.Password = value
	case FieldConfirmPassword:
		d.ConfirmPassword = value
	default:
		return false
	}
	return true
}
