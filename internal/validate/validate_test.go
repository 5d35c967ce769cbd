package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serviceflow/internal/domain"
	"serviceflow/internal/validate"
)

func validDraft() domain.RegistrationDraft {
	return domain.RegistrationDraft{
		CompanyName:     "Refrigeración del Pacífico",
		PhoneNumber:     "(753) 532-0101",
		Email:           "ops@refripacifico.mx",
		Address:         "Av. Lázaro Cárdenas 1200, Lázaro Cárdenas, Mich.",
		Password:        "password1",
		ConfirmPassword: "password1",
	}
}

func TestStage_ValidDraftPassesEveryStage(t *testing.T) {
	d := validDraft()
	for s := domain.StageIdentity; s <= domain.StageCredentials; s++ {
		assert.Empty(t, validate.Stage(s, d, nil, validate.Options{}), "stage %d", s)
	}
	assert.Empty(t, validate.All(d, nil, validate.Options{}))
}

func TestStage_Identity(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.RegistrationDraft)
		field  domain.Field
		want   string
	}{
		{"blank company", func(d *domain.RegistrationDraft) { d.CompanyName = "   " }, domain.FieldCompanyName, "required"},
		{"seven digit phone", func(d *domain.RegistrationDraft) { d.PhoneNumber = "55 1234" }, domain.FieldPhoneNumber, "10 digits"},
		{"eleven digit phone", func(d *domain.RegistrationDraft) { d.PhoneNumber = "+52 55 1234 5678" }, domain.FieldPhoneNumber, "10 digits"},
		{"empty phone", func(d *domain.RegistrationDraft) { d.PhoneNumber = "" }, domain.FieldPhoneNumber, "required"},
		{"email without tld", func(d *domain.RegistrationDraft) { d.Email = "ops@refripacifico" }, domain.FieldEmail, "valid email"},
		{"email with space", func(d *domain.RegistrationDraft) { d.Email = "ops team@acme.mx" }, domain.FieldEmail, "valid email"},
		{"email without local part", func(d *domain.RegistrationDraft) { d.Email = "@acme.mx" }, domain.FieldEmail, "valid email"},
		{"email with leading dot in domain", func(d *domain.RegistrationDraft) { d.Email = "ops@.acme.mx" }, domain.FieldEmail, "valid email"},
		{"email with empty domain label", func(d *domain.RegistrationDraft) { d.Email = "ops@acme..mx" }, domain.FieldEmail, "valid email"},
		{"email with trailing dot", func(d *domain.RegistrationDraft) { d.Email = "ops@acme.mx." }, domain.FieldEmail, "valid email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)
			errs := validate.Stage(domain.StageIdentity, d, nil, validate.Options{})
			require.Contains(t, errs, tt.field)
			assert.Contains(t, errs[tt.field], tt.want)
			assert.Len(t, errs, 1)
		})
	}
}

func TestStage_PhoneFormattingIsIgnored(t *testing.T) {
	for _, phone := range []string{"5512345678", "55-1234-5678", "(55) 1234 5678", "55.1234.5678"} {
		d := validDraft()
		d.PhoneNumber = phone
		assert.Empty(t, validate.Stage(domain.StageIdentity, d, nil, validate.Options{}), phone)
	}
}

func TestStage_LocationRequiresAddress(t *testing.T) {
	d := validDraft()
	d.Address = ""
	errs := validate.Stage(domain.StageLocation, d, nil, validate.Options{})
	assert.Equal(t, "Address is required.", errs[domain.FieldAddress])
}

func TestStage_LocationResolution(t *testing.T) {
	d := validDraft()
	loc := &domain.GeoLocation{Latitude: 17.9564, Longitude: -102.1908, FormattedAddress: d.Address}
	strict := validate.Options{RequireResolvedLocation: true}

	// Typed address passes under the loose default.
	assert.Empty(t, validate.Stage(domain.StageLocation, d, nil, validate.Options{}))

	assert.Contains(t, validate.Stage(domain.StageLocation, d, nil, strict), domain.FieldAddress)
	assert.Empty(t, validate.Stage(domain.StageLocation, d, loc, strict))

	d.Address = "somewhere else"
	assert.Contains(t, validate.Stage(domain.StageLocation, d, loc, strict), domain.FieldAddress)
}

func TestStage_Credentials(t *testing.T) {
	d := validDraft()
	d.Password = "abcdefgh"
	d.ConfirmPassword = "abcdefg"
	errs := validate.Stage(domain.StageCredentials, d, nil, validate.Options{})
	assert.Equal(t, domain.StageErrors{domain.FieldConfirmPassword: "Passwords do not match."}, errs)

	d.Password = "short"
	d.ConfirmPassword = "short"
	errs = validate.Stage(domain.StageCredentials, d, nil, validate.Options{})
	assert.Contains(t, errs[domain.FieldPassword], "at least 8")
	assert.NotContains(t, errs, domain.FieldConfirmPassword)

	d.Password = "abcdefgh"
	d.ConfirmPassword = ""
	errs = validate.Stage(domain.StageCredentials, d, nil, validate.Options{})
	assert.Equal(t, "Please confirm your password.", errs[domain.FieldConfirmPassword])
}

func TestStage_PasswordLengthCountsCharacters(t *testing.T) {
	d := validDraft()
	d.Password = "ñandú123" // 8 characters, 10 bytes
	d.ConfirmPassword = d.Password
	assert.Empty(t, validate.Stage(domain.StageCredentials, d, nil, validate.Options{}))
}

func TestStage_UnknownStageIsEmpty(t *testing.T) {
	assert.Empty(t, validate.Stage(domain.Stage(7), domain.RegistrationDraft{}, nil, validate.Options{}))
}

func TestAccount(t *testing.T) {
	lat, lng := 19.4326, -99.1332
	req := domain.AccountRequest{
		CompanyName: "Acme",
		PhoneNumber: "5512345678",
		Email:       "ops@acme.mx",
		Address:     "Mexico City",
		Password:    "password1",
		Lat:         &lat,
		Lng:         &lng,
	}
	assert.Empty(t, validate.Account(req))

	bad := 123.0
	req.Lat = &bad
	req.Email = "nope"
	errs := validate.Account(req)
	assert.Contains(t, errs, domain.FieldEmail)
	assert.Equal(t, "Coordinates are out of range.", errs[domain.Field("lat")])
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "5512345678", validate.NormalizePhone("(55) 1234-5678"))
	assert.Equal(t, "", validate.NormalizePhone("call me"))
}

func TestIsEmail_MultiLabelDomains(t *testing.T) {
	assert.True(t, validate.IsEmail("ops@mail.refripacifico.com.mx"))
	assert.True(t, validate.IsEmail("first.last@acme.mx"))
	assert.False(t, validate.IsEmail("ops@acme."))
	assert.False(t, validate.IsEmail("ops@.mx"))
}
