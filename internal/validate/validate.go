package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"serviceflow/internal/domain"
)

const (
	// PhoneDigits is the number of digits a phone number must carry.
	PhoneDigits = 10
	// MinPasswordLength is the minimum password length in characters.
	MinPasswordLength = 8
)

// ErrValidatorInit is returned when the custom rules cannot be registered.
var ErrValidatorInit = errors.New("validator initialization failed")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@.]+(\.[^\s@.]+)+$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
	errValidate  error
)

// Options tunes stage rules that are a product decision rather than a format rule.
type Options struct {
	// RequireResolvedLocation makes stage 2 fail unless the address came from a
	// confirmed map pick or suggestion.
	RequireResolvedLocation bool
}

type identityInput struct {
	CompanyName string `json:"companyName" validate:"notblank"`
	PhoneNumber string `json:"phoneNumber" validate:"phone10"`
	Email       string `json:"email" validate:"basicemail"`
}

type locationInput struct {
	Address string `json:"address" validate:"notblank"`
}

type credentialsInput struct {
	Password        string `json:"password" validate:"min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

func initValidator() (*validator.Validate, error) {
	vld := validator.New(validator.WithRequiredStructEnabled())

	vld.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	rules := map[string]validator.Func{
		"notblank": func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		},
		"phone10": func(fl validator.FieldLevel) bool {
			return len(NormalizePhone(fl.Field().String())) == PhoneDigits
		},
		"basicemail": func(fl validator.FieldLevel) bool {
			return IsEmail(fl.Field().String())
		},
	}
	for tag, fn := range rules {
		if err := vld.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("%w: register %q: %w", ErrValidatorInit, tag, err)
		}
	}
	return vld, nil
}

func getValidator() (*validator.Validate, error) {
	validateOnce.Do(func() {
		validate, errValidate = initValidator()
	})
	return validate, errValidate
}

// Stage validates the fields of stage s. loc is the last confirmed location, if any.
func Stage(
	s domain.Stage,
	draft domain.RegistrationDraft,
	loc *domain.GeoLocation,
	opts Options,
) domain.StageErrors {
	switch s {
	case domain.StageIdentity:
		return check(identityInput{
			CompanyName: draft.CompanyName,
			PhoneNumber: draft.PhoneNumber,
			Email:       draft.Email,
		})
	case domain.StageLocation:
		errs := check(locationInput{Address: draft.Address})
		if len(errs) == 0 && opts.RequireResolvedLocation && !resolved(draft.Address, loc) {
			errs[domain.FieldAddress] = "Pick the address on the map or choose a suggestion."
		}
		return errs
	case domain.StageCredentials:
		return check(credentialsInput{
			Password:        draft.Password,
			ConfirmPassword: draft.ConfirmPassword,
		})
	default:
		return domain.StageErrors{}
	}
}

// All validates every stage and merges the results.
func All(
	draft domain.RegistrationDraft,
	loc *domain.GeoLocation,
	opts Options,
) domain.StageErrors {
	out := domain.StageErrors{}
	for s := domain.StageIdentity; s <= domain.StageCredentials; s++ {
		for f, msg := range Stage(s, draft, loc, opts) {
			out[f] = msg
		}
	}
	return out
}

// Account validates the wire payload sent to the account endpoint.
func Account(req domain.AccountRequest) domain.StageErrors {
	return check(req)
}

// NormalizePhone strips everything but digits.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsEmail reports whether s has the local@domain.tld shape.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

func resolved(address string, loc *domain.GeoLocation) bool {
	if loc == nil {
		return false
	}
	return strings.TrimSpace(address) == strings.TrimSpace(loc.FormattedAddress)
}

func check(v any) domain.StageErrors {
	errs := domain.StageErrors{}

	vld, err := getValidator()
	if err != nil {
		// Rules failed to register; report every field rather than pass silently.
		errs[""] = err.Error()
		return errs
	}

	err = vld.Struct(v)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs[""] = err.Error()
		return errs
	}
	for _, fe := range verrs {
		field := domain.Field(fe.Field())
		if _, seen := errs[field]; seen {
			continue
		}
		errs[field] = message(field, fe)
	}
	return errs
}

func message(field domain.Field, fe validator.FieldError) string {
	value, isString := fe.Value().(string)
	blank := isString && strings.TrimSpace(value) == ""

	if blank && fe.Tag() != "eqfield" {
		if field == domain.FieldConfirmPassword {
			return "Please confirm your password."
		}
		return label(field) + " is required."
	}

	switch fe.Tag() {
	case "phone10":
		return fmt.Sprintf("Phone number must have %d digits.", PhoneDigits)
	case "basicemail":
		return "Enter a valid email address (name@company.com)."
	case "min":
		return fmt.Sprintf("Password must be at least %d characters.", MinPasswordLength)
	case "eqfield":
		return "Passwords do not match."
	case "latitude", "longitude":
		return "Coordinates are out of range."
	default:
		return label(field) + " is invalid."
	}
}

func label(field domain.Field) string {
	switch field {
	case domain.FieldCompanyName:
		return "Company name"
	case domain.FieldPhoneNumber:
		return "Phone number"
	case domain.FieldEmail:
		return "Email"
	case domain.FieldAddress:
		return "Address"
	case domain.FieldPassword:
		return "Password"
	case domain.FieldConfirmPassword:
		return "Password confirmation"
	}
	s := string(field)
	if s == "" {
		return "Value"
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
