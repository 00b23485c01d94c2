package helpers

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const (
	ContextKeyUserID    contextKey = "userID"
	ContextKeyUser      contextKey = "userObject"
	ContextKeyCartID    contextKey = "cartID"
	ContextKeyClientIP  contextKey = "clientIP"
	ContextKeyRequestID contextKey = "requestID"
)

var pincodePattern = regexp.MustCompile(`^\d{6}$`)

// NewValidator returns a validator that reports json field names and knows
// the "pincode" tag (exactly six digits).
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
		return pincodePattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidateStruct runs v against s and returns one message per failing field.
// An empty map means s is valid. Errors other than field failures are
// reported under the "_" key.
func ValidateStruct(v *validator.Validate, s any) map[string]string {
	err := v.Struct(s)
	if err == nil {
		return map[string]string{}
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return FormatValidationErrors(verrs)
	}
	return map[string]string{"_": err.Error()}
}

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := err.Field()
		label := humanize(field)
		switch err.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("%s is required.", label)
		case "email":
			errorMessages[field] = fmt.Sprintf("%s must be a valid email address.", label)
		case "min":
			errorMessages[field] = fmt.Sprintf("%s must be at least %s characters.", label, err.Param())
		case "max":
			errorMessages[field] = fmt.Sprintf("%s must be at most %s characters.", label, err.Param())
		case "pincode":
			errorMessages[field] = "Pincode must be exactly 6 digits."
		case "datetime":
			errorMessages[field] = fmt.Sprintf("%s must be a date in YYYY-MM-DD format.", label)
		case "eqfield":
			errorMessages[field] = fmt.Sprintf("%s does not match.", label)
		default:
			errorMessages[field] = fmt.Sprintf("%s is invalid.", label)
		}
	}
	return errorMessages
}

// humanize turns "fullName" into "Full name".
func humanize(field string) string {
	if field == "" {
		return ""
	}
	var b strings.Builder
	for i, r := range field {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	s := b.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(bytes), nil
}

func PasswordCompare(hashPass string, password []byte) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashPass), password) == nil
}
