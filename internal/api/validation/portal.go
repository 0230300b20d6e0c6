package validation

import (
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	digitPattern   = regexp.MustCompile(`[0-9]`)
	specialPattern = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// ValidateSalary accepts any string that parses as a finite number.
// Sign is not checked.
func ValidateSalary(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return false
	}
	return !math.IsInf(n, 0) && !math.IsNaN(n)
}

// ValidateHasUpper requires at least one ASCII uppercase letter
func ValidateHasUpper(fl validator.FieldLevel) bool {
	return upperPattern.MatchString(fl.Field().String())
}

// ValidateHasDigit requires at least one digit
func ValidateHasDigit(fl validator.FieldLevel) bool {
	return digitPattern.MatchString(fl.Field().String())
}

// ValidateHasSpecial requires at least one character that is not an ASCII letter or digit
func ValidateHasSpecial(fl validator.FieldLevel) bool {
	return specialPattern.MatchString(fl.Field().String())
}

// RegisterPortalValidators registers all portal form validators
func RegisterPortalValidators(v *validator.Validate) {
	v.RegisterValidation("salary", ValidateSalary)
	v.RegisterValidation("has_upper", ValidateHasUpper)
	v.RegisterValidation("has_digit", ValidateHasDigit)
	v.RegisterValidation("has_special", ValidateHasSpecial)
}

// New returns a validator that reports fields by their form tag and knows
// the portal validators
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	RegisterPortalValidators(v)
	return v
}
