// Package validate normalizes and validates user supplied input before it
// reaches the service layer. Usernames are canonicalized to lowercase so
// lookups and stored rows always agree on case.
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Telegram usernames are 5-32 characters of letters, digits and underscores.
var usernameRE = regexp.MustCompile(`^[a-zA-Z0-9_]{5,32}$`)

// Description length bounds, in characters.
const (
	ApplicationDescriptionMin = 10
	ApplicationDescriptionMax = 500
	ReportDescriptionMin      = 20
	ReportDescriptionMax      = 1000
)

var (
	ErrEmptyUsername   = fmt.Errorf("username must not be empty")
	ErrInvalidUsername = fmt.Errorf("username must be 5-32 characters: letters, digits and underscore only")
)

// NormalizeUsername trims surrounding whitespace, strips a single leading
// "@" and lowercases the result. It returns an error when the cleaned value
// does not look like a Telegram username.
func NormalizeUsername(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "@")
	if cleaned == "" {
		return "", ErrEmptyUsername
	}
	if !usernameRE.MatchString(cleaned) {
		return "", ErrInvalidUsername
	}
	return strings.ToLower(cleaned), nil
}

// ApplicationDescription validates the free-form text of a whitelist
// application and returns it trimmed.
func ApplicationDescription(raw string) (string, error) {
	return description(raw, ApplicationDescriptionMin, ApplicationDescriptionMax)
}

// ReportDescription validates the free-form text of a scam report and
// returns it trimmed.
func ReportDescription(raw string) (string, error) {
	return description(raw, ReportDescriptionMin, ReportDescriptionMax)
}

func description(raw string, min, max int) (string, error) {
	cleaned := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(cleaned)
	if n < min {
		return "", fmt.Errorf("description must be at least %d characters", min)
	}
	if n > max {
		return "", fmt.Errorf("description must be at most %d characters", max)
	}
	return cleaned, nil
}

// New returns a validator with the tg_username rule registered. Request
// structs tag username fields with `validate:"tg_username"`. Validation
// errors report fields by their json names.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// RegisterValidation only errors on an empty tag name
	_ = v.RegisterValidation("tg_username", func(fl validator.FieldLevel) bool {
		_, err := NormalizeUsername(fl.Field().String())
		return err == nil
	})
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
