package options

import (
	"errors"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var validate *validator.Validate
var translator ut.Translator

func init() {
	validate = validator.New()
	var ok bool
	translator, ok = ut.New(en.New(), en.New()).GetTranslator("en")
	if !ok {
		panic("options: failed to get 'en' translator")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}
}

// checkRule runs the key's validator tag against a normalized value and
// returns a readable message, or "" when the value passes.
func checkRule(def definition, value any) string {
	if def.rule == "" {
		return ""
	}

	err := validate.Var(value, def.rule)
	if err == nil {
		return ""
	}

	var verrors validator.ValidationErrors
	if !errors.As(err, &verrors) || len(verrors) == 0 {
		return err.Error()
	}

	return customErrForTag(verrors[0].Tag(), verrors[0])
}

func customErrForTag(tag string, verror validator.FieldError) string {
	switch tag {
	case "required":
		return "is required"
	default:
		// Var errors carry no field name, so the translation starts with a blank.
		return strings.TrimSpace(verror.Translate(translator))
	}
}

// FieldError is a single offending option.
type FieldError struct {
	Key string `json:"key"`
	Err string `json:"error"`
}

// ValidationError lists every option that failed validation.
type ValidationError []FieldError

// Error implements the error interface, returning a human-readable
// summary of all field errors.
func (ve ValidationError) Error() string {
	parts := make([]string, len(ve))
	for i, f := range ve {
		parts[i] = f.Key + ": " + f.Err
	}
	return "invalid options: " + strings.Join(parts, "; ")
}

// Keys returns the offending keys in report order, without duplicates.
func (ve ValidationError) Keys() []string {
	seen := make(map[string]bool, len(ve))
	keys := make([]string, 0, len(ve))
	for _, f := range ve {
		if seen[f.Key] {
			continue
		}
		seen[f.Key] = true
		keys = append(keys, f.Key)
	}
	return keys
}

// Fields returns the offending keys mapped to their messages.
func (ve ValidationError) Fields() map[string]string {
	m := make(map[string]string, len(ve))
	for _, f := range ve {
		m[f.Key] = f.Err
	}
	return m
}

// IsValidationError checks if an error of type ValidationError exists.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
