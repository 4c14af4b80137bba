package errors

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Validator checks struct tags and reports violations as CONFIG_ERROR.
// Field names in messages follow the json tags.
type Validator struct {
	validate *validator.Validate
}

// NewValidator returns a Validator with one custom tag per entry in enums.
// A field carrying such a tag must hold one of the listed names.
func NewValidator(enums map[string][]string) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	for tag, names := range enums {
		allowed := slices.Clone(names)
		// Registration only fails for an empty tag.
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return slices.Contains(allowed, fl.Field().String())
		})
	}
	return &Validator{validate: v}
}

// Struct validates s. All violations are joined into one message.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Wrap(ErrCodeConfig, err, "invalid configuration")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return New(ErrCodeConfig, "%s", strings.Join(msgs, "; "))
}

// describe renders a field error as "weights.max must be greater than weights.min".
func describe(fe validator.FieldError) string {
	field := fieldPath(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gtfield":
		return fmt.Sprintf("%s must be greater than %s", field, siblingPath(field, fe.Param()))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s: unsupported value %q", field, fmt.Sprint(fe.Value()))
	}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// siblingPath names the Go field param next to field. Params are Go field
// names, so they are lowercased to match json tags.
func siblingPath(field, param string) string {
	name := strings.ToLower(param)
	if i := strings.LastIndex(field, "."); i >= 0 {
		return field[:i+1] + name
	}
	return name
}

// ValidateName checks a user-supplied name (a preset name, a cache scope)
// for safety. Names are non-empty, at most 64 characters, and free of path
// separators and control characters.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeConfig, "name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeConfig, "name too long (max 64 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeConfig, "name contains control characters")
		}
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return New(ErrCodeConfig, "name %q contains path characters", name)
	}
	return nil
}
