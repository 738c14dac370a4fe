package forms

import (
	"fmt"
	"regexp"
)

// FieldType is the closed set of input types the registration form supports.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldTel      FieldType = "tel"
	FieldURL      FieldType = "url"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldRadio    FieldType = "radio"
	FieldCheckbox FieldType = "checkbox"
)

func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldEmail, FieldTel, FieldURL, FieldNumber,
		FieldDate, FieldTextarea, FieldSelect, FieldRadio, FieldCheckbox:
		return true
	}
	return false
}

// TakesOptions reports whether the type requires a non-empty option list.
func (t FieldType) TakesOptions() bool {
	switch t {
	case FieldSelect, FieldRadio, FieldCheckbox:
		return true
	}
	return false
}

// Rules holds the optional per-field constraints an admin can configure.
// Length bounds apply to string values, Min/Max to number fields.
type Rules struct {
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
}

// Field is one admin-configured form field.
type Field struct {
	Name        string    `json:"name" doc:"Unique snake_case key"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type" enum:"text,email,tel,url,number,date,textarea,select,radio,checkbox"`
	Placeholder string    `json:"placeholder,omitempty"`
	Required    bool      `json:"required"`
	Options     []string  `json:"options,omitempty" doc:"For select, radio and checkbox"`
	Order       int       `json:"order"`
	Visible     bool      `json:"visible"`
	Description string    `json:"description,omitempty"`
	Warning     string    `json:"warning,omitempty"`
	Validation  *Rules    `json:"validation,omitempty"`
}

func (f Field) hasOption(value string) bool {
	for _, o := range f.Options {
		if o == value {
			return true
		}
	}
	return false
}

// Schema is the ordered field list the public form is built from.
// Array position is the authoritative order.
type Schema []Field

var nameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Check rejects schemas that must never be saved: duplicate or malformed
// names, unknown types, choice fields without options.
func (s Schema) Check() error {
	seen := make(map[string]bool, len(s))
	for _, f := range s {
		if !nameRe.MatchString(f.Name) {
			return fmt.Errorf("field name %q must be snake_case", f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("duplicate field name %q", f.Name)
		}
		seen[f.Name] = true
		if !f.Type.Valid() {
			return fmt.Errorf("field %q has unknown type %q", f.Name, f.Type)
		}
		if f.Type.TakesOptions() && len(f.Options) == 0 {
			return fmt.Errorf("field %q of type %s needs at least one option", f.Name, f.Type)
		}
	}
	return nil
}

// Normalize rewrites every field's Order to its array position so the stored
// numeric order can never disagree with the list order.
func (s Schema) Normalize() {
	for i := range s {
		s[i].Order = i
	}
}

// ByName returns the field with the given name.
func (s Schema) ByName(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// EmailField returns the first visible email-typed field, if any. Its value
// is what the uniqueness guarantee applies to.
func (s Schema) EmailField() (Field, bool) {
	for _, f := range s {
		if f.Visible && f.Type == FieldEmail {
			return f, true
		}
	}
	return Field{}, false
}
