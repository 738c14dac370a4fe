package forms

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Submission is a raw form submission keyed by field name. Values are
// strings, or string lists for checkbox fields; JSON numbers and booleans
// are coerced to their string form.
type Submission map[string]any

// FieldError is one user-fixable problem with a submission.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string { return e.Message }

type Errors []FieldError

// Join renders all messages as a single comma-separated string, the shape
// the public API returns on a 400.
func (es Errors) Join() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, ", ")
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Clean strips everything the schema does not define: unknown keys, hidden
// fields, and empty values. Checkbox values come back as []string, all other
// values as string. The result is what gets persisted.
func Clean(schema Schema, sub Submission) Submission {
	out := make(Submission)
	for _, f := range schema {
		if !f.Visible {
			continue
		}
		raw, ok := sub[f.Name]
		if !ok {
			continue
		}
		if f.Type == FieldCheckbox {
			if vs := stringSlice(raw); len(vs) > 0 {
				out[f.Name] = vs
			}
			continue
		}
		if v, ok := stringValue(raw); ok && v != "" {
			out[f.Name] = v
		}
	}
	return out
}

// Validate checks a submission against the schema and collects every
// field-level problem rather than stopping at the first. Hidden fields are
// skipped entirely, required or not.
func Validate(schema Schema, sub Submission) Errors {
	var errs Errors
	for _, f := range schema {
		if !f.Visible {
			continue
		}
		if f.Type == FieldCheckbox {
			errs = append(errs, checkCheckbox(f, stringSlice(sub[f.Name]))...)
			continue
		}
		value, _ := stringValue(sub[f.Name])
		if value == "" {
			if f.Required {
				errs = append(errs, FieldError{f.Name, fmt.Sprintf("%s is required", label(f))})
			}
			continue
		}
		switch f.Type {
		case FieldSelect, FieldRadio:
			if !f.hasOption(value) {
				errs = append(errs, FieldError{f.Name, fmt.Sprintf("%s has an invalid option %q", label(f), value)})
				continue
			}
		case FieldEmail:
			if !emailRe.MatchString(value) {
				errs = append(errs, FieldError{f.Name, fmt.Sprintf("%s must be a valid email address", label(f))})
				continue
			}
		case FieldNumber:
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				errs = append(errs, FieldError{f.Name, fmt.Sprintf("%s must be a number", label(f))})
				continue
			}
		}
		errs = append(errs, checkRules(f, value)...)
	}
	return errs
}

func checkCheckbox(f Field, values []string) Errors {
	if len(values) == 0 {
		if f.Required {
			return Errors{{f.Name, fmt.Sprintf("%s is required", label(f))}}
		}
		return nil
	}
	var errs Errors
	for _, v := range values {
		if !f.hasOption(v) {
			errs = append(errs, FieldError{f.Name, fmt.Sprintf("%s has an invalid option %q", label(f), v)})
		}
	}
	return errs
}

func checkRules(f Field, value string) Errors {
	r := f.Validation
	if r == nil {
		return nil
	}
	var errs Errors
	if r.MinLength != nil && len(value) < *r.MinLength {
		errs = append(errs, FieldError{f.Name, fmt.Sprintf("%s must be at least %d characters", label(f), *r.MinLength)})
	}
	if r.MaxLength != nil && len(value) > *r.MaxLength {
		errs = append(errs, FieldError{f.Name, fmt.Sprintf("%s must be at most %d characters", label(f), *r.MaxLength)})
	}
	if r.Pattern != "" {
		// Invalid admin-supplied patterns fail open rather than rejecting
		// every submission.
		if re, err := regexp.Compile(r.Pattern); err == nil && !re.MatchString(value) {
			errs = append(errs, FieldError{f.Name, fmt.Sprintf("%s has an invalid format", label(f))})
		}
	}
	if r.Min != nil || r.Max != nil {
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			if r.Min != nil && n < *r.Min {
				errs = append(errs, FieldError{f.Name, fmt.Sprintf("%s must be at least %v", label(f), *r.Min)})
			}
			if r.Max != nil && n > *r.Max {
				errs = append(errs, FieldError{f.Name, fmt.Sprintf("%s must be at most %v", label(f), *r.Max)})
			}
		}
	}
	return errs
}

func label(f Field) string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

func stringValue(raw any) (string, bool) {
	switch v := raw.(type) {
	case nil:
		return "", false
	case string:
		return strings.TrimSpace(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}

func stringSlice(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := stringValue(item); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}
		}
	}
	return nil
}
