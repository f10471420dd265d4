// Package validation checks submitted form records for required fields and
// well-formed emails. It performs no I/O and never checks uniqueness.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Kind selects the check a Rule applies to its field
type Kind int

const (
	// Required flags empty strings and unset values
	Required Kind = iota
	// Selection flags unset choices (nil or empty option value)
	Selection
	// Email flags empty or malformed addresses
	Email
	// Trimmed flags strings that are empty after trimming whitespace
	Trimmed
)

func (k Kind) String() string {
	switch k {
	case Required:
		return "required"
	case Selection:
		return "selection"
	case Email:
		return "email"
	case Trimmed:
		return "trimmed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Rule binds a check to a field name
type Rule struct {
	Field string
	Kind  Kind
}

// Field is a single named form value. Value holds a string or a bool.
type Field struct {
	Name     string
	Value    any
	Required bool
}

// Record maps field names to their string or bool values
type Record map[string]any

// Result holds per-field error flags. OK is true iff no field is flagged.
type Result struct {
	Errors map[string]bool
	OK     bool
}

// Flagged reports whether the named field failed validation
func (r Result) Flagged(field string) bool {
	return r.Errors[field]
}

var validate = validator.New()

// NewRecord builds a Record from fields, rejecting duplicate names
func NewRecord(fields []Field) (Record, error) {
	record := make(Record, len(fields))
	for _, f := range fields {
		if _, exists := record[f.Name]; exists {
			return nil, fmt.Errorf("duplicate form field: %s", f.Name)
		}
		record[f.Name] = f.Value
	}
	return record, nil
}

// RequiredRules returns a Required rule for every field marked required
func RequiredRules(fields []Field) []Rule {
	rules := make([]Rule, 0, len(fields))
	for _, f := range fields {
		if f.Required {
			rules = append(rules, Rule{Field: f.Name, Kind: Required})
		}
	}
	return rules
}

// Validate applies rules to record. Fields without a rule are never flagged.
func Validate(record Record, rules []Rule) Result {
	errors := make(map[string]bool)
	for _, rule := range rules {
		if !check(rule.Kind, record[rule.Field]) {
			errors[rule.Field] = true
		}
	}
	return Result{Errors: errors, OK: len(errors) == 0}
}

func check(kind Kind, value any) bool {
	switch kind {
	case Required, Selection:
		return present(value)
	case Email:
		s, ok := value.(string)
		return ok && IsEmail(s)
	case Trimmed:
		s, ok := value.(string)
		return ok && strings.TrimSpace(s) != ""
	default:
		return false
	}
}

func present(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case *string:
		return v != nil && *v != ""
	default:
		return true
	}
}

// IsEmail reports whether s looks like local@domain with at least one dot in the domain
func IsEmail(s string) bool {
	if s == "" {
		return false
	}
	if err := validate.Var(s, "email"); err != nil {
		return false
	}
	at := strings.LastIndex(s, "@")
	return at > 0 && strings.Contains(s[at+1:], ".")
}
