// Package schema validates parsed generator payloads against per-kind field
// tables and repairs whatever is missing or malformed with deterministic defaults.
package schema

import "tuteai/internal/domain"

// FieldType is the shape a field must have after repair.
type FieldType int

const (
	String FieldType = iota
	StringList
	OptionalString
	Int
	ObjectList
)

func (t FieldType) String() string {
	switch t {
	case String:
		return "string"
	case StringList:
		return "string list"
	case OptionalString:
		return "optional string"
	case Int:
		return "int"
	case ObjectList:
		return "object list"
	default:
		return "unknown"
	}
}

// DefaultFunc derives a replacement value from the request hints. index is the
// zero-based position of the enclosing collection item, 0 at the top level.
type DefaultFunc func(h domain.Hints, index int) any

// Field is one entry of a declarative schema table.
type Field struct {
	Name string
	Type FieldType
	// Default is required for every type except OptionalString.
	Default DefaultFunc
	// Allowed restricts a String to a case-insensitive enumeration.
	Allowed []string
	// MinItems applies to StringList; zero means one.
	MinItems int
	Min, Max int
	// Override replaces whatever the payload holds with Default.
	Override bool
	// Item describes the elements of an ObjectList.
	Item *Schema
}

// Schema describes one object: a top-level entity or a collection item.
type Schema struct {
	Name string
	// IDField and IDPrefix are set for objects that receive an identifier.
	IDField  string
	IDPrefix string
	Fields   []Field
	// Fixup runs after the fields are repaired and enforces cross-field rules.
	// It returns the names of the fields it changed.
	Fixup func(obj map[string]any) []string
}

func list(items ...string) DefaultFunc {
	return func(domain.Hints, int) any {
		out := make([]any, len(items))
		for i, s := range items {
			out[i] = s
		}
		return out
	}
}

func text(s string) DefaultFunc {
	return func(domain.Hints, int) any { return s }
}

func number(n int) DefaultFunc {
	return func(domain.Hints, int) any { return n }
}

// orElse returns the hint when it is set, otherwise the fallback.
func orElse(hint, fallback string) string {
	if hint != "" {
		return hint
	}
	return fallback
}

func toAny(items []string) []any {
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}

// Version changes whenever a table changes shape, so cached responses built
// from an older table are not served.
const Version = "1"
