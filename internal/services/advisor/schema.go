package advisor

import "fmt"

// FieldKind tags how a schema field is validated.
type FieldKind int

const (
	KindString FieldKind = iota
	KindNumber
	KindStringList
)

// FieldSpec declares the contract for one field of a result element.
type FieldSpec struct {
	Name   string
	Kind   FieldKind
	Enum   []string // allowed values for KindString; empty = free text
	Min    float64  // numeric range for KindNumber
	Max    float64
	MaxLen int // cap for KindString and KindStringList items; 0 = uncapped
	// element count bounds for KindStringList
	MinItems int
	MaxItems int
}

// Schema is the declarative contract one feature's JSON answer must satisfy:
// a top-level array under RootKey whose elements each carry the listed fields.
type Schema struct {
	RootKey     string
	Fields      []FieldSpec
	MaxElements int // 0 = unbounded
}

// ValidateElement checks one parsed element against the schema. Every declared
// field must be present and in contract; extra fields are ignored.
func (s *Schema) ValidateElement(el map[string]any) error {
	for _, f := range s.Fields {
		v, ok := el[f.Name]
		if !ok {
			return fmt.Errorf("field %q missing", f.Name)
		}
		if err := f.check(v); err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
	}
	return nil
}

func (f FieldSpec) check(v any) error {
	switch f.Kind {
	case KindString:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("not a string")
		}
		if f.MaxLen > 0 && len([]rune(s)) > f.MaxLen {
			return fmt.Errorf("longer than %d chars", f.MaxLen)
		}
		if len(f.Enum) > 0 && !contains(f.Enum, s) {
			return fmt.Errorf("%q not in allowed set", s)
		}
	case KindNumber:
		n, ok := v.(float64)
		if !ok {
			return fmt.Errorf("not a number")
		}
		if n < f.Min || n > f.Max {
			return fmt.Errorf("%v outside [%v, %v]", n, f.Min, f.Max)
		}
	case KindStringList:
		raw, ok := v.([]any)
		if !ok {
			return fmt.Errorf("not a list")
		}
		if f.MinItems > 0 && len(raw) < f.MinItems {
			return fmt.Errorf("fewer than %d items", f.MinItems)
		}
		if f.MaxItems > 0 && len(raw) > f.MaxItems {
			return fmt.Errorf("more than %d items", f.MaxItems)
		}
		for i, item := range raw {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("item %d not a string", i)
			}
			if f.MaxLen > 0 && len([]rune(s)) > f.MaxLen {
				return fmt.Errorf("item %d longer than %d chars", i, f.MaxLen)
			}
		}
	}
	return nil
}

func contains(set []string, s string) bool {
	for _, x := range set {
		if x == s {
			return true
		}
	}
	return false
}
