package fields

import "strings"

// DefaultType is the type given to an unpaired trailing token.
const DefaultType = "String"

// Field is a single (name, type) pair of a transaction variant.
type Field struct {
	Name string
	Type string
}

// List is an ordered field list. Order determines declaration order in the
// generated variant and in every destructuring pattern.
type List []Field

// Parse pairs tokens left to right, defaulting an unpaired trailing token to
// DefaultType.
func Parse(tokens []string) List {
	return ParseWithDefault(tokens, DefaultType)
}

// ParseWithDefault is Parse with a caller-chosen type for the unpaired
// trailing token. An empty defaultType falls back to DefaultType.
func ParseWithDefault(tokens []string, defaultType string) List {
	if defaultType == "" {
		defaultType = DefaultType
	}

	list := make(List, 0, (len(tokens)+1)/2)
	for i := 0; i < len(tokens); i += 2 {
		if i+1 < len(tokens) {
			list = append(list, Field{Name: tokens[i], Type: tokens[i+1]})
			continue
		}
		list = append(list, Field{Name: tokens[i], Type: defaultType})
	}
	return list
}

// Names returns the field names in order.
func (l List) Names() []string {
	names := make([]string, len(l))
	for i, f := range l {
		names[i] = f.Name
	}
	return names
}

// Pattern renders the destructuring pattern shared by generated match arms:
// the bare field names joined with ", ".
func (l List) Pattern() string {
	return strings.Join(l.Names(), ", ")
}

// IsEmpty reports whether the list has no fields.
func (l List) IsEmpty() bool {
	return len(l) == 0
}
