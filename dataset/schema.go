package dataset

import "fmt"

// Group is the aggregation a measurement column was computed with.
type Group string

const (
	GroupMean  Group = "mean"
	GroupSE    Group = "se"
	GroupWorst Group = "worst"
)

// Groups lists the aggregations in column order.
func Groups() []Group {
	return []Group{GroupMean, GroupSE, GroupWorst}
}

// Bases lists the ten nucleus properties in column order.
func Bases() []string {
	return []string{
		"radius",
		"texture",
		"perimeter",
		"area",
		"smoothness",
		"compactness",
		"concavity",
		"concave points",
		"symmetry",
		"fractal_dimension",
	}
}

// Field is one measurement column of the dataset.
type Field struct {
	Key   string
	Base  string
	Group Group
}

// Schema is the ordered feature list shared by the dataset, the input vector
// and the fitted artifacts. Inference is positional, so the order matters.
type Schema struct {
	fields []Field
	index  map[string]int
}

// DefaultSchema returns the 30 measurement columns of the diagnostic
// dataset: every base property aggregated as mean, then se, then worst.
func DefaultSchema() *Schema {
	fields := make([]Field, 0, len(Bases())*len(Groups()))
	for _, g := range Groups() {
		for _, b := range Bases() {
			fields = append(fields, Field{
				Key:   fmt.Sprintf("%s_%s", b, g),
				Base:  b,
				Group: g,
			})
		}
	}
	return NewSchema(fields)
}

// NewSchema builds a schema from an explicit field list.
func NewSchema(fields []Field) *Schema {
	s := &Schema{
		fields: append([]Field(nil), fields...),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range s.fields {
		s.index[f.Key] = i
	}
	return s
}

func (s *Schema) Len() int {
	return len(s.fields)
}

func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

func (s *Schema) Field(i int) Field {
	return s.fields[i]
}

func (s *Schema) Keys() []string {
	keys := make([]string, len(s.fields))
	for i, f := range s.fields {
		keys[i] = f.Key
	}
	return keys
}

// Index returns the position of key, or -1 when the schema has no such field.
func (s *Schema) Index(key string) int {
	if i, ok := s.index[key]; ok {
		return i
	}
	return -1
}

// Match reports whether names lists exactly the schema keys in order.
func (s *Schema) Match(names []string) error {
	if len(names) != len(s.fields) {
		return fmt.Errorf("expected %d features, got %d", len(s.fields), len(names))
	}
	for i, name := range names {
		if name != s.fields[i].Key {
			return fmt.Errorf("feature %d: expected %q, got %q", i, s.fields[i].Key, name)
		}
	}
	return nil
}
