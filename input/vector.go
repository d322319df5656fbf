package input

import (
	"fmt"

	"cytodiag/dataset"
)

// Vector is an input vector: one value per schema field, in schema order.
type Vector struct {
	schema *dataset.Schema
	values []float64
}

// NewVector wraps positional values. len(values) must equal the schema width.
func NewVector(schema *dataset.Schema, values []float64) (Vector, error) {
	if len(values) != schema.Len() {
		return Vector{}, fmt.Errorf("expected %d values, got %d", schema.Len(), len(values))
	}
	return Vector{schema: schema, values: append([]float64(nil), values...)}, nil
}

func (v Vector) Schema() *dataset.Schema {
	return v.schema
}

func (v Vector) Len() int {
	return len(v.values)
}

// Values returns a copy of the positional values.
func (v Vector) Values() []float64 {
	return append([]float64(nil), v.values...)
}

// Get returns the value of key and whether the schema has it.
func (v Vector) Get(key string) (float64, bool) {
	if v.schema == nil {
		return 0, false
	}
	idx := v.schema.Index(key)
	if idx < 0 {
		return 0, false
	}
	return v.values[idx], true
}

// Map returns the values keyed by field name.
func (v Vector) Map() map[string]float64 {
	m := make(map[string]float64, len(v.values))
	for i, value := range v.values {
		m[v.schema.Field(i).Key] = value
	}
	return m
}
