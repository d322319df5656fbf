// Package input derives slider bounds from the dataset and turns slider
// positions into an input vector.
package input

import (
	"fmt"
	"math"
	"net/url"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"cytodiag/dataset"
	"cytodiag/i18n"
)

// Descriptor holds the observed range and mean of one field.
type Descriptor struct {
	Key   string  `json:"key"`
	Base  string  `json:"base"`
	Group string  `json:"group"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
}

// Control is a bounded slider. Lower is always 0, not the historical minimum.
type Control struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Value float64 `json:"value"`
	// Step is a suggested increment. Value is not aligned to it.
	Step float64 `json:"step"`
}

// Describe computes min, max and mean of every schema field over the table.
func Describe(table *dataset.Table) ([]Descriptor, error) {
	schema := table.Schema()
	descriptors := make([]Descriptor, schema.Len())
	for i, f := range schema.Fields() {
		col, err := table.Column(f.Key)
		if err != nil {
			return nil, err
		}
		descriptors[i] = Descriptor{
			Key:   f.Key,
			Base:  f.Base,
			Group: string(f.Group),
			Min:   floats.Min(col),
			Max:   floats.Max(col),
			Mean:  stat.Mean(col, nil),
		}
	}
	return descriptors, nil
}

// Collector seeds controls and builds input vectors.
type Collector struct {
	schema      *dataset.Schema
	descriptors []Descriptor
}

func NewCollector(schema *dataset.Schema, descriptors []Descriptor) (*Collector, error) {
	if len(descriptors) != schema.Len() {
		return nil, fmt.Errorf("expected %d descriptors, got %d", schema.Len(), len(descriptors))
	}
	for i, d := range descriptors {
		if d.Key != schema.Field(i).Key {
			return nil, fmt.Errorf("descriptor %d: expected %q, got %q", i, schema.Field(i).Key, d.Key)
		}
	}
	return &Collector{schema: schema, descriptors: descriptors}, nil
}

func (c *Collector) Schema() *dataset.Schema {
	return c.schema
}

func (c *Collector) Descriptors() []Descriptor {
	return append([]Descriptor(nil), c.descriptors...)
}

// Controls returns one slider per field with localized labels.
func (c *Collector) Controls(locale string) []Control {
	texts := i18n.Lookup(locale)
	controls := make([]Control, len(c.descriptors))
	for i, d := range c.descriptors {
		controls[i] = Control{
			Key:   d.Key,
			Label: texts.FieldLabel(d.Base, d.Group),
			Lower: 0,
			Upper: d.Max,
			Value: clamp(d.Mean, 0, d.Max),
			Step:  step(d.Max),
		}
	}
	return controls
}

// Defaults returns the vector with every field at its dataset mean.
func (c *Collector) Defaults() Vector {
	values := make([]float64, len(c.descriptors))
	for i, d := range c.descriptors {
		values[i] = clamp(d.Mean, 0, d.Max)
	}
	return Vector{schema: c.schema, values: values}
}

// Collect overrides the defaults with the supplied values, clamped to the
// slider range [0, max]. Keys outside the schema are ignored.
func (c *Collector) Collect(values map[string]float64) Vector {
	v := c.Defaults()
	for key, value := range values {
		idx := c.schema.Index(key)
		if idx < 0 {
			continue
		}
		if math.IsNaN(value) {
			continue
		}
		v.values[idx] = clamp(value, 0, c.descriptors[idx].Max)
	}
	return v
}

// FromQuery parses slider positions from a form or query string.
func (c *Collector) FromQuery(q url.Values) (Vector, error) {
	values := make(map[string]float64, len(q))
	for key, raw := range q {
		if c.schema.Index(key) < 0 || len(raw) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(raw[0], 64)
		if err != nil {
			return Vector{}, fmt.Errorf("field %s: %w", key, err)
		}
		values[key] = v
	}
	return c.Collect(values), nil
}

func clamp(v, lower, upper float64) float64 {
	if v < lower {
		return lower
	}
	if v > upper {
		return upper
	}
	return v
}

// step picks a slider increment of roughly a thousandth of the range.
func step(upper float64) float64 {
	if upper <= 0 {
		return 0.001
	}
	return math.Pow(10, math.Floor(math.Log10(upper))-3)
}
