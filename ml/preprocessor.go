package ml

import (
	"errors"
	"fmt"

	"cytodiag/dataset"
	"cytodiag/input"
)

// ErrDegenerateRange is returned when a field is constant across the dataset,
// so min-max scaling would divide by zero.
var ErrDegenerateRange = errors.New("degenerate min-max range")

// NormalizeFeature maps value linearly so that min -> 0 and max -> 1.
func NormalizeFeature(value, min, max float64) (float64, error) {
	if max == min {
		return 0, ErrDegenerateRange
	}
	return (value - min) / (max - min), nil
}

// Scaled is an input vector rescaled by the dataset-wide min and max of each
// field. It is for display only and never fed to the classifier.
type Scaled struct {
	Keys   []string  `json:"keys"`
	Values []float64 `json:"values"`
}

// Get returns the scaled value of key.
func (s Scaled) Get(key string) (float64, bool) {
	for i, k := range s.Keys {
		if k == key {
			return s.Values[i], true
		}
	}
	return 0, false
}

func (s Scaled) Map() map[string]float64 {
	m := make(map[string]float64, len(s.Keys))
	for i, k := range s.Keys {
		m[k] = s.Values[i]
	}
	return m
}

// MinMaxNormalizer scales input vectors with per-field statistics taken from
// the whole dataset, label column excluded.
type MinMaxNormalizer struct {
	schema       *dataset.Schema
	featureStats map[string][2]float64
}

func NewMinMaxNormalizer(table *dataset.Table) (*MinMaxNormalizer, error) {
	n := &MinMaxNormalizer{schema: table.Schema()}
	if err := n.ComputeStats(table); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *MinMaxNormalizer) ComputeStats(table *dataset.Table) error {
	if table.Len() == 0 {
		return errors.New("table is empty")
	}
	stats := make(map[string][2]float64, table.Schema().Len())
	for i, rec := range table.Records() {
		for j, value := range rec.Values {
			key := table.Schema().Field(j).Key
			if i == 0 {
				stats[key] = [2]float64{value, value}
				continue
			}
			current := stats[key]
			if value < current[0] {
				current[0] = value
			}
			if value > current[1] {
				current[1] = value
			}
			stats[key] = current
		}
	}
	n.featureStats = stats
	return nil
}

// Normalize rescales every field of v. A value below the dataset minimum
// yields a negative result; a constant field yields ErrDegenerateRange.
func (n *MinMaxNormalizer) Normalize(v input.Vector) (Scaled, error) {
	if n.featureStats == nil {
		return Scaled{}, errors.New("feature stats not computed")
	}
	if v.Len() != n.schema.Len() {
		return Scaled{}, fmt.Errorf("%w: expected %d values, got %d", ErrSchemaMismatch, n.schema.Len(), v.Len())
	}
	if v.Schema() != nil && v.Schema() != n.schema {
		if err := n.schema.Match(v.Schema().Keys()); err != nil {
			return Scaled{}, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
		}
	}

	keys := n.schema.Keys()
	values := v.Values()
	scaled := make([]float64, len(values))
	for i, key := range keys {
		stats, ok := n.featureStats[key]
		if !ok {
			return Scaled{}, fmt.Errorf("missing stats for %s", key)
		}
		s, err := NormalizeFeature(values[i], stats[0], stats[1])
		if err != nil {
			return Scaled{}, fmt.Errorf("field %s: %w", key, err)
		}
		scaled[i] = s
	}
	return Scaled{Keys: keys, Values: scaled}, nil
}

// FeatureStats returns a copy of the per-field [min, max] pairs.
func (n *MinMaxNormalizer) FeatureStats() map[string][2]float64 {
	if n.featureStats == nil {
		return nil
	}
	out := make(map[string][2]float64, len(n.featureStats))
	for key, stats := range n.featureStats {
		out[key] = stats
	}
	return out
}
