package ml

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

const KindStandardScaler = "standard_scaler"

// StandardScaler applies a fitted (x - mean) / scale per feature.
type StandardScaler struct {
	Names []string  `json:"feature_names"`
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// LoadScaler reads and validates a standard scaler artifact.
func LoadScaler(path string) (*StandardScaler, error) {
	_, payload, err := readArtifact(path, KindStandardScaler)
	if err != nil {
		return nil, err
	}
	var s StandardScaler
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArtifact, path, err)
	}
	if err := checkWidths(s.Names, map[string]int{"mean": len(s.Mean), "scale": len(s.Scale)}); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArtifact, path, err)
	}
	return &s, nil
}

func (s *StandardScaler) Transform(features []float64) ([]float64, error) {
	if len(features) != len(s.Mean) {
		return nil, fmt.Errorf("%w: scaler expects %d features, got %d", ErrSchemaMismatch, len(s.Mean), len(features))
	}
	out := make([]float64, len(features))
	floats.SubTo(out, features, s.Mean)
	floats.Div(out, s.Scale)
	return out, nil
}

func (s *StandardScaler) FeatureNames() []string {
	return s.Names
}
