package ml

import (
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const KindLogisticRegression = "logistic_regression"

// LogisticRegression is a fitted binary logistic model.
type LogisticRegression struct {
	Names     []string  `json:"feature_names"`
	Classes   []int     `json:"classes"`
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`

	weights *mat.VecDense
}

func (lr *LogisticRegression) Load(path string) error {
	_, payload, err := readArtifact(path, KindLogisticRegression)
	if err != nil {
		return err
	}
	return lr.decode(payload)
}

func (lr *LogisticRegression) decode(payload []byte) error {
	if err := json.Unmarshal(payload, lr); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	if err := checkWidths(lr.Names, map[string]int{"coef": len(lr.Coef)}); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	lr.weights = mat.NewVecDense(len(lr.Coef), lr.Coef)
	return nil
}

// DecisionFunction returns coef·x + intercept.
func (lr *LogisticRegression) DecisionFunction(features []float64) (float64, error) {
	if lr.weights == nil {
		return 0, fmt.Errorf("%w: model not loaded", ErrInvalidArtifact)
	}
	if len(features) != lr.weights.Len() {
		return 0, fmt.Errorf("%w: model expects %d features, got %d", ErrSchemaMismatch, lr.weights.Len(), len(features))
	}
	x := mat.NewVecDense(len(features), features)
	return mat.Dot(lr.weights, x) + lr.Intercept, nil
}

func (lr *LogisticRegression) PredictProba(features []float64) ([]float64, error) {
	z, err := lr.DecisionFunction(features)
	if err != nil {
		return nil, err
	}
	p := sigmoid(z)
	return []float64{1 - p, p}, nil
}

func (lr *LogisticRegression) FeatureNames() []string {
	return lr.Names
}

func (lr *LogisticRegression) Kind() string {
	return KindLogisticRegression
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
