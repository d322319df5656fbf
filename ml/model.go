package ml

import "context"

// Class labels produced by every classifier.
const (
	ClassBenign    = 0
	ClassMalignant = 1
)

// Scaler is a fitted feature transform applied before classification.
type Scaler interface {
	Transform(features []float64) ([]float64, error)
	FeatureNames() []string
}

// Classifier is a fitted binary classifier over scaled features.
type Classifier interface {
	// PredictProba returns the probability of each class, indexed by class.
	PredictProba(features []float64) ([]float64, error)
	FeatureNames() []string
	Kind() string
}

// ModelProvider is what the dashboard needs from the inference stage.
type ModelProvider interface {
	Predict(ctx context.Context, features []float64) (Result, error)
}
