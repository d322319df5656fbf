package ml

import (
	"context"
	"errors"
	"fmt"

	"cytodiag/dataset"
	"cytodiag/input"
)

// ErrSchemaMismatch is returned when an artifact or vector does not follow
// the dataset's feature order.
var ErrSchemaMismatch = errors.New("feature schema mismatch")

// Result is a prediction for one input vector.
type Result struct {
	Label         int        `json:"label"`
	Diagnosis     string     `json:"diagnosis"`
	Probabilities [2]float64 `json:"probabilities"`
}

// Predictor scales a raw input vector with the fitted scaler and classifies
// it.
type Predictor struct {
	schema     *dataset.Schema
	scaler     Scaler
	classifier Classifier
}

// NewPredictor checks that both artifacts were fitted on the schema's
// feature names, in order.
func NewPredictor(schema *dataset.Schema, scaler Scaler, classifier Classifier) (*Predictor, error) {
	if err := schema.Match(scaler.FeatureNames()); err != nil {
		return nil, fmt.Errorf("%w: scaler: %v", ErrSchemaMismatch, err)
	}
	if err := schema.Match(classifier.FeatureNames()); err != nil {
		return nil, fmt.Errorf("%w: classifier: %v", ErrSchemaMismatch, err)
	}
	return &Predictor{schema: schema, scaler: scaler, classifier: classifier}, nil
}

// LoadPredictor reads the scaler and classifier artifacts.
func LoadPredictor(schema *dataset.Schema, kind, modelPath, scalerPath string) (*Predictor, error) {
	scaler, err := LoadScaler(scalerPath)
	if err != nil {
		return nil, fmt.Errorf("load scaler: %w", err)
	}
	var classifier Classifier
	if kind == "" {
		classifier, err = LoadClassifier(modelPath)
	} else {
		classifier, err = LoadModel(kind, modelPath)
	}
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return NewPredictor(schema, scaler, classifier)
}

func (p *Predictor) Kind() string {
	return p.classifier.Kind()
}

// PredictVector classifies an input vector.
func (p *Predictor) PredictVector(ctx context.Context, v input.Vector) (Result, error) {
	if v.Schema() != nil && v.Schema() != p.schema {
		if err := p.schema.Match(v.Schema().Keys()); err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
		}
	}
	return p.Predict(ctx, v.Values())
}

// Predict classifies raw features given in schema order.
func (p *Predictor) Predict(ctx context.Context, features []float64) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if len(features) != p.schema.Len() {
		return Result{}, fmt.Errorf("%w: expected %d features, got %d", ErrSchemaMismatch, p.schema.Len(), len(features))
	}

	scaled, err := p.scaler.Transform(features)
	if err != nil {
		return Result{}, err
	}
	proba, err := p.classifier.PredictProba(scaled)
	if err != nil {
		return Result{}, err
	}
	if len(proba) != 2 {
		return Result{}, fmt.Errorf("classifier returned %d probabilities", len(proba))
	}

	label := ClassBenign
	if proba[ClassMalignant] > proba[ClassBenign] {
		label = ClassMalignant
	}
	return Result{
		Label:         label,
		Diagnosis:     diagnosisName(label),
		Probabilities: [2]float64{proba[0], proba[1]},
	}, nil
}

func diagnosisName(label int) string {
	if label == ClassMalignant {
		return "malignant"
	}
	return "benign"
}
