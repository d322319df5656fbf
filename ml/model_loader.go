package ml

import (
	"errors"
)

// LoadModel reads a classifier artifact of the given kind.
func LoadModel(kind, path string) (Classifier, error) {
	switch kind {
	case KindLogisticRegression:
		model := &LogisticRegression{}
		if err := model.Load(path); err != nil {
			return nil, err
		}
		return model, nil
	case KindDecisionTree:
		model := &DecisionTree{}
		if err := model.Load(path); err != nil {
			return nil, err
		}
		return model, nil
	default:
		return nil, errors.New("unsupported model type")
	}
}

// LoadClassifier reads a classifier artifact, dispatching on the kind it
// declares.
func LoadClassifier(path string) (Classifier, error) {
	kind, _, err := readArtifact(path, "")
	if err != nil {
		return nil, err
	}
	return LoadModel(kind, path)
}
