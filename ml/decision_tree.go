package ml

import (
	"encoding/json"
	"errors"
	"fmt"
)

const KindDecisionTree = "decision_tree"

// DecisionTree is a fitted binary tree stored as a flat node list. Node 0 is
// the root; leaves carry per-class sample weights.
type DecisionTree struct {
	Names   []string   `json:"feature_names"`
	Classes []int      `json:"classes"`
	Nodes   []TreeNode `json:"nodes"`
}

type TreeNode struct {
	FeatureIdx int       `json:"feature_idx"`
	Threshold  float64   `json:"threshold"`
	LeftChild  int       `json:"left_child"`
	RightChild int       `json:"right_child"`
	IsLeaf     bool      `json:"is_leaf"`
	Value      []float64 `json:"value,omitempty"`
}

func (dt *DecisionTree) Load(path string) error {
	_, payload, err := readArtifact(path, KindDecisionTree)
	if err != nil {
		return err
	}
	return dt.decode(payload)
}

func (dt *DecisionTree) decode(payload []byte) error {
	if err := json.Unmarshal(payload, dt); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	if err := dt.check(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	return nil
}

// check rejects trees whose links leave the node list, split on unknown
// features, or whose leaves carry no weight.
func (dt *DecisionTree) check() error {
	for i, node := range dt.Nodes {
		if node.IsLeaf {
			if len(node.Value) != 2 || node.Value[0]+node.Value[1] <= 0 {
				return fmt.Errorf("node %d: leaf needs two non-zero class weights", i)
			}
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(dt.Names) {
			return fmt.Errorf("node %d: feature index %d out of range", i, node.FeatureIdx)
		}
		for _, child := range []int{node.LeftChild, node.RightChild} {
			if child <= i || child >= len(dt.Nodes) {
				return fmt.Errorf("node %d: invalid child %d", i, child)
			}
		}
	}
	return nil
}

func (dt *DecisionTree) PredictProba(features []float64) ([]float64, error) {
	if len(dt.Nodes) == 0 {
		return nil, errors.New("model not loaded")
	}
	if len(features) != len(dt.Names) {
		return nil, fmt.Errorf("%w: model expects %d features, got %d", ErrSchemaMismatch, len(dt.Names), len(features))
	}
	idx := 0
	for {
		node := dt.Nodes[idx]
		if node.IsLeaf {
			total := node.Value[0] + node.Value[1]
			return []float64{node.Value[0] / total, node.Value[1] / total}, nil
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
}

func (dt *DecisionTree) FeatureNames() []string {
	return dt.Names
}

func (dt *DecisionTree) Kind() string {
	return KindDecisionTree
}
