package ml

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"cytodiag/dataset"
)

// fixtureTable has four rows; field j of row i holds (i+1)*(j+1), so every
// field mean is 2.5*(j+1).
func fixtureTable(t *testing.T) *dataset.Table {
	t.Helper()
	schema := dataset.DefaultSchema()
	records := make([]dataset.Record, 4)
	for i := range records {
		values := make([]float64, schema.Len())
		for j := range values {
			values[j] = float64((i + 1) * (j + 1))
		}
		records[i] = dataset.Record{Diagnosis: i % 2, Values: values}
	}
	table, err := dataset.NewTable(schema, records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return table
}

func fixtureMeans(schema *dataset.Schema) []float64 {
	means := make([]float64, schema.Len())
	for j := range means {
		means[j] = 2.5 * float64(j+1)
	}
	return means
}

func writeJSON(t *testing.T, dir, name string, v any) string {
	t.Helper()
	payload, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s: %v", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// scalerArtifact centers on the fixture means with unit scale.
func scalerArtifact(schema *dataset.Schema) map[string]any {
	scale := make([]float64, schema.Len())
	for i := range scale {
		scale[i] = 1
	}
	return map[string]any{
		"kind":          KindStandardScaler,
		"feature_names": schema.Keys(),
		"mean":          fixtureMeans(schema),
		"scale":         scale,
	}
}

// logisticArtifact weighs only radius_mean, with intercept 0.4.
func logisticArtifact(schema *dataset.Schema) map[string]any {
	coef := make([]float64, schema.Len())
	coef[0] = 1
	return map[string]any{
		"kind":          KindLogisticRegression,
		"feature_names": schema.Keys(),
		"classes":       []int{0, 1},
		"coef":          coef,
		"intercept":     0.4,
	}
}

// treeArtifact splits once on scaled radius_mean at 0.
func treeArtifact(schema *dataset.Schema) map[string]any {
	return map[string]any{
		"kind":          KindDecisionTree,
		"feature_names": schema.Keys(),
		"classes":       []int{0, 1},
		"nodes": []map[string]any{
			{"feature_idx": 0, "threshold": 0.0, "left_child": 1, "right_child": 2, "is_leaf": false},
			{"is_leaf": true, "value": []float64{9, 1}},
			{"is_leaf": true, "value": []float64{2, 8}},
		},
	}
}

type artifactPaths struct {
	scaler   string
	logistic string
	tree     string
}

func writeArtifacts(t *testing.T, schema *dataset.Schema) artifactPaths {
	t.Helper()
	dir := t.TempDir()
	return artifactPaths{
		scaler:   writeJSON(t, dir, "scaler.json", scalerArtifact(schema)),
		logistic: writeJSON(t, dir, "model.json", logisticArtifact(schema)),
		tree:     writeJSON(t, dir, "tree.json", treeArtifact(schema)),
	}
}
