package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cytodiag/dataset"
)

// writeFixture lays out a dataset, a scaler, a logistic model and a config
// file in a temp dir. Field j of row i is (i+1)*(j+1).
func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	schema := dataset.DefaultSchema()
	keys := schema.Keys()

	var csv strings.Builder
	csv.WriteString("id,diagnosis," + strings.Join(keys, ",") + "\n")
	for i := 0; i < 4; i++ {
		diag := "B"
		if i%2 == 1 {
			diag = "M"
		}
		row := []string{fmt.Sprint(1000 + i), diag}
		for j := range keys {
			row = append(row, fmt.Sprint((i+1)*(j+1)))
		}
		csv.WriteString(strings.Join(row, ",") + "\n")
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.csv"), []byte(csv.String()), 0o600))

	means := make([]float64, len(keys))
	scale := make([]float64, len(keys))
	coef := make([]float64, len(keys))
	for j := range keys {
		means[j] = 2.5 * float64(j+1)
		scale[j] = 1
	}
	coef[0] = 1
	writeJSON(t, filepath.Join(dir, "scaler.json"), map[string]any{
		"kind": "standard_scaler", "feature_names": keys, "mean": means, "scale": scale,
	})
	writeJSON(t, filepath.Join(dir, "model.json"), map[string]any{
		"kind": "logistic_regression", "feature_names": keys, "classes": []int{0, 1},
		"coef": coef, "intercept": 0.4,
	})

	cfg := fmt.Sprintf(`dataset:
  path: %q
model:
  kind: logistic_regression
  path: %q
  scaler_path: %q
log:
  level: error
`, filepath.Join(dir, "data.csv"), filepath.Join(dir, "model.json"), filepath.Join(dir, "scaler.json"))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	payload, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, payload, 0o600))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestPredictCommandJSON(t *testing.T) {
	cfgPath := writeFixture(t)

	out, err := execute(t, "predict", "--config", cfgPath, "--set", "radius_mean=4", "--set", "texture_mean=99", "--json")
	require.NoError(t, err, out)

	var payload struct {
		Inputs     map[string]float64 `json:"inputs"`
		Prediction struct {
			Label         int        `json:"label"`
			Diagnosis     string     `json:"diagnosis"`
			Probabilities [2]float64 `json:"probabilities"`
		} `json:"prediction"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))

	assert.Equal(t, 4.0, payload.Inputs["radius_mean"])
	// clamped to the observed maximum
	assert.Equal(t, 8.0, payload.Inputs["texture_mean"])
	assert.Equal(t, 1, payload.Prediction.Label)
	assert.Equal(t, "malignant", payload.Prediction.Diagnosis)
	want := 1 / (1 + math.Exp(-1.9))
	assert.InDelta(t, want, payload.Prediction.Probabilities[1], 1e-9)
	assert.InDelta(t, 1.0, payload.Prediction.Probabilities[0]+payload.Prediction.Probabilities[1], 1e-12)
}

func TestFieldsCommand(t *testing.T) {
	cfgPath := writeFixture(t)

	out, err := execute(t, "fields", "--config", cfgPath, "--lang", "en")
	require.NoError(t, err, out)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 32)
	assert.Contains(t, lines[2], "radius_mean")
	assert.Contains(t, lines[2], "Radius (mean)")
	assert.Contains(t, lines[31], "fractal_dimension_worst")
}

func TestMissingExplicitConfig(t *testing.T) {
	_, err := execute(t, "fields", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestMissingArtifactsPointAtSetupNotes(t *testing.T) {
	for _, name := range []string{"data.csv", "model.json", "scaler.json"} {
		cfgPath := writeFixture(t)
		require.NoError(t, os.Remove(filepath.Join(filepath.Dir(cfgPath), name)))

		_, err := execute(t, "fields", "--config", cfgPath)
		require.Error(t, err, name)
		assert.ErrorIs(t, err, fs.ErrNotExist, name)
		assert.Contains(t, err.Error(), name, name)
		assert.Contains(t, err.Error(), "README.md", name)
	}
}

func TestParseAssignments(t *testing.T) {
	values, err := parseAssignments([]string{"radius_mean=1.5", "concave points_worst = 0.25"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"radius_mean": 1.5, "concave points_worst": 0.25}, values)

	for _, bad := range []string{"radius_mean", "=3", "radius_mean=wide"} {
		_, err := parseAssignments([]string{bad})
		assert.Error(t, err, bad)
	}
}
