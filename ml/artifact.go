package ml

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var ErrInvalidArtifact = errors.New("invalid model artifact")

const scalerSchema = `{
  "type": "object",
  "required": ["kind", "feature_names", "mean", "scale"],
  "properties": {
    "kind": {"const": "standard_scaler"},
    "feature_names": {"type": "array", "minItems": 1, "items": {"type": "string"}},
    "mean": {"type": "array", "minItems": 1, "items": {"type": "number"}},
    "scale": {"type": "array", "minItems": 1, "items": {"type": "number", "exclusiveMinimum": 0}}
  }
}`

const logisticSchema = `{
  "type": "object",
  "required": ["kind", "feature_names", "classes", "coef", "intercept"],
  "properties": {
    "kind": {"const": "logistic_regression"},
    "feature_names": {"type": "array", "minItems": 1, "items": {"type": "string"}},
    "classes": {"const": [0, 1]},
    "coef": {"type": "array", "minItems": 1, "items": {"type": "number"}},
    "intercept": {"type": "number"}
  }
}`

const treeSchema = `{
  "type": "object",
  "required": ["kind", "feature_names", "classes", "nodes"],
  "properties": {
    "kind": {"const": "decision_tree"},
    "feature_names": {"type": "array", "minItems": 1, "items": {"type": "string"}},
    "classes": {"const": [0, 1]},
    "nodes": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["is_leaf"],
        "properties": {
          "feature_idx": {"type": "integer"},
          "threshold": {"type": "number"},
          "left_child": {"type": "integer"},
          "right_child": {"type": "integer"},
          "is_leaf": {"type": "boolean"},
          "value": {"type": "array", "minItems": 2, "maxItems": 2, "items": {"type": "number", "minimum": 0}}
        }
      }
    }
  }
}`

var artifactSchemas = map[string]string{
	KindStandardScaler:     scalerSchema,
	KindLogisticRegression: logisticSchema,
	KindDecisionTree:       treeSchema,
}

var compiledSchemas sync.Map // kind -> *jsonschema.Schema

// artifactHeader is the part every artifact shares.
type artifactHeader struct {
	Kind string `json:"kind"`
}

// readArtifact reads path, checks it against the schema of kind (or of the
// kind it declares when kind is empty) and returns the raw payload.
func readArtifact(path, kind string) (string, []byte, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read artifact: %w", err)
	}

	var header artifactHeader
	if err := json.Unmarshal(payload, &header); err != nil {
		return "", nil, fmt.Errorf("%w: %s: %v", ErrInvalidArtifact, path, err)
	}
	if kind == "" {
		kind = header.Kind
	}
	if err := validateArtifact(kind, payload); err != nil {
		return "", nil, fmt.Errorf("%w: %s: %v", ErrInvalidArtifact, path, err)
	}
	return kind, payload, nil
}

func validateArtifact(kind string, payload []byte) error {
	schema, err := compiledSchema(kind)
	if err != nil {
		return err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(payload))
	if err != nil {
		return err
	}
	return schema.Validate(doc)
}

func compiledSchema(kind string) (*jsonschema.Schema, error) {
	if cached, ok := compiledSchemas.Load(kind); ok {
		return cached.(*jsonschema.Schema), nil
	}
	def, ok := artifactSchemas[kind]
	if !ok {
		return nil, fmt.Errorf("unsupported artifact kind %q", kind)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(def)))
	if err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", kind, err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", kind)
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	compiledSchemas.Store(kind, compiled)
	return compiled, nil
}

func checkWidths(names []string, lengths map[string]int) error {
	for field, n := range lengths {
		if n != len(names) {
			return fmt.Errorf("%s has %d entries, feature_names has %d", field, n, len(names))
		}
	}
	return nil
}
