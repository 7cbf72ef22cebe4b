package sizing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/google/jsonschema-go/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/simulation"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/workload"
)

// Request asks for one sizing run. Zero run settings inherit the service
// defaults.
type Request struct {
	Answers         workload.Answers                       `json:"answers" yaml:"answers"`
	Iterations      int                                    `json:"iterations,omitempty" yaml:"iterations,omitempty" jsonschema:"number of Monte Carlo trials"`
	ConfidenceLevel float64                                `json:"confidence_level,omitempty" yaml:"confidence_level,omitempty" jsonschema:"confidence target in percent"`
	Seed            int64                                  `json:"seed,omitempty" yaml:"seed,omitempty" jsonschema:"fixed seed for a repeatable run"`
	Variables       map[string]simulation.VariableOverride `json:"variables,omitempty" yaml:"variables,omitempty" jsonschema:"per-variable enable flags and ranges"`
}

// RequestSchema returns the JSON schema request files are checked against.
func RequestSchema() (*jsonschema.Schema, error) {
	return jsonschema.For[Request](nil)
}

// ParseRequest validates YAML (or JSON) against the request schema and decodes it.
// Scalars the schema types as strings keep their literal text, so an unquoted
// range code such as 500_1000 stays a code instead of becoming an integer.
func ParseRequest(data []byte) (Request, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Request{}, fmt.Errorf("request: payload is empty")
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Request{}, fmt.Errorf("request: decode: %w", err)
	}

	schema, err := RequestSchema()
	if err != nil {
		return Request{}, fmt.Errorf("request: schema: %w", err)
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return Request{}, fmt.Errorf("request: schema: %w", err)
	}

	tree, err := instance(&doc, schema)
	if err != nil {
		return Request{}, fmt.Errorf("request: %w", err)
	}
	normalized, err := normalize(tree)
	if err != nil {
		return Request{}, fmt.Errorf("request: %w", err)
	}
	if err := resolved.Validate(normalized); err != nil {
		return Request{}, fmt.Errorf("request: %w", err)
	}

	var req Request
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&req); err != nil {
		return Request{}, fmt.Errorf("request: decode: %w", err)
	}
	return req, nil
}

// LoadRequestReader reads a request from r.
func LoadRequestReader(r io.Reader) (Request, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return Request{}, fmt.Errorf("request: read: %w", err)
	}
	return ParseRequest(content)
}

// LoadRequestFile reads a request from path.
func LoadRequestFile(path string) (Request, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Request{}, fmt.Errorf("request: read %s: %w", path, err)
	}
	req, err := ParseRequest(content)
	if err != nil {
		return Request{}, fmt.Errorf("%s: %w", path, err)
	}
	return req, nil
}

// normalize turns a YAML tree into the shape encoding/json produces so the
// schema sees float64 numbers and string-keyed maps.
func normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// instance converts a YAML tree into a schema instance, reading scalars under
// string-typed properties as their literal text.
func instance(n *yaml.Node, s *jsonschema.Schema) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return instance(n.Content[0], s)
	case yaml.AliasNode:
		return instance(n.Alias, s)
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			v, err := instance(n.Content[i+1], propertySchema(s, key))
			if err != nil {
				return nil, err
			}
			out[key] = v
		}
		return out, nil
	case yaml.SequenceNode:
		var items *jsonschema.Schema
		if s != nil {
			items = s.Items
		}
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := instance(c, items)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}

	if n.Tag != "!!null" && wantsString(s) {
		return n.Value, nil
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}
	return v, nil
}

func propertySchema(s *jsonschema.Schema, key string) *jsonschema.Schema {
	if s == nil {
		return nil
	}
	if p, ok := s.Properties[key]; ok {
		return p
	}
	return s.AdditionalProperties
}

func wantsString(s *jsonschema.Schema) bool {
	if s == nil {
		return false
	}
	return s.Type == "string" || slices.Contains(s.Types, "string")
}
