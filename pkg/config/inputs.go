package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/user/gosec-posture/pkg/engine"
	"gopkg.in/yaml.v3"
)

// LoadCatalog reads a YAML control catalog from path
func LoadCatalog(path string) (*engine.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cat, err := engine.ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return cat, nil
}

// labels accepts either a single scalar label or a list of labels
type labels []string

func (l *labels) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*l = nil
			return nil
		}
		*l = labels{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*l = list
		return nil
	default:
		return fmt.Errorf("line %d: answers must be a label or a list of labels", node.Line)
	}
}

// ParseResponses decodes a question -> labels mapping. JSON is accepted as well as YAML.
func ParseResponses(data []byte) (engine.ResponseSet, error) {
	var raw map[string]labels
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make(engine.ResponseSet, len(raw))
	for q, l := range raw {
		out[q] = []string(l)
	}
	return out, nil
}

// LoadResponses reads an answers file from path
func LoadResponses(path string) (engine.ResponseSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	responses, err := ParseResponses(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return responses, nil
}
