package script

import (
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

func ParseScriptYAML(r io.Reader) (*Script, error) {
	yamlBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}

	jsonBytes, err := yaml.YAMLToJSON(yamlBytes)
	if err != nil {
		return nil, fmt.Errorf("yaml.YAMLToJSON: %w", err)
	}

	return ParseScriptJSON(bytes.NewReader(jsonBytes))
}

func ParseScriptJSON(r io.Reader) (*Script, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var root scriptRootDef
	if err := decoder.Decode(&root); err != nil {
		return nil, fmt.Errorf("json.Decode: %w", err)
	}

	return root.compile()
}
