package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// marshalJSON goes through YAML so durations and colors keep their
// readable form ("30s", 81) instead of Go's defaults.
func marshalJSON(c Config) ([]byte, error) {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	out, err := json.MarshalIndent(generic, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return append(out, '\n'), nil
}
