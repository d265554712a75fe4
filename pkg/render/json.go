package render

import (
	"encoding/json"

	"github.com/matzehuels/gatesketch/pkg/circuit"
)

// RenderJSON returns the circuit geometry as indented JSON.
func RenderJSON(c *circuit.Circuit) ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// ReadJSON decodes geometry written by [RenderJSON].
func ReadJSON(data []byte) (*circuit.Circuit, error) {
	var c circuit.Circuit
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
