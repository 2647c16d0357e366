// Package statefile loads application state from YAML files and watches
// them for changes.
package statefile

import (
	"bytes"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/reactor/internal/errors"
)

// Setter is written to by Apply. *reactive.Store satisfies it.
type Setter interface {
	Set(key string, value any)
}

// Load reads the YAML mapping at path.
func Load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("R040").WithDetail(path).Wrap(err)
	}
	state, err := Decode(data)
	if err != nil {
		return nil, errors.FromError(err, "R041").WithDetail(path)
	}
	return state, nil
}

// Decode parses a YAML mapping. An empty document yields an empty map.
func Decode(data []byte) (map[string]any, error) {
	state := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return state, nil
	}
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, errors.New("R041").Wrap(err)
	}
	return state, nil
}

// Apply writes every key of state to s in sorted key order. Each write
// notifies on its own.
func Apply(s Setter, state map[string]any) {
	keys := make([]string, 0, len(state))
	for k := range state {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s.Set(k, state[k])
	}
}
