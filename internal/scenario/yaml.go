package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/metrosim/internal/engine"
)

// fileSpec is the on-disk scenario shape. Every field is optional; omitted
// policy magnitudes and params fall back to the engine defaults so a file
// only has to state what it changes.
type fileSpec struct {
	Policy     map[string]any     `yaml:"policy"`
	Params     map[string]float64 `yaml:"params"`
	TotalSteps int                `yaml:"total_steps"`
	RandomSeed *int64             `yaml:"random_seed"`
}

// Load reads a scenario YAML file into a run config. Unknown policy keys
// are rejected; the resulting policy is clamped into its documented ranges.
func Load(path string) (*engine.Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(raw)
}

// Parse decodes scenario YAML into a run config.
func Parse(raw []byte) (*engine.Config, error) {
	var spec fileSpec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	cfg := engine.DefaultConfig()
	if spec.Policy != nil {
		// Round-trip the policy fragment through YAML so partial policies
		// overlay the neutral defaults field by field.
		frag, err := yaml.Marshal(spec.Policy)
		if err != nil {
			return nil, fmt.Errorf("parse scenario policy: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(frag))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg.Policy); err != nil {
			return nil, fmt.Errorf("parse scenario policy: %w", err)
		}
	}
	for k, v := range spec.Params {
		cfg.Params[k] = v
	}
	if spec.TotalSteps > 0 {
		cfg.TotalSteps = spec.TotalSteps
	}
	if spec.RandomSeed != nil {
		cfg.RandomSeed = *spec.RandomSeed
	}

	cfg.Policy = cfg.Policy.Clamp()
	return cfg, nil
}
