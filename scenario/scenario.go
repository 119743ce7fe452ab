/*
scenario.go - YAML scenario files

PURPOSE:
  Loads named scenarios from YAML and applies them as knob overrides on a
  fresh default bundle. A scenario file only lists the knobs it changes;
  everything else keeps its declared default, so files stay small and
  reviewable.

YAML SCHEMA:
  name: sobriete
  description: Demande réduite, parc solaire inchangé
  year: 2035
  knobs:
    tr_gain_sobriete_fraction: 0.25
    tert_renovation_gain_chauffage: 0.45

STRICTNESS:
  Unknown knob names fail the whole load. A typo that silently kept a
  default would produce a document labelled with assumptions it does not
  actually use.

USAGE:
  sc, err := scenario.Load("scenarios/sobriete.yaml")
  bundle, err := sc.Bundle()

SEE ALSO:
  - declarations.go: The knob names a scenario may reference
  - presets.go: Built-in scenarios that need no file
*/
package scenario

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/terrawatt/balance-engine/engine"
)

// =============================================================================
// SCENARIO TYPE
// =============================================================================

// Scenario is a named set of knob overrides on top of the defaults.
type Scenario struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description,omitempty"`
	Year        int                `yaml:"year,omitempty"`
	Knobs       map[string]float64 `yaml:"knobs,omitempty"`
}

// Load reads a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes YAML bytes into a scenario and checks every knob name
// against the declaration table.
func Parse(raw []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("scenario has no name")
	}
	if err := sc.checkKnobNames(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (s *Scenario) checkKnobNames() error {
	for name := range s.Knobs {
		if _, ok := specIndex[name]; !ok {
			return fmt.Errorf("scenario %q: %w", s.Name,
				&engine.UnknownKnobError{Name: name, Where: "scenario file"})
		}
	}
	return nil
}

// Apply writes the scenario's overrides into an existing bundle.
func (s *Scenario) Apply(b *Bundle) error {
	for name, v := range s.Knobs {
		if err := b.SetKnob(name, decimal.NewFromFloat(v)); err != nil {
			return fmt.Errorf("scenario %q: %w", s.Name, err)
		}
	}
	return nil
}

// Bundle builds a validated bundle: defaults plus this scenario's
// overrides.
func (s *Scenario) Bundle() (*Bundle, error) {
	b := Default()
	if err := s.Apply(b); err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return b, nil
}

// Marshal renders the scenario back to YAML, for writing preset files to
// disk.
func (s *Scenario) Marshal() ([]byte, error) {
	raw, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal scenario: %w", err)
	}
	return raw, nil
}
