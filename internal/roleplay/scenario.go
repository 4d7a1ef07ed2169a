package roleplay

import (
	"fmt"
	"os"
	"sort"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Scenario is the static configuration driving one roleplay persona. A
// DoorSlamThreshold of zero means the prospect never slams the door.
type Scenario struct {
	ID                string `yaml:"id"`
	Name              string `yaml:"name"`
	Difficulty        string `yaml:"difficulty"`
	DoorSlamThreshold int    `yaml:"door_slam_threshold"`
	Persona           string `yaml:"persona"`
}

// Unbounded reports whether the scenario has no door-slam threshold.
func (s Scenario) Unbounded() bool {
	return s.DoorSlamThreshold <= 0
}

// ScenarioSet is the read-only scenario catalog, loaded once at startup.
type ScenarioSet struct {
	byID map[string]Scenario
}

// LoadScenarios reads the scenario catalog from a YAML file.
func LoadScenarios(path string) (*ScenarioSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenarios: %w", err)
	}
	var file struct {
		Scenarios []Scenario `yaml:"scenarios"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse scenarios: %w", err)
	}
	if len(file.Scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios in %s", path)
	}
	return NewScenarioSet(file.Scenarios...), nil
}

// NewScenarioSet builds a catalog from the given scenarios.
func NewScenarioSet(scenarios ...Scenario) *ScenarioSet {
	return &ScenarioSet{
		byID: lo.SliceToMap(scenarios, func(s Scenario) (string, Scenario) {
			return s.ID, s
		}),
	}
}

// Get looks up a scenario by ID.
func (ss *ScenarioSet) Get(id string) (Scenario, bool) {
	s, ok := ss.byID[id]
	return s, ok
}

// List returns all scenarios ordered by ID.
func (ss *ScenarioSet) List() []Scenario {
	out := lo.Values(ss.byID)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// difficultyMultipliers scale XP per tier. Unknown tiers fall back to 1.0.
var difficultyMultipliers = map[string]float64{
	"intro":    0.8,
	"standard": 1.0,
	"advanced": 1.2,
	"expert":   1.5,
}

// Multiplier returns the XP multiplier for a difficulty tier.
func Multiplier(difficulty string) float64 {
	if m, ok := difficultyMultipliers[difficulty]; ok {
		return m
	}
	return 1.0
}
