package roleplay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioYAML = `scenarios:
  - id: cold-call-intro
    name: Cold Call Intro
    difficulty: intro
    door_slam_threshold: 5
    persona: A polite small business owner.
  - id: price-objection
    name: Price Objection
    difficulty: advanced
    door_slam_threshold: 0
    persona: A budget-conscious office manager.
`

func TestLoadScenarios(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0o644))

	set, err := LoadScenarios(path)
	require.NoError(t, err)

	scn, ok := set.Get("cold-call-intro")
	require.True(t, ok)
	assert.Equal(t, "Cold Call Intro", scn.Name)
	assert.Equal(t, "intro", scn.Difficulty)
	assert.Equal(t, 5, scn.DoorSlamThreshold)
	assert.False(t, scn.Unbounded())

	open, ok := set.Get("price-objection")
	require.True(t, ok)
	assert.True(t, open.Unbounded(), "zero threshold means the door never slams")

	_, ok = set.Get("nope")
	assert.False(t, ok)

	list := set.List()
	require.Len(t, list, 2)
	assert.Equal(t, "cold-call-intro", list[0].ID)
	assert.Equal(t, "price-objection", list[1].ID)
}

func TestLoadScenariosRejectsEmptyCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scenarios: []\n"), 0o644))

	_, err := LoadScenarios(path)
	assert.Error(t, err)
}

func TestMultiplier(t *testing.T) {
	assert.Equal(t, 0.8, Multiplier("intro"))
	assert.Equal(t, 1.0, Multiplier("standard"))
	assert.Equal(t, 1.2, Multiplier("advanced"))
	assert.Equal(t, 1.5, Multiplier("expert"))
	assert.Equal(t, 1.0, Multiplier("nightmare"), "unknown tiers fall back to 1.0")
}
