package breathing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Equal(t, DefaultConfig(), DefaultConfig().Clamp())
}

func TestConfig_Clamp(t *testing.T) {
	cfg := Config{
		Rounds:          20,
		BreathsPerRound: 1,
		Inhale:          0,
		Exhale:          10 * time.Second,
		HoldGoal:        -time.Second,
		RecoveryGoal:    time.Minute,
	}.Clamp()

	assert.Equal(t, Config{
		Rounds:          8,
		BreathsPerRound: 10,
		Inhale:          time.Second,
		Exhale:          4 * time.Second,
		HoldGoal:        0,
		RecoveryGoal:    20 * time.Second,
	}, cfg)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Merge(t *testing.T) {
	rounds := 5
	hold := time.Duration(0)
	cfg := DefaultConfig().Merge(Overrides{Rounds: &rounds, HoldGoal: &hold})

	assert.Equal(t, 5, cfg.Rounds)
	assert.Zero(t, cfg.HoldGoal, "explicit zero hold must survive")
	assert.Equal(t, DefaultConfig().BreathsPerRound, cfg.BreathsPerRound)
	assert.Equal(t, DefaultConfig().RecoveryGoal, cfg.RecoveryGoal)
}

func TestConfig_MergeNonZero(t *testing.T) {
	cfg := Config{Rounds: 2, HoldGoal: 0, RecoveryGoal: 10 * time.Second}.MergeNonZero(DefaultConfig())

	assert.Equal(t, 2, cfg.Rounds)
	assert.Equal(t, 30, cfg.BreathsPerRound)
	assert.Equal(t, 2*time.Second, cfg.Inhale)
	assert.Equal(t, 2*time.Second, cfg.Exhale)
	assert.Zero(t, cfg.HoldGoal)
	assert.Equal(t, 10*time.Second, cfg.RecoveryGoal)
}

func TestParsePace(t *testing.T) {
	p, err := ParsePace(" Fast ")
	require.NoError(t, err)
	assert.Equal(t, PaceFast, p)

	_, err = ParsePace("hyper")
	assert.Error(t, err)
}

func TestConfig_WithPace(t *testing.T) {
	cfg := DefaultConfig().WithPace(PaceSlow)
	assert.Equal(t, 3*time.Second, cfg.Inhale)
	assert.Equal(t, 3*time.Second, cfg.Exhale)

	cfg = DefaultConfig().WithPace(PaceFast)
	assert.Equal(t, 1500*time.Millisecond, cfg.Inhale)

	assert.Equal(t, DefaultConfig(), DefaultConfig().WithPace("unknown"))
}

func TestPhaseKind_String(t *testing.T) {
	assert.Equal(t, "Inhale", Inhale.String())
	assert.Equal(t, "Exhale", Exhale.String())
	assert.Equal(t, "Hold", Hold.String())
	assert.Equal(t, "Recovery", Recovery.String())
	assert.True(t, Recovery.IsHold())
	assert.False(t, Exhale.IsHold())
}
