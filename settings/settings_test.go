package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjamonnguyen/breathwork-go/breathing"
)

func TestDefault(t *testing.T) {
	s := Default()
	assert.Equal(t, breathing.DefaultConfig(), s.Defaults)
	assert.Equal(t, breathing.PaceStandard, s.Pace)
	assert.True(t, s.AudioEnabled)
	assert.True(t, s.HapticsEnabled)
	assert.False(t, s.SafetyAcknowledged())
	assert.Equal(t, breathing.DefaultConfig(), s.SessionConfig())
}

func TestSettings_Mutators(t *testing.T) {
	base := Default()

	s := base.WithHoldGoal(5 * time.Minute)
	assert.Equal(t, 180*time.Second, s.HoldGoal)
	assert.Equal(t, 60*time.Second, base.HoldGoal, "mutators return copies")
	assert.Zero(t, base.WithHoldGoal(-time.Second).HoldGoal)

	assert.Equal(t, 5*time.Second, base.WithRecoveryGoal(time.Second).RecoveryGoal)
	assert.Equal(t, 30*time.Second, base.WithRecoveryGoal(time.Minute).RecoveryGoal)
	assert.Equal(t, 25*time.Second, base.WithRecoveryGoal(25*time.Second).RecoveryGoal)

	assert.False(t, base.ToggleAudio().AudioEnabled)
	assert.True(t, base.ToggleAudio().ToggleAudio().AudioEnabled)
	assert.False(t, base.ToggleHaptics().HapticsEnabled)

	now := time.Date(2026, 1, 21, 7, 0, 0, 0, time.UTC)
	acked := base.AcknowledgeSafety(now)
	require.True(t, acked.SafetyAcknowledged())
	assert.Equal(t, now, *acked.SafetyAcknowledgedAt)
}

func TestSettings_UpdateDefaultsClamps(t *testing.T) {
	s := Default().UpdateDefaults(breathing.Config{
		Rounds:          99,
		BreathsPerRound: 30,
		Inhale:          2 * time.Second,
		Exhale:          2 * time.Second,
		HoldGoal:        time.Hour,
		RecoveryGoal:    15 * time.Second,
	})
	assert.Equal(t, 8, s.Defaults.Rounds)
	assert.Equal(t, 180*time.Second, s.Defaults.HoldGoal)
}

func TestSettings_WithPace(t *testing.T) {
	s := Default().WithPace(breathing.PaceSlow)
	assert.Equal(t, breathing.PaceSlow, s.Pace)
	assert.Equal(t, 3*time.Second, s.Defaults.Inhale)
	assert.Equal(t, 3*time.Second, s.Defaults.Exhale)

	assert.Equal(t, s, s.WithPace("turbo"))
}

func TestSettings_SessionConfigUsesHoldGoals(t *testing.T) {
	s := Default().WithHoldGoal(90 * time.Second).WithRecoveryGoal(20 * time.Second)
	cfg := s.SessionConfig()
	assert.Equal(t, 90*time.Second, cfg.HoldGoal)
	assert.Equal(t, 20*time.Second, cfg.RecoveryGoal)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	now := time.Date(2026, 1, 21, 7, 0, 0, 0, time.UTC)
	want := Default().
		WithPace(breathing.PaceFast).
		WithHoldGoal(0).
		WithRecoveryGoal(12 * time.Second).
		ToggleHaptics().
		AcknowledgeSafety(now)

	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want.Defaults, got.Defaults)
	assert.Equal(t, want.Pace, got.Pace)
	assert.Zero(t, got.HoldGoal)
	assert.Equal(t, 12*time.Second, got.RecoveryGoal)
	assert.True(t, got.AudioEnabled)
	assert.False(t, got.HapticsEnabled)
	require.NotNil(t, got.SafetyAcknowledgedAt)
	assert.True(t, now.Equal(*got.SafetyAcknowledgedAt))
}

func TestLoad_PartialFileKeepsDefaultsAndClamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pace: bogus
audio_enabled: false
hold_goal: 10m
defaults:
  rounds: 12
  exhale: 3s
`), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.False(t, s.AudioEnabled)
	assert.True(t, s.HapticsEnabled)
	assert.Equal(t, breathing.PaceStandard, s.Pace)
	assert.Equal(t, 180*time.Second, s.HoldGoal)
	assert.Equal(t, 8, s.Defaults.Rounds)
	assert.Equal(t, 3*time.Second, s.Defaults.Exhale)
	assert.Equal(t, breathing.DefaultConfig().Inhale, s.Defaults.Inhale)
}

func TestLoad_InvalidYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hold_goal: soon\n"), 0o644))

	s, err := Load(path)
	assert.Error(t, err)
	assert.Equal(t, Default(), s)
}
