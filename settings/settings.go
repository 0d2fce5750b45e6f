// Package settings holds user preferences: default session configuration,
// pace, hold goals and feedback toggles.
package settings

import (
	"time"

	"github.com/benjamonnguyen/breathwork-go/breathing"
)

var (
	HoldGoalLimit     = breathing.Limit[time.Duration]{Min: 0, Max: 180 * time.Second}
	RecoveryGoalLimit = breathing.Limit[time.Duration]{Min: 5 * time.Second, Max: 30 * time.Second}
)

type Settings struct {
	Defaults       breathing.Config
	Pace           breathing.Pace
	AudioEnabled   bool
	HapticsEnabled bool
	// SafetyAcknowledgedAt is nil until the safety notice is accepted.
	SafetyAcknowledgedAt *time.Time
	HoldGoal             time.Duration
	RecoveryGoal         time.Duration
}

func Default() Settings {
	cfg := breathing.DefaultConfig()
	return Settings{
		Defaults:       cfg,
		Pace:           breathing.PaceStandard,
		AudioEnabled:   true,
		HapticsEnabled: true,
		HoldGoal:       cfg.HoldGoal,
		RecoveryGoal:   cfg.RecoveryGoal,
	}
}

// UpdateDefaults replaces the default session configuration, clamped to
// breathing.Limits.
func (s Settings) UpdateDefaults(cfg breathing.Config) Settings {
	s.Defaults = cfg.Clamp()
	return s
}

// WithPace records p and applies its breath timings to the defaults. Unknown
// paces leave s unchanged.
func (s Settings) WithPace(p breathing.Pace) Settings {
	if _, err := breathing.ParsePace(string(p)); err != nil {
		return s
	}
	s.Pace = p
	s.Defaults = s.Defaults.WithPace(p)
	return s
}

func (s Settings) WithHoldGoal(d time.Duration) Settings {
	s.HoldGoal = HoldGoalLimit.Clamp(d)
	return s
}

func (s Settings) WithRecoveryGoal(d time.Duration) Settings {
	s.RecoveryGoal = RecoveryGoalLimit.Clamp(d)
	return s
}

func (s Settings) ToggleAudio() Settings {
	s.AudioEnabled = !s.AudioEnabled
	return s
}

func (s Settings) ToggleHaptics() Settings {
	s.HapticsEnabled = !s.HapticsEnabled
	return s
}

func (s Settings) AcknowledgeSafety(now time.Time) Settings {
	s.SafetyAcknowledgedAt = &now
	return s
}

func (s Settings) SafetyAcknowledged() bool {
	return s.SafetyAcknowledgedAt != nil
}

// SessionConfig is the configuration a new session starts from.
func (s Settings) SessionConfig() breathing.Config {
	cfg := s.Defaults
	cfg.HoldGoal = s.HoldGoal
	cfg.RecoveryGoal = s.RecoveryGoal
	return cfg
}

func (s Settings) clamp() Settings {
	s.Defaults = s.Defaults.Clamp()
	s.HoldGoal = HoldGoalLimit.Clamp(s.HoldGoal)
	s.RecoveryGoal = RecoveryGoalLimit.Clamp(s.RecoveryGoal)
	return s
}
