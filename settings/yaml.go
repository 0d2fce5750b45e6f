package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/benjamonnguyen/breathwork-go/breathing"
)

// duration is written as a Go duration string, e.g. "1m30s".
type duration time.Duration

func (d duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = duration(parsed)
	return nil
}

type yamlDefaults struct {
	Rounds          *int      `yaml:"rounds,omitempty"`
	BreathsPerRound *int      `yaml:"breaths_per_round,omitempty"`
	Inhale          *duration `yaml:"inhale,omitempty"`
	Exhale          *duration `yaml:"exhale,omitempty"`
	HoldGoal        *duration `yaml:"hold_goal,omitempty"`
	RecoveryGoal    *duration `yaml:"recovery_goal,omitempty"`
}

// yamlSettings pointers distinguish missing keys, which keep their defaults.
type yamlSettings struct {
	Defaults             *yamlDefaults `yaml:"defaults,omitempty"`
	Pace                 *string       `yaml:"pace,omitempty"`
	AudioEnabled         *bool         `yaml:"audio_enabled,omitempty"`
	HapticsEnabled       *bool         `yaml:"haptics_enabled,omitempty"`
	SafetyAcknowledgedAt *time.Time    `yaml:"safety_acknowledged_at,omitempty"`
	HoldGoal             *duration     `yaml:"hold_goal,omitempty"`
	RecoveryGoal         *duration     `yaml:"recovery_goal,omitempty"`
}

// Load reads settings from path. A missing file yields Default(). Values are
// always clamped to their limits.
func Load(path string) (Settings, error) {
	settings := Default()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings.clamp(), nil
}

func Save(path string, settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	d := settings.Defaults
	pace := string(settings.Pace)
	fileData := yamlSettings{
		Defaults: &yamlDefaults{
			Rounds:          &d.Rounds,
			BreathsPerRound: &d.BreathsPerRound,
			Inhale:          durationPtr(d.Inhale),
			Exhale:          durationPtr(d.Exhale),
			HoldGoal:        durationPtr(d.HoldGoal),
			RecoveryGoal:    durationPtr(d.RecoveryGoal),
		},
		Pace:                 &pace,
		AudioEnabled:         &settings.AudioEnabled,
		HapticsEnabled:       &settings.HapticsEnabled,
		SafetyAcknowledgedAt: settings.SafetyAcknowledgedAt,
		HoldGoal:             durationPtr(settings.HoldGoal),
		RecoveryGoal:         durationPtr(settings.RecoveryGoal),
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}
	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

func applyYamlSettings(settings *Settings, fileData yamlSettings) {
	if fd := fileData.Defaults; fd != nil {
		var o breathing.Overrides
		o.Rounds = fd.Rounds
		o.BreathsPerRound = fd.BreathsPerRound
		o.Inhale = (*time.Duration)(fd.Inhale)
		o.Exhale = (*time.Duration)(fd.Exhale)
		o.HoldGoal = (*time.Duration)(fd.HoldGoal)
		o.RecoveryGoal = (*time.Duration)(fd.RecoveryGoal)
		settings.Defaults = settings.Defaults.Merge(o)
	}

	if fileData.Pace != nil {
		if p, err := breathing.ParsePace(*fileData.Pace); err == nil {
			settings.Pace = p
		}
	}
	if fileData.AudioEnabled != nil {
		settings.AudioEnabled = *fileData.AudioEnabled
	}
	if fileData.HapticsEnabled != nil {
		settings.HapticsEnabled = *fileData.HapticsEnabled
	}
	if fileData.SafetyAcknowledgedAt != nil {
		at := *fileData.SafetyAcknowledgedAt
		settings.SafetyAcknowledgedAt = &at
	}
	if fileData.HoldGoal != nil {
		settings.HoldGoal = time.Duration(*fileData.HoldGoal)
	}
	if fileData.RecoveryGoal != nil {
		settings.RecoveryGoal = time.Duration(*fileData.RecoveryGoal)
	}
}

func durationPtr(d time.Duration) *duration {
	v := duration(d)
	return &v
}
