package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/benjamonnguyen/breathwork-go/breathing"
	"github.com/benjamonnguyen/breathwork-go/settings"
)

var safetyNotice = []string{
	"Only practice seated or lying down.",
	"Never practice in water or while driving.",
	"Stop immediately if you feel lightheaded.",
}

func NewSettingsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change saved defaults",
	}
	cmd.AddCommand(
		newSettingsShowCommand(a),
		newSettingsSetCommand(a),
		newSettingsPaceCommand(a),
	)
	return cmd
}

func newSettingsShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.loadSettings()
			if err != nil {
				return err
			}
			return printSettings(cmd.OutOrStdout(), s)
		},
	}
}

func newSettingsSetCommand(a *app) *cobra.Command {
	var (
		rounds, breaths            int
		inhale, exhale             time.Duration
		holdGoal, recoveryGoal     time.Duration
		toggleAudio, toggleHaptics bool
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change saved defaults",
		Long: `Change saved defaults. Only the flags given are changed; values are clamped
to their allowed ranges.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.loadSettings()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			var o breathing.Overrides
			if flags.Changed("rounds") {
				o.Rounds = &rounds
			}
			if flags.Changed("breaths") {
				o.BreathsPerRound = &breaths
			}
			if flags.Changed("inhale") {
				o.Inhale = &inhale
			}
			if flags.Changed("exhale") {
				o.Exhale = &exhale
			}
			s = s.UpdateDefaults(s.Defaults.Merge(o))
			if flags.Changed("hold-goal") {
				s = s.WithHoldGoal(holdGoal)
			}
			if flags.Changed("recovery-goal") {
				s = s.WithRecoveryGoal(recoveryGoal)
			}
			if toggleAudio {
				s = s.ToggleAudio()
			}
			if toggleHaptics {
				s = s.ToggleHaptics()
			}

			if err := a.saveSettings(s); err != nil {
				return err
			}
			return printSettings(cmd.OutOrStdout(), s)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&rounds, "rounds", 0, "default number of rounds")
	flags.IntVar(&breaths, "breaths", 0, "default breaths per round")
	flags.DurationVar(&inhale, "inhale", 0, "default inhale duration")
	flags.DurationVar(&exhale, "exhale", 0, "default exhale duration")
	flags.DurationVar(&holdGoal, "hold-goal", 0, "empty-lung hold goal (0-3m)")
	flags.DurationVar(&recoveryGoal, "recovery-goal", 0, "recovery hold goal (5s-30s)")
	flags.BoolVar(&toggleAudio, "toggle-audio", false, "turn audio cues on or off")
	flags.BoolVar(&toggleHaptics, "toggle-haptics", false, "turn haptic cues on or off")
	return cmd
}

func newSettingsPaceCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "pace <slow|standard|fast>",
		Short:     "Set the default breathing pace",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(breathing.PaceSlow), string(breathing.PaceStandard), string(breathing.PaceFast)},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := breathing.ParsePace(args[0])
			if err != nil {
				return err
			}
			s, err := a.loadSettings()
			if err != nil {
				return err
			}
			s = s.WithPace(p)
			if err := a.saveSettings(s); err != nil {
				return err
			}
			return printSettings(cmd.OutOrStdout(), s)
		},
	}
}

func NewSafetyCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "safety",
		Short: "Read and acknowledge the safety notice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, goalStyle.Render("Safety first"))
			for _, line := range safetyNotice {
				fmt.Fprintln(out, "  - "+line)
			}

			s, err := a.loadSettings()
			if err != nil {
				return err
			}
			if s.SafetyAcknowledged() {
				fmt.Fprintln(out, mutedStyle.Render("acknowledged "+formatWhen(*s.SafetyAcknowledgedAt, time.Now())))
				return nil
			}
			s = s.AcknowledgeSafety(time.Now())
			if err := a.saveSettings(s); err != nil {
				return err
			}
			fmt.Fprintln(out, "acknowledged, you can now run: breathwork start")
			return nil
		},
	}
}

func printSettings(out io.Writer, s settings.Settings) error {
	d := s.Defaults
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "rounds\t%d\n", d.Rounds)
	fmt.Fprintf(w, "breaths per round\t%d\n", d.BreathsPerRound)
	fmt.Fprintf(w, "pace\t%s (%s in, %s out)\n", s.Pace, d.Inhale, d.Exhale)
	fmt.Fprintf(w, "hold goal\t%s\n", s.HoldGoal)
	fmt.Fprintf(w, "recovery goal\t%s\n", s.RecoveryGoal)
	fmt.Fprintf(w, "audio\t%t\n", s.AudioEnabled)
	fmt.Fprintf(w, "haptics\t%t\n", s.HapticsEnabled)
	fmt.Fprintf(w, "safety acknowledged\t%t\n", s.SafetyAcknowledged())
	return w.Flush()
}
