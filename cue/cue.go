// Package cue derives feedback cues (phase changes, hold goals reached,
// completion) by comparing consecutive session views.
package cue

import (
	"github.com/benjamonnguyen/breathwork-go/breathing"
	"github.com/benjamonnguyen/breathwork-go/session"
)

type Kind string

const (
	PhaseStarted     Kind = "phase_started"
	GoalReached      Kind = "goal_reached"
	SessionCompleted Kind = "session_completed"
)

type Cue struct {
	Kind  Kind
	Phase breathing.Phase
	Round int
	// Breath is 0 outside breath phases.
	Breath int
}

func newCue(kind Kind, snap breathing.Snapshot) Cue {
	return Cue{
		Kind:   kind,
		Phase:  snap.Phase,
		Round:  snap.Round,
		Breath: snap.Breath,
	}
}

// Detect returns the cues implied by moving from prev to curr, in the order a
// listener should play them. A zero prev is treated as "nothing shown yet".
func Detect(prev, curr session.View) []Cue {
	if curr.Status == session.Idle {
		return nil
	}

	var cues []Cue
	prevKey := prev.Snapshot.Phase.Key()
	currKey := curr.Snapshot.Phase.Key()
	shown := prev.Status != session.Idle

	if curr.Status == session.Completed {
		if prev.Status != session.Completed {
			cues = append(cues, newCue(SessionCompleted, curr.Snapshot))
		}
		return cues
	}

	if !shown || prevKey != currKey {
		cues = append(cues, newCue(PhaseStarted, curr.Snapshot))
	}
	samePhase := shown && prevKey == currKey
	if curr.Hold.GoalReached && !(samePhase && prev.Hold.GoalReached) {
		cues = append(cues, newCue(GoalReached, curr.Snapshot))
	}
	return cues
}
