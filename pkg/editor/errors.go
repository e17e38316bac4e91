package editor

import (
	"fmt"

	apperrors "github.com/matzehuels/paeditor/pkg/errors"
)

// MalformedAutomatonError is returned by [Build] when the automaton does not
// have exactly one root state.
type MalformedAutomatonError struct {
	RootCount int // Number of states named "<>"
}

func (e *MalformedAutomatonError) Error() string {
	if e.RootCount == 0 {
		return "malformed automaton: no root state"
	}
	return fmt.Sprintf("malformed automaton: %d root states, want exactly one", e.RootCount)
}

// Code returns [apperrors.ErrCodeMalformedAutomaton].
func (e *MalformedAutomatonError) Code() apperrors.Code { return apperrors.ErrCodeMalformedAutomaton }

// DanglingReferenceError is returned by [Build] when a state lists a
// transition that does not exist, or a transition points at an unknown state.
type DanglingReferenceError struct {
	TransitionID string
	StateID      string // Unknown to_state, or the state listing the unknown transition
	// UnknownTransition is set when TransitionID itself could not be resolved.
	UnknownTransition bool
}

func (e *DanglingReferenceError) Error() string {
	if e.UnknownTransition {
		return fmt.Sprintf("dangling reference: state %q lists unknown transition %q", e.StateID, e.TransitionID)
	}
	return fmt.Sprintf("dangling reference: transition %q points to unknown state %q", e.TransitionID, e.StateID)
}

// Code returns [apperrors.ErrCodeDanglingReference].
func (e *DanglingReferenceError) Code() apperrors.Code { return apperrors.ErrCodeDanglingReference }
