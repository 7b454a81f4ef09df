// Package stage decides which stream occupies the main render slot and
// which, if any, occupies the picture-in-picture slot. Resolution is a pure
// function of routing state and the currently held streams so it can be
// exercised without any media backend.
package stage

import (
	"github.com/akinstitute/liveclass/internal/capture"
)

// InstructorID is the reserved source id for the instructor broadcast.
const InstructorID = "instructor"

// State is the routing state for one classroom.
type State struct {
	MainStageID string `json:"main_stage_id"`
	SpotlightID string `json:"spotlight_id,omitempty"`
	Swapped     bool   `json:"swapped"`
}

// NewState returns the default routing: instructor on the main stage, no
// spotlight, no swap.
func NewState() State {
	return State{MainStageID: InstructorID}
}

// Spotlight sets, replaces or clears the spotlighted participant. At most
// one participant is spotlighted at a time; re-selecting the current one
// clears the spotlight and resets the swap. The returned bool reports
// whether the spotlight was cleared.
func (s *State) Spotlight(participantID string) bool {
	if s.SpotlightID == participantID {
		s.SpotlightID = ""
		s.Swapped = false
		return true
	}
	s.SpotlightID = participantID
	return false
}

// ToggleSwap exchanges the content shown in the two slots.
func (s *State) ToggleSwap() {
	s.Swapped = !s.Swapped
}

// Clear resets the routing to its default mapping.
func (s *State) Clear() {
	*s = NewState()
}

// PiPVisible reports whether the secondary slot is rendered: a spotlight is
// active, or something other than the instructor holds the main stage.
func (s State) PiPVisible() bool {
	return s.SpotlightID != "" || s.MainStageID != InstructorID
}

// Assignment is the resolved slot mapping for one render pass. Stream
// references are transient reads; the capture engine retains ownership.
type Assignment struct {
	MainID string
	Main   capture.Stream
	PiPID  string
	PiP    capture.Stream
	// ShowPiP mirrors State.PiPVisible at resolution time.
	ShowPiP bool
}

// Resolve computes the slot mapping. The instructor broadcast prefers the
// screen stream when present, falling back to the camera; the participant
// stream is whatever the remote source supplied for the spotlight.
func Resolve(st State, camera, screen, participant capture.Stream) Assignment {
	broadcast := camera
	if screen != nil {
		broadcast = screen
	}

	if !st.PiPVisible() {
		return Assignment{MainID: InstructorID, Main: broadcast}
	}

	if st.Swapped {
		return Assignment{
			MainID:  st.SpotlightID,
			Main:    participant,
			PiPID:   InstructorID,
			PiP:     broadcast,
			ShowPiP: true,
		}
	}
	return Assignment{
		MainID:  InstructorID,
		Main:    broadcast,
		PiPID:   st.SpotlightID,
		PiP:     participant,
		ShowPiP: true,
	}
}
