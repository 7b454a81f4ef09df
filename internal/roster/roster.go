// Package roster tracks the participants of a live classroom and their
// presentation state. The roster is seeded with the classroom's enrolled
// participants; per-participant toggles originate from the instructor
// console and from presence events.
package roster

import (
	"errors"
	"sync"
)

// ErrUnknownParticipant is returned when an operation names a participant
// that is not on the roster.
var ErrUnknownParticipant = errors.New("roster: unknown participant")

// Role of a roster participant inside the classroom.
type Role string

const (
	RoleInstructor Role = "instructor"
	RoleStudent    Role = "student"
)

// Participant is the roster entry for one classroom member.
type Participant struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	IsMuted      bool   `json:"is_muted"`
	IsCameraOff  bool   `json:"is_camera_off"`
	IsHandRaised bool   `json:"is_hand_raised"`
	IsLive       bool   `json:"is_live"`
	IsSpeaking   bool   `json:"is_speaking"`
}

// Roster holds the participants of one classroom. List order is insertion
// order, instructor first when seeded.
type Roster struct {
	mu    sync.RWMutex
	byID  map[string]*Participant
	order []string
}

func New() *Roster {
	return &Roster{byID: make(map[string]*Participant)}
}

// Seeded returns a roster pre-populated with the classroom's default
// participants.
func Seeded() *Roster {
	r := New()
	r.Add(Participant{ID: "instr-01", Name: "Instructor", Role: RoleInstructor, IsLive: true})
	r.Add(Participant{ID: "std-1", Name: "Sana Fatima", Role: RoleStudent, IsMuted: true, IsCameraOff: true})
	r.Add(Participant{ID: "std-2", Name: "Zoya Ahmed", Role: RoleStudent, IsSpeaking: true})
	r.Add(Participant{ID: "std-3", Name: "Ayesha Noor", Role: RoleStudent, IsMuted: true})
	return r
}

// Add inserts or replaces a participant. Replacing keeps the original list
// position.
func (r *Roster) Add(p Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	cp := p
	r.byID[p.ID] = &cp
}

// Remove drops a participant from the roster. Unknown IDs are ignored.
func (r *Roster) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return
	}
	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get returns a copy of the named participant.
func (r *Roster) Get(id string) (Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return Participant{}, ErrUnknownParticipant
	}
	return *p, nil
}

// List returns copies of all participants in insertion order.
func (r *Roster) List() []Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Participant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.byID[id])
	}
	return out
}

// ToggleMute flips the participant's mute flag and returns the new value.
func (r *Roster) ToggleMute(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return false, ErrUnknownParticipant
	}
	p.IsMuted = !p.IsMuted
	return p.IsMuted, nil
}

// ToggleCamera flips the participant's camera-off flag and returns the new
// value.
func (r *Roster) ToggleCamera(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return false, ErrUnknownParticipant
	}
	p.IsCameraOff = !p.IsCameraOff
	return p.IsCameraOff, nil
}

// SetHandRaised records a raise-hand or lower-hand event.
func (r *Roster) SetHandRaised(id string, raised bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return ErrUnknownParticipant
	}
	p.IsHandRaised = raised
	return nil
}

// SetSpeaking records a voice-activity change.
func (r *Roster) SetSpeaking(id string, speaking bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return ErrUnknownParticipant
	}
	p.IsSpeaking = speaking
	return nil
}

// SetLive records whether the participant is broadcasting.
func (r *Roster) SetLive(id string, live bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return ErrUnknownParticipant
	}
	p.IsLive = live
	return nil
}
