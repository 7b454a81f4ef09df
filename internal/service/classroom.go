package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/akinstitute/liveclass/internal/audit"
	"github.com/akinstitute/liveclass/internal/capture"
	"github.com/akinstitute/liveclass/internal/chat"
	"github.com/akinstitute/liveclass/internal/hud"
	"github.com/akinstitute/liveclass/internal/roster"
	"github.com/akinstitute/liveclass/internal/stage"
	"github.com/akinstitute/liveclass/internal/visual"
	"github.com/akinstitute/liveclass/pkg/log"
	"github.com/akinstitute/liveclass/pkg/token"
)

var (
	// ErrNotInstructor is returned when a privileged classroom operation
	// is attempted by a non-instructor identity.
	ErrNotInstructor = errors.New("operation requires instructor or admin role")
)

// Classroom aggregates the live-session state of one course: the capture
// engine, stage routing, roster, chat transcript, HUD controller, and
// visual settings.
type Classroom struct {
	CourseID string

	engine  *capture.Engine
	remote  stage.RemoteStreamSource
	roster  *roster.Roster
	chatLog *chat.Log
	hud     *hud.Controller
	visuals *visual.Store

	mu                sync.Mutex
	stage             stage.State
	participantStream capture.Stream
}

// ClassroomSnapshot is the full classroom state returned by the snapshot
// API and pushed on websocket joins.
type ClassroomSnapshot struct {
	CourseID     string               `json:"course_id"`
	Session      capture.Snapshot     `json:"session"`
	Stage        stage.State          `json:"stage"`
	Simulated    bool                 `json:"simulated"`
	HUDVisible   bool                 `json:"hud_visible"`
	Visuals      visual.Settings      `json:"visuals"`
	Participants []roster.Participant `json:"participants"`
	Chat         []chat.Message       `json:"chat"`
}

func privileged(identity token.Identity) bool {
	return identity.Role == "admin" || identity.Role == "instructor"
}

// ClassroomManager owns one Classroom per active course, created lazily on
// first use and torn down on termination or sign-out.
type ClassroomManager struct {
	newBackend func() capture.Backend
	hudDelay   time.Duration
	chatTail   int

	mu         sync.RWMutex
	classrooms map[string]*Classroom
}

func NewClassroomManager(newBackend func() capture.Backend, hudDelay time.Duration, chatTail int) *ClassroomManager {
	if chatTail <= 0 {
		chatTail = 100
	}
	return &ClassroomManager{
		newBackend: newBackend,
		hudDelay:   hudDelay,
		chatTail:   chatTail,
		classrooms: make(map[string]*Classroom),
	}
}

// Get returns the classroom for the course, creating it on first use.
func (m *ClassroomManager) Get(courseID string) *Classroom {
	m.mu.RLock()
	if room, ok := m.classrooms[courseID]; ok {
		m.mu.RUnlock()
		return room
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if room, ok := m.classrooms[courseID]; ok {
		return room
	}

	engine := capture.NewEngine(m.newBackend())
	room := &Classroom{
		CourseID: courseID,
		engine:   engine,
		remote:   stage.NewLoopbackSource(engine),
		roster:   roster.Seeded(),
		chatLog:  chat.NewLog(),
		hud:      hud.NewController(m.hudDelay),
		visuals:  visual.NewStore(),
		stage:    stage.NewState(),
	}
	m.classrooms[courseID] = room
	log.L().Info().Str(log.FieldClassroomID, courseID).Msg("classroom created")
	return room
}

// Teardown terminates and removes the classroom for the course. Used on
// explicit teardown and instructor sign-out.
func (m *ClassroomManager) Teardown(ctx context.Context, courseID string, identity token.Identity) error {
	m.mu.Lock()
	room, ok := m.classrooms[courseID]
	if ok {
		delete(m.classrooms, courseID)
	}
	m.mu.Unlock()

	if !ok {
		return nil
	}
	if err := room.Terminate(ctx, identity); err != nil {
		return err
	}
	log.L().Info().Str(log.FieldClassroomID, courseID).Msg("classroom torn down")
	return nil
}

// TeardownAll terminates every classroom. Used on shutdown.
func (m *ClassroomManager) TeardownAll(ctx context.Context) {
	m.mu.Lock()
	rooms := make([]*Classroom, 0, len(m.classrooms))
	for _, room := range m.classrooms {
		rooms = append(rooms, room)
	}
	m.classrooms = make(map[string]*Classroom)
	m.mu.Unlock()

	for _, room := range rooms {
		room.engine.Terminate(ctx)
		room.hud.Stop()
	}
}

// --- session operations (instructor only) ---

func (c *Classroom) StartCamera(ctx context.Context, identity token.Identity, deviceID string) error {
	if !privileged(identity) {
		return ErrNotInstructor
	}
	if err := c.engine.StartCamera(ctx, deviceID); err != nil {
		return err
	}
	c.syncInstructorLive()
	audit.LogWithDetail(ctx, audit.ActionStartCamera, identity.UserID, deviceID, "camera started")
	return nil
}

func (c *Classroom) CycleCamera(ctx context.Context, identity token.Identity) error {
	if !privileged(identity) {
		return ErrNotInstructor
	}
	if err := c.engine.CycleCamera(ctx); err != nil {
		return err
	}
	audit.Log(ctx, audit.ActionCycleCamera, identity.UserID, "camera cycled")
	return nil
}

func (c *Classroom) ToggleTorch(ctx context.Context, identity token.Identity) error {
	if !privileged(identity) {
		return ErrNotInstructor
	}
	if err := c.engine.ToggleTorch(ctx); err != nil {
		return err
	}
	audit.Log(ctx, audit.ActionToggleTorch, identity.UserID, "torch toggled")
	return nil
}

func (c *Classroom) StartScreenShare(ctx context.Context, identity token.Identity) error {
	if !privileged(identity) {
		return ErrNotInstructor
	}
	if err := c.engine.StartScreenShare(ctx); err != nil {
		return err
	}
	c.syncInstructorLive()
	audit.Log(ctx, audit.ActionScreenShare, identity.UserID, "screen share started")
	return nil
}

func (c *Classroom) PlayMediaFile(ctx context.Context, identity token.Identity, f capture.MediaFile) (string, error) {
	if !privileged(identity) {
		return "", ErrNotInstructor
	}
	url := c.engine.PlayMediaFile(ctx, f)
	audit.LogWithDetail(ctx, audit.ActionPlayMedia, identity.UserID, f.Name, "media file playing")
	return url, nil
}

// Terminate ends the broadcast, releases every device, and clears the
// stage routing. Safe to call on an idle classroom.
func (c *Classroom) Terminate(ctx context.Context, identity token.Identity) error {
	if !privileged(identity) {
		return ErrNotInstructor
	}
	c.engine.Terminate(ctx)
	c.hud.Stop()

	c.mu.Lock()
	c.stage.Clear()
	c.participantStream = nil
	c.mu.Unlock()

	c.syncInstructorLive()
	audit.Log(ctx, audit.ActionTerminate, identity.UserID, "session terminated")
	return nil
}

// --- broadcast toggles ---

// ToggleMute flips the audio enabled state of the outgoing broadcast.
// The engine carries the instructor's streams, so the toggle is gated
// like every other broadcast mutation.
func (c *Classroom) ToggleMute(ctx context.Context, identity token.Identity) error {
	if !privileged(identity) {
		return ErrNotInstructor
	}
	c.engine.ToggleMute()
	return nil
}

// ToggleCamera flips the video enabled state of the outgoing broadcast.
func (c *Classroom) ToggleCamera(ctx context.Context, identity token.Identity) error {
	if !privileged(identity) {
		return ErrNotInstructor
	}
	c.engine.ToggleCamera()
	return nil
}

// --- stage routing (instructor only) ---

// SetSpotlight spotlights the participant, fetching their stream from the
// remote source. Re-selecting the current spotlight clears it.
func (c *Classroom) SetSpotlight(ctx context.Context, identity token.Identity, participantID string) error {
	if !privileged(identity) {
		return ErrNotInstructor
	}
	if _, err := c.roster.Get(participantID); err != nil {
		return err
	}

	c.mu.Lock()
	cleared := c.stage.Spotlight(participantID)
	c.mu.Unlock()

	if cleared {
		c.mu.Lock()
		c.participantStream = nil
		c.mu.Unlock()
		audit.LogWithDetail(ctx, audit.ActionSpotlight, identity.UserID, participantID, "spotlight cleared")
		return nil
	}

	stream, err := c.remote.StreamFor(ctx, participantID)
	if err != nil {
		// Spotlight still applies; the slot renders a placeholder until a
		// stream arrives.
		log.Ctx(ctx).Warn().Err(err).
			Str(log.FieldParticipantID, participantID).
			Msg("no stream for spotlighted participant")
		stream = nil
	}

	c.mu.Lock()
	c.participantStream = stream
	c.mu.Unlock()

	audit.LogWithDetail(ctx, audit.ActionSpotlight, identity.UserID, participantID, "participant spotlighted")
	return nil
}

func (c *Classroom) ToggleSwap(ctx context.Context, identity token.Identity) error {
	if !privileged(identity) {
		return ErrNotInstructor
	}
	c.mu.Lock()
	c.stage.ToggleSwap()
	c.mu.Unlock()
	audit.Log(ctx, audit.ActionSwapStage, identity.UserID, "stage slots swapped")
	return nil
}

// ResolveStage computes the current slot assignment. The returned stream
// references are transient reads owned by the capture engine.
func (c *Classroom) ResolveStage() stage.Assignment {
	c.mu.Lock()
	st := c.stage
	participant := c.participantStream
	c.mu.Unlock()

	return stage.Resolve(st, c.engine.CameraStream(), c.engine.ScreenStream(), participant)
}

// --- roster (mutation instructor only) ---

func (c *Classroom) Participants() []roster.Participant {
	return c.roster.List()
}

func (c *Classroom) ToggleParticipantMute(ctx context.Context, identity token.Identity, participantID string) (bool, error) {
	if !privileged(identity) {
		return false, ErrNotInstructor
	}
	muted, err := c.roster.ToggleMute(participantID)
	if err != nil {
		return false, err
	}
	audit.LogWithDetail(ctx, audit.ActionRosterMute, identity.UserID, participantID, "participant mute toggled")
	return muted, nil
}

func (c *Classroom) ToggleParticipantCamera(ctx context.Context, identity token.Identity, participantID string) (bool, error) {
	if !privileged(identity) {
		return false, ErrNotInstructor
	}
	off, err := c.roster.ToggleCamera(participantID)
	if err != nil {
		return false, err
	}
	audit.LogWithDetail(ctx, audit.ActionRosterCamera, identity.UserID, participantID, "participant camera toggled")
	return off, nil
}

func (c *Classroom) RaiseHand(participantID string, raised bool) error {
	return c.roster.SetHandRaised(participantID, raised)
}

// --- chat ---

// AppendChat validates and stores a chat message from the given identity.
func (c *Classroom) AppendChat(identity token.Identity, text string) (chat.Message, error) {
	role := chat.RoleStudent
	if privileged(identity) {
		role = chat.RoleInstructor
	}
	return c.chatLog.Append(role, identity.UserID, identity.DisplayName(), text)
}

func (c *Classroom) ChatTail(n int) []chat.Message {
	return c.chatLog.Tail(n)
}

// --- HUD ---

func (c *Classroom) HUDActivity() {
	c.hud.Activity()
}

func (c *Classroom) HUDPanel(open bool) {
	if open {
		c.hud.OpenPanel()
	} else {
		c.hud.ClosePanel()
	}
}

// --- visual settings ---

func (c *Classroom) Visuals() visual.Settings {
	return c.visuals.Get()
}

func (c *Classroom) SetVisuals(s visual.Settings) visual.Settings {
	return c.visuals.Set(s)
}

func (c *Classroom) ResetVisuals() visual.Settings {
	return c.visuals.Reset()
}

// Snapshot assembles the full classroom state.
func (c *Classroom) Snapshot(chatTail int) ClassroomSnapshot {
	c.mu.Lock()
	st := c.stage
	c.mu.Unlock()

	return ClassroomSnapshot{
		CourseID:     c.CourseID,
		Session:      c.engine.Snapshot(),
		Stage:        st,
		Simulated:    c.remote.Simulated(),
		HUDVisible:   c.hud.Visible(),
		Visuals:      c.visuals.Get(),
		Participants: c.roster.List(),
		Chat:         c.chatLog.Tail(chatTail),
	}
}

func (c *Classroom) syncInstructorLive() {
	snap := c.engine.Snapshot()
	_ = c.roster.SetLive("instr-01", snap.IsLive)
}
