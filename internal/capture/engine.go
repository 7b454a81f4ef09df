package capture

import (
	"context"
	"sync"

	pkglog "github.com/akinstitute/liveclass/pkg/log"
)

// Snapshot is a point-in-time copy of the session state for render and
// API consumers.
type Snapshot struct {
	Mode            SessionMode `json:"mode"`
	IsLive          bool        `json:"is_live"`
	IsMuted         bool        `json:"is_muted"`
	IsCameraOff     bool        `json:"is_camera_off"`
	IsTorchOn       bool        `json:"is_torch_on"`
	CurrentDeviceID string      `json:"current_device_id,omitempty"`
	MediaURL        string      `json:"media_url,omitempty"`
	HasCamera       bool        `json:"has_camera"`
	HasScreen       bool        `json:"has_screen"`
}

// Engine owns the local broadcaster's media resources: acquisition, torch
// and enabled-state toggles, and teardown. All acquisition failures are
// non-fatal and leave prior state untouched; there is no retry and no
// cancellation of in-flight requests, so two racing starts resolve with
// last-resolved-wins semantics (each start tears down whatever the other
// installed before adopting its own stream).
type Engine struct {
	backend Backend

	mu          sync.Mutex
	mode        SessionMode
	camera      Stream
	screen      Stream
	mediaURL    string
	muted       bool
	cameraOff   bool
	torchOn     bool
	deviceID    string
	screenWatch Track // track carrying the registered ended callback
}

// NewEngine creates a session engine over the given platform backend.
func NewEngine(backend Backend) *Engine {
	return &Engine{
		backend: backend,
		mode:    ModeNone,
	}
}

// StartCamera acquires a camera+microphone stream, preferring the
// front-facing camera when no device is named. Prior camera and screen
// claims are released before the new acquisition is awaited.
func (e *Engine) StartCamera(ctx context.Context, deviceID string) error {
	l := pkglog.Ctx(ctx)

	if !e.backend.SecureContext() {
		l.Warn().Msg("camera start rejected outside secure context")
		return ErrInsecureContext
	}

	// Stop-before-start: never hold two live hardware claims.
	e.mu.Lock()
	stopTracks(e.camera)
	stopTracks(e.screen)
	e.clearScreenWatchLocked()
	e.screen = nil
	e.mu.Unlock()

	constraints := StreamConstraints{
		Audio: true,
		Video: VideoConstraints{
			DeviceID:    deviceID,
			IdealWidth:  1280,
			IdealHeight: 720,
		},
	}
	if e.backend.MobileDevice() {
		constraints.Video.IdealWidth = 1080
		constraints.Video.IdealHeight = 1920
	}
	if deviceID == "" {
		constraints.Video.FacingMode = "user"
	}

	stream, err := e.backend.GetUserMedia(ctx, constraints)
	if err != nil {
		l.Error().Err(err).Str(pkglog.FieldDeviceID, deviceID).Msg("camera acquisition failed")
		return &Error{Op: "start_camera", Err: err}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// A racing start may have installed a stream while we awaited; it loses.
	stopTracks(e.camera)
	e.camera = stream
	e.mode = ModeCamera
	e.cameraOff = false
	e.torchOn = false
	e.applyEnabledLocked()

	if vts := stream.VideoTracks(); len(vts) > 0 {
		e.deviceID = vts[0].DeviceID()
	}

	l.Info().Str(pkglog.FieldDeviceID, e.deviceID).Msg("camera stream started")
	return nil
}

// CycleCamera switches to the next enumerated video input, wrapping around.
// With fewer than two devices this is a no-op.
func (e *Engine) CycleCamera(ctx context.Context) error {
	l := pkglog.Ctx(ctx)

	devices, err := e.backend.EnumerateVideoInputs(ctx)
	if err != nil {
		l.Warn().Err(err).Msg("device enumeration failed")
		return &Error{Op: "cycle_camera", Err: err}
	}
	if len(devices) < 2 {
		return nil
	}

	e.mu.Lock()
	current := e.deviceID
	e.mu.Unlock()

	idx := -1
	for i, d := range devices {
		if d.DeviceID == current {
			idx = i
			break
		}
	}
	next := devices[(idx+1)%len(devices)]

	return e.StartCamera(ctx, next.DeviceID)
}

// ToggleTorch flips the torch on the active camera's video track. Missing
// stream, missing track, or missing capability are silent no-ops; a failed
// constraint application leaves the reported state unchanged.
func (e *Engine) ToggleTorch(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.camera == nil {
		return nil
	}
	vts := e.camera.VideoTracks()
	if len(vts) == 0 {
		return nil
	}
	track := vts[0]
	if !track.TorchSupported() {
		return nil
	}

	want := !e.torchOn
	if err := track.SetTorch(want); err != nil {
		l := pkglog.Ctx(ctx)
		l.Warn().Err(err).Bool("torch", want).Msg("torch constraint failed")
		return &Error{Op: "toggle_torch", Err: err}
	}
	e.torchOn = want
	return nil
}

// StartScreenShare acquires a display-capture stream. Unsupported device
// classes are a silent no-op. When the platform ends the share (native
// stop button) the engine falls back to camera mode if a camera stream is
// still held, else to none.
func (e *Engine) StartScreenShare(ctx context.Context) error {
	if e.backend.MobileDevice() || !e.backend.DisplayCaptureSupported() {
		return nil
	}

	l := pkglog.Ctx(ctx)
	stream, err := e.backend.GetDisplayMedia(ctx)
	if err != nil {
		l.Error().Err(err).Msg("display capture failed")
		return &Error{Op: "start_screen_share", Err: err}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	stopTracks(e.screen)
	e.clearScreenWatchLocked()
	e.screen = stream
	e.mode = ModeScreen

	if vts := stream.VideoTracks(); len(vts) > 0 {
		track := vts[0]
		e.screenWatch = track
		track.OnEnded(func() { e.screenEnded(stream) })
	}

	l.Info().Msg("screen share started")
	return nil
}

// screenEnded handles the platform-level end of a display capture.
func (e *Engine) screenEnded(s Stream) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.screen != s {
		return // stale callback from a torn-down stream
	}
	e.clearScreenWatchLocked()
	e.screen = nil
	if e.camera != nil {
		e.mode = ModeCamera
	} else {
		e.mode = ModeNone
	}
}

// PlayMediaFile revokes any previously created object URL and switches the
// broadcast to the given local file.
func (e *Engine) PlayMediaFile(ctx context.Context, f MediaFile) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mediaURL != "" {
		e.backend.RevokeObjectURL(e.mediaURL)
	}
	e.mediaURL = e.backend.CreateObjectURL(f)
	e.mode = ModeMedia

	l := pkglog.Ctx(ctx)
	l.Info().Str("file", f.Name).Msg("media file broadcast started")
	return e.mediaURL
}

// Terminate stops every held track, revokes any object URL and resets all
// derived flags. This is the only path that fully re-arms the session.
func (e *Engine) Terminate(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	stopTracks(e.camera)
	stopTracks(e.screen)
	e.clearScreenWatchLocked()
	if e.mediaURL != "" {
		e.backend.RevokeObjectURL(e.mediaURL)
	}

	e.camera = nil
	e.screen = nil
	e.mediaURL = ""
	e.mode = ModeNone
	e.muted = false
	e.cameraOff = false
	e.torchOn = false
	e.deviceID = ""

	l := pkglog.Ctx(ctx)
	l.Info().Msg("session terminated")
}

// ToggleMute flips the enabled flag on the camera stream's audio tracks.
// No-op without an active camera stream.
func (e *Engine) ToggleMute() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.camera == nil {
		return
	}
	e.muted = !e.muted
	for _, t := range e.camera.AudioTracks() {
		t.SetEnabled(!e.muted)
	}
}

// ToggleCamera flips the enabled flag on the camera stream's video tracks.
// No-op without an active camera stream.
func (e *Engine) ToggleCamera() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.camera == nil {
		return
	}
	e.cameraOff = !e.cameraOff
	for _, t := range e.camera.VideoTracks() {
		t.SetEnabled(!e.cameraOff)
	}
}

// CameraStream returns a transient read reference to the camera stream.
func (e *Engine) CameraStream() Stream {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.camera
}

// ScreenStream returns a transient read reference to the screen stream.
func (e *Engine) ScreenStream() Stream {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.screen
}

// Snapshot returns a copy of the current session state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Snapshot{
		Mode:            e.mode,
		IsLive:          e.mode != ModeNone,
		IsMuted:         e.muted,
		IsCameraOff:     e.cameraOff,
		IsTorchOn:       e.torchOn,
		CurrentDeviceID: e.deviceID,
		MediaURL:        e.mediaURL,
		HasCamera:       e.camera != nil,
		HasScreen:       e.screen != nil,
	}
}

// applyEnabledLocked re-applies the mute and camera-off flags to a freshly
// adopted stream so the reported flags never drift from track state.
func (e *Engine) applyEnabledLocked() {
	if e.camera == nil {
		return
	}
	for _, t := range e.camera.AudioTracks() {
		t.SetEnabled(!e.muted)
	}
	for _, t := range e.camera.VideoTracks() {
		t.SetEnabled(!e.cameraOff)
	}
}

func (e *Engine) clearScreenWatchLocked() {
	if e.screenWatch != nil {
		e.screenWatch.OnEnded(nil)
		e.screenWatch = nil
	}
}

func stopTracks(s Stream) {
	if s == nil {
		return
	}
	for _, t := range s.Tracks() {
		t.Stop()
		t.SetEnabled(false)
	}
}
