package capture

import (
	"context"
	"fmt"
	"sync"
)

// FakeBackend simulates the platform media APIs. It is the test double
// mandated for the engine and also serves as the demo device backend when
// the service runs without a real capture bridge.
type FakeBackend struct {
	mu sync.Mutex

	Secure           bool
	Mobile           bool
	DisplaySupported bool

	Devices      []DeviceInfo
	TorchDevices map[string]bool // deviceID -> torch capability
	TorchErr     error           // forced SetTorch failure

	UserMediaErr    error
	DisplayMediaErr error
	EnumerateErr    error

	nextID  int
	streams []*FakeStream
	revoked []string
}

// NewFakeBackend returns a desktop-class secure backend with two cameras.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		Secure:           true,
		DisplaySupported: true,
		Devices: []DeviceInfo{
			{DeviceID: "cam-front", Label: "Front Camera"},
			{DeviceID: "cam-rear", Label: "Rear Camera"},
		},
	}
}

func (b *FakeBackend) SecureContext() bool           { return b.Secure }
func (b *FakeBackend) MobileDevice() bool            { return b.Mobile }
func (b *FakeBackend) DisplayCaptureSupported() bool { return b.DisplaySupported }

func (b *FakeBackend) GetUserMedia(ctx context.Context, c StreamConstraints) (Stream, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.UserMediaErr != nil {
		return nil, b.UserMediaErr
	}

	deviceID := c.Video.DeviceID
	if deviceID == "" {
		if len(b.Devices) > 0 {
			deviceID = b.Devices[0].DeviceID
		} else {
			deviceID = "cam-default"
		}
	}

	s := b.newStreamLocked()
	if c.Audio {
		s.tracks = append(s.tracks, newFakeTrack(b, KindAudio, deviceID))
	}
	s.tracks = append(s.tracks, newFakeTrack(b, KindVideo, deviceID))
	return s, nil
}

func (b *FakeBackend) GetDisplayMedia(ctx context.Context) (Stream, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.DisplayMediaErr != nil {
		return nil, b.DisplayMediaErr
	}

	s := b.newStreamLocked()
	s.tracks = append(s.tracks, newFakeTrack(b, KindVideo, "display"))
	return s, nil
}

func (b *FakeBackend) EnumerateVideoInputs(ctx context.Context) ([]DeviceInfo, error) {
	if b.EnumerateErr != nil {
		return nil, b.EnumerateErr
	}
	out := make([]DeviceInfo, len(b.Devices))
	copy(out, b.Devices)
	return out, nil
}

func (b *FakeBackend) CreateObjectURL(f MediaFile) string {
	return "blob:liveclass/" + f.Name
}

func (b *FakeBackend) RevokeObjectURL(url string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked = append(b.revoked, url)
}

// RevokedURLs returns every URL revoked so far.
func (b *FakeBackend) RevokedURLs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.revoked))
	copy(out, b.revoked)
	return out
}

// Streams returns every stream the backend has produced, in creation order.
func (b *FakeBackend) Streams() []*FakeStream {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*FakeStream, len(b.streams))
	copy(out, b.streams)
	return out
}

// LastStream returns the most recently produced stream, or nil.
func (b *FakeBackend) LastStream() *FakeStream {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.streams) == 0 {
		return nil
	}
	return b.streams[len(b.streams)-1]
}

func (b *FakeBackend) newStreamLocked() *FakeStream {
	b.nextID++
	s := &FakeStream{id: fmt.Sprintf("stream-%d", b.nextID), backend: b}
	b.streams = append(b.streams, s)
	return s
}

// FakeStream implements Stream over fake tracks.
type FakeStream struct {
	id      string
	backend *FakeBackend
	tracks  []*FakeTrack
}

func (s *FakeStream) ID() string { return s.id }

func (s *FakeStream) Tracks() []Track {
	out := make([]Track, len(s.tracks))
	for i, t := range s.tracks {
		out[i] = t
	}
	return out
}

func (s *FakeStream) AudioTracks() []Track { return s.kind(KindAudio) }
func (s *FakeStream) VideoTracks() []Track { return s.kind(KindVideo) }

func (s *FakeStream) kind(k TrackKind) []Track {
	var out []Track
	for _, t := range s.tracks {
		if t.kind == k {
			out = append(out, t)
		}
	}
	return out
}

// Clone returns an independent stream over the same source.
func (s *FakeStream) Clone() Stream {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	clone := s.backend.newStreamLocked()
	for _, t := range s.tracks {
		clone.tracks = append(clone.tracks, newFakeTrack(s.backend, t.kind, t.deviceID))
	}
	return clone
}

// Stopped reports whether every track of the stream has been stopped.
func (s *FakeStream) Stopped() bool {
	for _, t := range s.tracks {
		if !t.IsStopped() {
			return false
		}
	}
	return true
}

// FakeTrack implements Track with in-memory state.
type FakeTrack struct {
	mu       sync.Mutex
	backend  *FakeBackend
	kind     TrackKind
	deviceID string
	enabled  bool
	stopped  bool
	torchOn  bool
	onEnded  func()
}

func newFakeTrack(b *FakeBackend, kind TrackKind, deviceID string) *FakeTrack {
	return &FakeTrack{backend: b, kind: kind, deviceID: deviceID, enabled: true}
}

func (t *FakeTrack) Kind() TrackKind { return t.kind }

func (t *FakeTrack) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

func (t *FakeTrack) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
}

func (t *FakeTrack) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

// IsStopped reports whether the track's hardware claim has been released.
func (t *FakeTrack) IsStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

func (t *FakeTrack) DeviceID() string { return t.deviceID }

func (t *FakeTrack) TorchSupported() bool {
	if t.kind != KindVideo {
		return false
	}
	return t.backend.TorchDevices[t.deviceID]
}

func (t *FakeTrack) SetTorch(on bool) error {
	if err := t.backend.TorchErr; err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.torchOn = on
	return nil
}

// TorchOn reports the simulated hardware torch state.
func (t *FakeTrack) TorchOn() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.torchOn
}

func (t *FakeTrack) OnEnded(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onEnded = fn
}

// EndRemotely simulates the platform ending the track, such as the native
// stop-sharing button.
func (t *FakeTrack) EndRemotely() {
	t.mu.Lock()
	t.stopped = true
	fn := t.onEnded
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
}
