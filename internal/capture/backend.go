package capture

import (
	"context"
	"errors"
	"fmt"
)

// SessionMode identifies the active broadcast producer. The modes are
// mutually exclusive: at most one of camera, screen or media file feeds the
// broadcast at any instant.
type SessionMode string

const (
	ModeNone   SessionMode = "none"
	ModeCamera SessionMode = "camera"
	ModeScreen SessionMode = "screen"
	ModeMedia  SessionMode = "media"
)

// TrackKind distinguishes audio from video tracks.
type TrackKind string

const (
	KindAudio TrackKind = "audio"
	KindVideo TrackKind = "video"
)

var (
	// ErrInsecureContext is returned when camera acquisition is attempted
	// outside a secure transport context. No state changes.
	ErrInsecureContext = errors.New("camera capture requires a secure context")
)

// Error wraps a platform capture failure with the operation that caused it.
// Acquisition failures are non-fatal: the caller may retry, the engine keeps
// its prior state.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("capture %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// DeviceInfo describes an enumerated video input device. Enumeration order
// is whatever the platform reports; callers must not assume stability
// across calls.
type DeviceInfo struct {
	DeviceID string
	Label    string
}

// VideoConstraints are the resolution and device hints passed to camera
// acquisition.
type VideoConstraints struct {
	DeviceID    string // exact device; empty means platform default
	FacingMode  string // "user" preference when no explicit device
	IdealWidth  int
	IdealHeight int
}

// StreamConstraints describe a getUserMedia-style acquisition request.
type StreamConstraints struct {
	Audio bool
	Video VideoConstraints
}

// Track is an opaque media track. Stopping a track releases its hardware
// claim; toggling Enabled is non-destructive.
type Track interface {
	Kind() TrackKind
	Enabled() bool
	SetEnabled(enabled bool)
	Stop()

	// DeviceID reports the input device backing this track, if known.
	DeviceID() string

	// TorchSupported reports whether the track's hardware exposes a torch.
	TorchSupported() bool
	// SetTorch applies the torch constraint. It may fail even after
	// TorchSupported returned true.
	SetTorch(on bool) error

	// OnEnded registers the callback invoked when the platform ends the
	// track (for example the native stop-sharing button). A nil callback
	// unregisters.
	OnEnded(fn func())
}

// Stream is an opaque media stream owning zero or more tracks. Streams are
// exclusively owned by the Engine; other components hold transient read
// references only and must never stop or mutate tracks themselves.
type Stream interface {
	ID() string
	Tracks() []Track
	AudioTracks() []Track
	VideoTracks() []Track

	// Clone returns an independent stream sharing the same source, used for
	// the simulated participant loopback.
	Clone() Stream
}

// MediaFile is a locally selected file to broadcast.
type MediaFile struct {
	Name string
	MIME string
}

// Backend abstracts the platform media APIs: acquisition, enumeration,
// capability probing and object-URL lifecycle. A fake implementation ships
// in this package so the engine can be exercised without real devices.
type Backend interface {
	SecureContext() bool
	MobileDevice() bool
	DisplayCaptureSupported() bool

	GetUserMedia(ctx context.Context, c StreamConstraints) (Stream, error)
	GetDisplayMedia(ctx context.Context) (Stream, error)
	EnumerateVideoInputs(ctx context.Context) ([]DeviceInfo, error)

	CreateObjectURL(f MediaFile) string
	RevokeObjectURL(url string)
}
