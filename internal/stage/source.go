package stage

import (
	"context"

	"github.com/akinstitute/liveclass/internal/capture"
)

// RemoteStreamSource supplies the media stream for a spotlighted
// participant. No real peer transport exists today; implementations either
// simulate (loopback) or plug in an actual transport later.
type RemoteStreamSource interface {
	// StreamFor returns the participant's stream, or nil when none is
	// available.
	StreamFor(ctx context.Context, participantID string) (capture.Stream, error)

	// Simulated reports whether returned streams are stand-ins rather than
	// real participant media, so consumers can label them honestly.
	Simulated() bool
}

// LoopbackSource clones the local broadcast camera stream as a stand-in for
// a participant's media. This keeps the spotlight demo working without any
// peer transport; it is always labeled simulated.
type LoopbackSource struct {
	engine *capture.Engine
}

// NewLoopbackSource creates a loopback source over the local engine.
func NewLoopbackSource(engine *capture.Engine) *LoopbackSource {
	return &LoopbackSource{engine: engine}
}

func (s *LoopbackSource) StreamFor(ctx context.Context, participantID string) (capture.Stream, error) {
	cam := s.engine.CameraStream()
	if cam == nil {
		return nil, nil
	}
	return cam.Clone(), nil
}

func (s *LoopbackSource) Simulated() bool { return true }
