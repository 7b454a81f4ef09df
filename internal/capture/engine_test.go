package capture

import (
	"context"
	"errors"
	"testing"
)

func TestStartCameraInsecureContext(t *testing.T) {
	b := NewFakeBackend()
	b.Secure = false
	e := NewEngine(b)

	err := e.StartCamera(context.Background(), "")
	if !errors.Is(err, ErrInsecureContext) {
		t.Fatalf("StartCamera() error = %v, want ErrInsecureContext", err)
	}
	if got := e.Snapshot(); got.Mode != ModeNone || got.HasCamera {
		t.Errorf("state changed on insecure context: %+v", got)
	}
}

func TestStartCameraFailureLeavesState(t *testing.T) {
	b := NewFakeBackend()
	e := NewEngine(b)
	ctx := context.Background()

	if err := e.StartCamera(ctx, ""); err != nil {
		t.Fatalf("StartCamera() error = %v", err)
	}

	b.UserMediaErr = errors.New("permission denied")
	err := e.StartCamera(ctx, "cam-rear")
	var capErr *Error
	if !errors.As(err, &capErr) {
		t.Fatalf("StartCamera() error = %v, want *Error", err)
	}

	got := e.Snapshot()
	if got.Mode != ModeCamera {
		t.Errorf("mode = %q, want %q after failed re-acquisition", got.Mode, ModeCamera)
	}
}

func TestSingleProducerInvariant(t *testing.T) {
	b := NewFakeBackend()
	e := NewEngine(b)
	ctx := context.Background()

	if err := e.StartCamera(ctx, ""); err != nil {
		t.Fatalf("StartCamera() error = %v", err)
	}
	camStream := b.LastStream()

	if err := e.StartScreenShare(ctx); err != nil {
		t.Fatalf("StartScreenShare() error = %v", err)
	}
	if got := e.Snapshot(); got.Mode != ModeScreen {
		t.Fatalf("mode = %q, want %q", got.Mode, ModeScreen)
	}
	screenStream := b.LastStream()

	// Starting the camera again must release the screen claim first.
	if err := e.StartCamera(ctx, "cam-rear"); err != nil {
		t.Fatalf("StartCamera() error = %v", err)
	}
	if !screenStream.Stopped() {
		t.Error("screen stream tracks still live after camera start")
	}
	if !camStream.Stopped() {
		t.Error("first camera stream tracks still live after restart")
	}
	got := e.Snapshot()
	if got.Mode != ModeCamera || got.HasScreen {
		t.Errorf("snapshot = %+v, want camera mode without screen", got)
	}
	if got.CurrentDeviceID != "cam-rear" {
		t.Errorf("device id = %q, want cam-rear", got.CurrentDeviceID)
	}
}

func TestToggleMuteIdempotence(t *testing.T) {
	b := NewFakeBackend()
	e := NewEngine(b)
	ctx := context.Background()

	if err := e.StartCamera(ctx, ""); err != nil {
		t.Fatalf("StartCamera() error = %v", err)
	}
	stream := b.LastStream()

	audio := stream.AudioTracks()
	if len(audio) != 1 {
		t.Fatalf("audio tracks = %d, want 1", len(audio))
	}

	e.ToggleMute()
	if got := e.Snapshot(); !got.IsMuted {
		t.Error("IsMuted = false after first toggle")
	}
	if audio[0].Enabled() {
		t.Error("audio track enabled while muted")
	}

	e.ToggleMute()
	if got := e.Snapshot(); got.IsMuted {
		t.Error("IsMuted = true after second toggle")
	}
	if !audio[0].Enabled() {
		t.Error("audio track disabled after unmute")
	}
}

func TestToggleCameraNoStream(t *testing.T) {
	e := NewEngine(NewFakeBackend())

	e.ToggleCamera()
	e.ToggleMute()
	if got := e.Snapshot(); got.IsCameraOff || got.IsMuted {
		t.Errorf("toggles without a stream changed state: %+v", got)
	}
}

func TestTorchRollback(t *testing.T) {
	b := NewFakeBackend()
	b.TorchDevices = map[string]bool{"cam-front": true}
	e := NewEngine(b)
	ctx := context.Background()

	if err := e.StartCamera(ctx, "cam-front"); err != nil {
		t.Fatalf("StartCamera() error = %v", err)
	}

	if err := e.ToggleTorch(ctx); err != nil {
		t.Fatalf("ToggleTorch() error = %v", err)
	}
	if got := e.Snapshot(); !got.IsTorchOn {
		t.Fatal("IsTorchOn = false after successful toggle")
	}

	b.TorchErr = errors.New("constraint rejected")
	if err := e.ToggleTorch(ctx); err == nil {
		t.Fatal("ToggleTorch() error = nil, want constraint failure")
	}
	if got := e.Snapshot(); !got.IsTorchOn {
		t.Error("IsTorchOn rolled forward despite constraint failure")
	}
}

func TestTorchUnsupportedIsSilent(t *testing.T) {
	b := NewFakeBackend()
	e := NewEngine(b)
	ctx := context.Background()

	if err := e.StartCamera(ctx, ""); err != nil {
		t.Fatalf("StartCamera() error = %v", err)
	}
	if err := e.ToggleTorch(ctx); err != nil {
		t.Fatalf("ToggleTorch() on unsupported hardware = %v, want nil", err)
	}
	if got := e.Snapshot(); got.IsTorchOn {
		t.Error("IsTorchOn = true on unsupported hardware")
	}
}

func TestCycleCameraWraparound(t *testing.T) {
	tests := []struct {
		name    string
		devices []DeviceInfo
		current string
		want    string
	}{
		{
			name: "next device",
			devices: []DeviceInfo{
				{DeviceID: "a"}, {DeviceID: "b"}, {DeviceID: "c"},
			},
			current: "a",
			want:    "b",
		},
		{
			name: "wraps to first",
			devices: []DeviceInfo{
				{DeviceID: "a"}, {DeviceID: "b"}, {DeviceID: "c"},
			},
			current: "c",
			want:    "a",
		},
		{
			name: "unknown current falls to first",
			devices: []DeviceInfo{
				{DeviceID: "a"}, {DeviceID: "b"},
			},
			current: "gone",
			want:    "a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewFakeBackend()
			b.Devices = tt.devices
			e := NewEngine(b)
			ctx := context.Background()

			if err := e.StartCamera(ctx, tt.current); err != nil {
				t.Fatalf("StartCamera() error = %v", err)
			}
			if err := e.CycleCamera(ctx); err != nil {
				t.Fatalf("CycleCamera() error = %v", err)
			}
			if got := e.Snapshot().CurrentDeviceID; got != tt.want {
				t.Errorf("device after cycle = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCycleCameraSingleDeviceNoop(t *testing.T) {
	b := NewFakeBackend()
	b.Devices = b.Devices[:1]
	e := NewEngine(b)
	ctx := context.Background()

	if err := e.StartCamera(ctx, ""); err != nil {
		t.Fatalf("StartCamera() error = %v", err)
	}
	before := e.Snapshot().CurrentDeviceID
	streams := len(b.Streams())

	if err := e.CycleCamera(ctx); err != nil {
		t.Fatalf("CycleCamera() error = %v", err)
	}
	if got := e.Snapshot().CurrentDeviceID; got != before {
		t.Errorf("device changed with a single camera: %q -> %q", before, got)
	}
	if got := len(b.Streams()); got != streams {
		t.Errorf("streams acquired = %d, want %d (no-op)", got, streams)
	}
}

func TestScreenShareMobileNoop(t *testing.T) {
	b := NewFakeBackend()
	b.Mobile = true
	e := NewEngine(b)

	if err := e.StartScreenShare(context.Background()); err != nil {
		t.Fatalf("StartScreenShare() error = %v, want nil no-op", err)
	}
	if got := e.Snapshot(); got.Mode != ModeNone || got.HasScreen {
		t.Errorf("mobile screen share changed state: %+v", got)
	}
}

func TestScreenEndedFallsBackToCamera(t *testing.T) {
	b := NewFakeBackend()
	e := NewEngine(b)
	ctx := context.Background()

	if err := e.StartCamera(ctx, ""); err != nil {
		t.Fatalf("StartCamera() error = %v", err)
	}
	if err := e.StartScreenShare(ctx); err != nil {
		t.Fatalf("StartScreenShare() error = %v", err)
	}

	screen := b.LastStream()
	screen.tracks[0].EndRemotely()

	if got := e.Snapshot(); got.Mode != ModeCamera || got.HasScreen {
		t.Errorf("snapshot after native stop = %+v, want camera fallback", got)
	}
}

func TestScreenEndedWithoutCameraGoesIdle(t *testing.T) {
	b := NewFakeBackend()
	e := NewEngine(b)
	ctx := context.Background()

	if err := e.StartScreenShare(ctx); err != nil {
		t.Fatalf("StartScreenShare() error = %v", err)
	}
	b.LastStream().tracks[0].EndRemotely()

	if got := e.Snapshot(); got.Mode != ModeNone {
		t.Errorf("mode = %q, want %q", got.Mode, ModeNone)
	}
}

func TestPlayMediaFileRevokesPriorURL(t *testing.T) {
	b := NewFakeBackend()
	e := NewEngine(b)
	ctx := context.Background()

	first := e.PlayMediaFile(ctx, MediaFile{Name: "lecture-1.mp4"})
	second := e.PlayMediaFile(ctx, MediaFile{Name: "lecture-2.mp4"})

	if first == second {
		t.Fatalf("object URLs not distinct: %q", first)
	}
	revoked := b.RevokedURLs()
	if len(revoked) != 1 || revoked[0] != first {
		t.Errorf("revoked = %v, want [%q]", revoked, first)
	}
	if got := e.Snapshot(); got.Mode != ModeMedia || got.MediaURL != second {
		t.Errorf("snapshot = %+v, want media mode with %q", got, second)
	}
}

func TestTerminateResetsEverything(t *testing.T) {
	b := NewFakeBackend()
	b.TorchDevices = map[string]bool{"cam-front": true}
	e := NewEngine(b)
	ctx := context.Background()

	if err := e.StartCamera(ctx, "cam-front"); err != nil {
		t.Fatalf("StartCamera() error = %v", err)
	}
	e.ToggleMute()
	if err := e.ToggleTorch(ctx); err != nil {
		t.Fatalf("ToggleTorch() error = %v", err)
	}
	url := e.PlayMediaFile(ctx, MediaFile{Name: "clip.webm"})
	cam := b.Streams()[0]

	e.Terminate(ctx)

	got := e.Snapshot()
	want := Snapshot{Mode: ModeNone}
	if got != want {
		t.Errorf("snapshot after terminate = %+v, want %+v", got, want)
	}
	if !cam.Stopped() {
		t.Error("camera tracks still live after terminate")
	}
	revoked := b.RevokedURLs()
	if len(revoked) == 0 || revoked[len(revoked)-1] != url {
		t.Errorf("media URL %q not revoked on terminate", url)
	}
}
