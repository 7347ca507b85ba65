// Package loopback implements an in-memory transport.Transport for
// tests and for driving the protocol engine with no USB hardware
// attached. Every call is framed with transport.Frame and appended to
// an internal log, so a test can assert on the exact wire trace a
// mode change produced.
package loopback

import (
	"context"
	"sync"

	"github.com/ardnew/dlfb/transport"
)

// Transport is a recording, non-blocking transport.Transport.
type Transport struct {
	mu     sync.Mutex
	frames [][]byte
	edid   []byte
	typ    transport.DeviceType
	closed bool

	// FailAfter, when positive, makes the Nth call onward fail with Err.
	FailAfter int
	Err       error

	calls int
}

// New returns a Transport that reports devType on DetectType and edid on
// ReadEDID.
func New(devType transport.DeviceType, edid []byte) *Transport {
	return &Transport{typ: devType, edid: edid}
}

func (t *Transport) record(kind byte, data []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++
	if t.FailAfter > 0 && t.calls >= t.FailAfter {
		if t.Err != nil {
			return 0, t.Err
		}
	}
	t.frames = append(t.frames, transport.Frame(kind, data))
	return len(data), nil
}

func (t *Transport) Write(ctx context.Context, data []byte) (int, error) {
	return t.record(transport.FrameWrite, data)
}

func (t *Transport) ControlChannel(ctx context.Context, data []byte) (int, error) {
	return t.record(transport.FrameControl, data)
}

func (t *Transport) BulkWrite(ctx context.Context, data []byte) (int, error) {
	return t.record(transport.FrameBulk, data)
}

func (t *Transport) ReadEDID(ctx context.Context) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]byte, len(t.edid))
	copy(out, t.edid)
	return out, nil
}

func (t *Transport) DetectType(ctx context.Context) (transport.DeviceType, error) {
	return t.typ, nil
}

func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (t *Transport) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// Frames returns a copy of every framed call recorded so far, in order.
func (t *Transport) Frames() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([][]byte, len(t.frames))
	copy(out, t.frames)
	return out
}

// Reset discards the recorded frame log without affecting EDID/type
// configuration.
func (t *Transport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frames = nil
	t.calls = 0
}
