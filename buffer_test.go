package dlfb

import (
	"context"
	"errors"
	"testing"

	"github.com/ardnew/dlfb/transport"
	"github.com/ardnew/dlfb/transport/loopback"
)

func newTestDevice(t *testing.T, bufSize int) (*Device, *loopback.Transport) {
	t.Helper()
	lb := loopback.New(transport.DeviceTypeBase, nil)
	d := newDevice("SN1", transport.DeviceTypeBase, lb, 0, defaultMemory)
	d.buf = newCommandBuffer(bufSize)
	return d, lb
}

func TestStageAndFlush(t *testing.T) {
	d, lb := newTestDevice(t, 16)
	if err := d.Stage([]byte{1, 2, 3}); err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if len(lb.Frames()) != 0 {
		t.Fatalf("Flush should not have happened yet")
	}
	if err := d.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	frames := lb.Frames()
	if len(frames) != 1 {
		t.Fatalf("len(frames) = %d, want 1", len(frames))
	}
}

func TestStageBufFull(t *testing.T) {
	d, _ := newTestDevice(t, 3)
	if err := d.StageVReg(0x20, 0x00); !errors.Is(err, ErrBufFull) {
		t.Fatalf("err = %v, want ErrBufFull", err)
	}
	if len(d.buf.data) != 0 {
		t.Fatalf("buffer should be unchanged after BUF_FULL, got %d bytes", len(d.buf.data))
	}
}

func TestFlushFailureResetsBuffer(t *testing.T) {
	d, lb := newTestDevice(t, 16)
	lb.FailAfter = 1
	lb.Err = errors.New("write failed")
	if err := d.Stage([]byte{1, 2}); err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if err := d.Flush(context.Background()); err == nil {
		t.Fatalf("Flush should have failed")
	}
	if len(d.buf.data) != 0 {
		t.Fatalf("buffer should be reset after a failed flush, got %d bytes", len(d.buf.data))
	}
}

func TestFlushEmptyBufferIsNoop(t *testing.T) {
	d, lb := newTestDevice(t, 16)
	if err := d.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if len(lb.Frames()) != 0 {
		t.Fatalf("Flush of an empty buffer should not touch the transport")
	}
}
