package dlfb

import (
	"context"

	"github.com/ardnew/dlfb/pkg"
)

// commandBuffer stages bytes for a later, atomic flush. Unlike the
// source's base/ptr/end cursor triple into a fixed array, this wraps a
// slice with spare capacity; "ptr" is len(data) and "end" is cap(data).
// The invariant base <= ptr <= end holds by construction: base is
// always 0 relative to the backing slice.
type commandBuffer struct {
	data []byte
}

func newCommandBuffer(capacity int) commandBuffer {
	return commandBuffer{data: make([]byte, 0, capacity)}
}

// stage appends bytes to the buffer. It fails with ErrBufFull, leaving
// the buffer unchanged, if there is not enough spare capacity.
func (b *commandBuffer) stage(bytes []byte) error {
	if len(b.data)+len(bytes) > cap(b.data) {
		return ErrBufFull
	}
	b.data = append(b.data, bytes...)
	return nil
}

// stageVReg stages the four-byte video-register write command.
func (b *commandBuffer) stageVReg(reg, val byte) error {
	return b.stage([]byte{0xAF, 0x20, reg, val})
}

// reset discards staged bytes without transmitting them. Flush calls it
// after every write attempt, so a failed write (a timeout included)
// leaves no pending bytes behind.
func (b *commandBuffer) reset() {
	b.data = b.data[:0]
}

// Stage appends bytes to the device's pending command buffer. It fails
// with ErrBufFull if the buffer has insufficient spare capacity; no
// partial write occurs.
func (d *Device) Stage(bytes []byte) error {
	if err := d.buf.stage(bytes); err != nil {
		pkg.LogDebug(pkg.ComponentBuffer, "stage failed", "serial", d.Serial, "len", len(bytes))
		return err
	}
	return nil
}

// StageVReg stages a single video-register write command.
func (d *Device) StageVReg(reg, val byte) error {
	return d.buf.stageVReg(reg, val)
}

// Flush transmits every staged byte over the transport as a single
// Write call and clears the buffer. A flush is a barrier: callers may
// assume every previously staged byte has been delivered once Flush
// returns nil.
func (d *Device) Flush(ctx context.Context) error {
	if len(d.buf.data) == 0 {
		return nil
	}
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	_, err := d.transport.Write(ctx, d.buf.data)
	if err != nil {
		d.buf.reset()
		pkg.LogWarn(pkg.ComponentBuffer, "flush failed, buffer reset", "serial", d.Serial, "error", err)
		return err
	}
	d.buf.reset()
	return nil
}
