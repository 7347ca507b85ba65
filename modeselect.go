package dlfb

import (
	"context"
	"fmt"

	"github.com/ardnew/dlfb/catalogue"
	"github.com/ardnew/dlfb/mode"
	"github.com/ardnew/dlfb/pkg"
)

// ModeChange selects idx, a catalogue index (typically from Lookup),
// programming the adapter's base addresses and, if the geometry
// differs from the device's current mode, transmitting the mode-enable
// and mode-program blobs. base is the byte offset within the adapter's
// framebuffer memory for the 16bpp plane; it must be even.
//
// A nil return means the mode was set outright. A non-nil return
// satisfying IsWarning (WarnDL160Mode) also means the mode was set, but
// the caller should know it is in the catalogue's restricted subset.
// Any other non-nil return means the switch did not complete.
func (d *Device) ModeChange(ctx context.Context, idx catalogue.Index, base uint32) error {
	if idx == catalogue.INVALID {
		return ErrBadMode
	}
	entry, ok := catalogue.Get(idx)
	if !ok {
		return ErrBadMode
	}
	if base%2 != 0 {
		return ErrBadMode
	}
	base8 := base + uint32(bytesPer16BPP*entry.Width*entry.Height)
	if uint64(base8)+uint64(entry.Width*entry.Height) > uint64(d.Memory) {
		return ErrBadMode
	}

	// Step: flush whatever is pending before touching registers. A
	// failure here is reported as ErrInvalidMode rather than
	// ErrTransport — a quirk carried over from the protocol this
	// library replaces, not a design choice worth repeating elsewhere.
	if err := d.Flush(ctx); err != nil {
		pkg.LogWarn(pkg.ComponentMode, "pre-switch flush failed", "serial", d.Serial, "error", err)
		return fmt.Errorf("%w: %w", ErrInvalidMode, err)
	}

	if err := d.programBaseAddresses(ctx, base, base8); err != nil {
		return err
	}

	changed := d.Mode.Width != entry.Width || d.Mode.Height != entry.Height || d.Mode.BPP != entry.BPP
	if changed {
		if err := d.sendModeProgram(ctx, entry); err != nil {
			return err
		}
	}

	d.Mode = mode.Params{Width: entry.Width, Height: entry.Height, BPP: entry.BPP, Refresh: entry.Refresh, Base: base}
	d.Base8 = base8
	d.LowBlank = entry.LowBlank

	if err := d.Flush(ctx); err != nil {
		pkg.LogWarn(pkg.ComponentMode, "post-switch flush failed", "serial", d.Serial, "error", err)
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	if int(idx) < catalogue.DL120Modes {
		pkg.LogInfo(pkg.ComponentMode, "mode requires DL160-class hardware", "serial", d.Serial, "index", idx)
		return WarnDL160Mode
	}
	return nil
}

// programBaseAddresses frames the VIDREG_LOCK / six register writes /
// VIDREG_UNLOCK sequence and flushes it.
func (d *Device) programBaseAddresses(ctx context.Context, base, base8 uint32) error {
	if err := d.Stage(cmdVidregLock); err != nil {
		return err
	}
	writes := []struct{ reg, val byte }{
		{regBase0, byte(base >> 16)},
		{regBase1, byte(base >> 8)},
		{regBase2, byte(base)},
		{regBase80, byte(base8 >> 16)},
		{regBase81, byte(base8 >> 8)},
		{regBase82, byte(base8)},
	}
	for _, w := range writes {
		if err := d.StageVReg(w.reg, w.val); err != nil {
			return err
		}
	}
	if err := d.Stage(cmdVidregUnlock); err != nil {
		return err
	}
	if err := d.Flush(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return nil
}

// sendModeProgram issues the channel-select/mode-program/postamble
// sequence for a geometry change: mode-enable on the control channel,
// mode-program on the bulk channel, then the fixed postamble.
func (d *Device) sendModeProgram(ctx context.Context, entry catalogue.Entry) error {
	tctx, cancel := d.withTimeout(ctx)
	_, err := d.transport.ControlChannel(tctx, entry.Enable)
	cancel()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	tctx, cancel = d.withTimeout(ctx)
	_, err = d.transport.BulkWrite(tctx, entry.Program)
	cancel()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	tctx, cancel = d.withTimeout(ctx)
	_, err = d.transport.ControlChannel(tctx, postamble)
	cancel()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return nil
}
