package dlfb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ardnew/dlfb/catalogue"
	"github.com/ardnew/dlfb/edid"
	"github.com/ardnew/dlfb/mode"
	"github.com/ardnew/dlfb/pkg"
	"github.com/ardnew/dlfb/transport"
)

// defaultBufferSize is the command buffer capacity given to a newly
// discovered device.
const defaultBufferSize = 4096

// defaultMemory is the per-device framebuffer memory budget assumed
// when a discovery result does not specify one.
const defaultMemory = 16 * 1024 * 1024

// DefaultMemorySize is the framebuffer memory budget newDevice assumes
// when a discovery result leaves Memory unset, exported so callers
// sizing a backing store (mmapfb's file, say) can match it.
const DefaultMemorySize = defaultMemory

// Device represents one adapter tracked by a Registry.
type Device struct {
	Serial string
	Type   transport.DeviceType

	TimeoutMS uint32
	Memory    uint32

	mu      sync.Mutex
	claimed bool
	check   bool

	transport transport.Transport
	buf       commandBuffer

	Mode      mode.Params
	Base8     uint32
	LowBlank  bool
	Native    *mode.Params
	Supported mode.Supported
}

func newDevice(serial string, typ transport.DeviceType, tp transport.Transport, timeoutMS uint32, memory uint32) *Device {
	if memory == 0 {
		memory = defaultMemory
	}
	d := &Device{
		Serial:    serial,
		Type:      typ,
		TimeoutMS: timeoutMS,
		Memory:    memory,
		transport: tp,
		buf:       newCommandBuffer(defaultBufferSize),
	}
	d.UseDefaultModes()
	return d
}

func (d *Device) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.TimeoutMS == 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(d.TimeoutMS)*time.Millisecond)
}

// Claim marks the device as exclusively held. It fails with ErrClaimed
// if the device is already claimed.
func (d *Device) Claim() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.claimed {
		return ErrClaimed
	}
	d.claimed = true
	return nil
}

// Release clears an exclusive claim. It fails with ErrUnclaimed if the
// device is not currently claimed, so a second Release after a
// successful one also fails.
func (d *Device) Release() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.claimed {
		return ErrUnclaimed
	}
	d.claimed = false
	return nil
}

// Claimed reports whether the device currently has an active claim.
func (d *Device) Claimed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.claimed
}

// ReadEDID fetches and parses the attached monitor's EDID block,
// replacing the device's supported-mode list and native mode with the
// ones derived from it. On failure the device's existing supported list
// is left untouched.
func (d *Device) ReadEDID(ctx context.Context) error {
	tctx, cancel := d.withTimeout(ctx)
	defer cancel()
	raw, err := d.transport.ReadEDID(tctx)
	if err != nil {
		pkg.LogWarn(pkg.ComponentEDID, "edid read failed", "serial", d.Serial, "error", err)
		return fmt.Errorf("%w: %w", ErrEdidFail, err)
	}
	rec, err := edid.Parse(raw)
	if err != nil {
		pkg.LogWarn(pkg.ComponentEDID, "edid parse failed", "serial", d.Serial, "error", err)
		return fmt.Errorf("%w: %w", ErrEdidFail, err)
	}
	supported, native := mode.BuildSupportedFromEDID(rec)
	d.Supported = supported
	d.Native = native
	pkg.LogInfo(pkg.ComponentEDID, "edid parsed", "serial", d.Serial, "supported", len(supported))
	return nil
}

// UseDefaultModes populates the device's supported-mode list with the
// entire catalogue, in catalogue order. Used when no usable EDID is
// available.
func (d *Device) UseDefaultModes() {
	d.Supported = mode.UseDefaultModes()
	d.Native = nil
}

// Lookup resolves a requested geometry against the device's current
// supported-mode list. See mode.Lookup for the matching rule.
func (d *Device) Lookup(w, h, refresh, bpp int) (catalogue.Index, bool) {
	return mode.Lookup(d.Supported, w, h, refresh, bpp)
}

// CatalogueEntry returns the catalogue.Entry a mode index resolves to,
// a thin pass-through so callers outside this module don't need to
// import catalogue themselves just to describe a Lookup result.
func (d *Device) CatalogueEntry(idx catalogue.Index) (catalogue.Entry, bool) {
	return catalogue.Get(idx)
}

// DetectType queries the transport for the adapter's hardware revision
// and records it on the device.
func (d *Device) DetectType(ctx context.Context) error {
	tctx, cancel := d.withTimeout(ctx)
	defer cancel()
	typ, err := d.transport.DetectType(tctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	d.Type = typ
	return nil
}
