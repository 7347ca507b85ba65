package dlfb

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ardnew/dlfb/pkg"
	"github.com/ardnew/dlfb/transport"
)

// Discovered is one adapter a Discoverer found attached.
type Discovered struct {
	Serial    string
	Type      transport.DeviceType
	Transport transport.Transport
	TimeoutMS uint32
	Memory    uint32
}

// Discoverer scans for attached adapters. It is supplied by the caller
// so the registry stays independent of any particular transport or bus
// enumeration mechanism.
type Discoverer func(ctx context.Context) ([]Discovered, error)

// Options configures a Registry.
type Options struct {
	// Verbose raises the package-wide log level to debug.
	Verbose bool
	// StrictChecksum is advisory: the Registry stores it but does not
	// consult it. ReadEDID fails with ErrEdidFail on a bad checksum
	// whether or not it is set.
	StrictChecksum bool
}

// Registry tracks every adapter discovered across enumeration sweeps.
// It replaces the process-wide linked list of the protocol this library
// implements with an explicit, caller-owned object. Presence is tracked
// with a boolean polarity flag that each sweep toggles and compares per
// device; there is no generation counter.
type Registry struct {
	mu            sync.Mutex
	devices       map[string]*Device
	checkPolarity bool
	opts          Options
}

// NewRegistry returns an empty Registry.
func NewRegistry(opts Options) *Registry {
	if opts.Verbose {
		pkg.SetLogLevel(slog.LevelDebug)
	}
	return &Registry{devices: make(map[string]*Device), opts: opts}
}

// Sweep reconciles the registry against discover's result: devices
// reported as present have their check mark flipped to the current
// sweep's polarity; any device not reported is pruned and its
// transport closed. If discover itself fails, every currently
// unclaimed device is pruned (the sweep result cannot be trusted, but
// claimed devices are left alone since a caller may still be driving
// one).
func (r *Registry) Sweep(ctx context.Context, discover Discoverer) error {
	found, err := discover(ctx)
	if err != nil {
		r.mu.Lock()
		for serial, dev := range r.devices {
			if !dev.Claimed() {
				dev.transport.Close()
				delete(r.devices, serial)
			}
		}
		r.mu.Unlock()
		pkg.LogWarn(pkg.ComponentRegistry, "discovery failed, pruned unclaimed devices", "error", err)
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkPolarity = !r.checkPolarity

	for _, f := range found {
		dev, ok := r.devices[f.Serial]
		if !ok {
			dev = newDevice(f.Serial, f.Type, f.Transport, f.TimeoutMS, f.Memory)
			r.devices[f.Serial] = dev
			pkg.LogInfo(pkg.ComponentRegistry, "device discovered", "serial", f.Serial, "type", f.Type)
		} else {
			dev.transport = f.Transport
		}
		dev.check = r.checkPolarity
	}

	for serial, dev := range r.devices {
		if dev.check != r.checkPolarity {
			pkg.LogInfo(pkg.ComponentRegistry, "device disappeared", "serial", serial)
			dev.transport.Close()
			delete(r.devices, serial)
		}
	}
	return nil
}

// Get returns the device with the given serial, if tracked.
func (r *Registry) Get(serial string) (*Device, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dev, ok := r.devices[serial]
	return dev, ok
}

// Claim looks up and claims a device in one step.
func (r *Registry) Claim(serial string) (*Device, error) {
	r.mu.Lock()
	dev, ok := r.devices[serial]
	r.mu.Unlock()
	if !ok {
		return nil, ErrBadDevice
	}
	if err := dev.Claim(); err != nil {
		return nil, err
	}
	return dev, nil
}

// Release releases a previously claimed device by serial.
func (r *Registry) Release(serial string) error {
	r.mu.Lock()
	dev, ok := r.devices[serial]
	r.mu.Unlock()
	if !ok {
		return ErrBadDevice
	}
	return dev.Release()
}

// DeviceInfo is a read-only snapshot of one tracked device, safe to
// hand to callers without exposing the live *Device.
type DeviceInfo struct {
	Serial  string
	Type    transport.DeviceType
	Claimed bool
}

// Info returns a snapshot of every currently tracked device.
func (r *Registry) Info() []DeviceInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]DeviceInfo, 0, len(r.devices))
	for _, dev := range r.devices {
		out = append(out, DeviceInfo{Serial: dev.Serial, Type: dev.Type, Claimed: dev.Claimed()})
	}
	return out
}
