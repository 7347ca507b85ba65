// Package dlfb drives USB-attached display adapters that speak a
// proprietary byte-stream command protocol. It enumerates adapters,
// reads and parses the attached monitor's EDID block, resolves monitor
// timings against each adapter's fixed mode catalogue, and carries out
// the command-buffer framing and flush sequence a mode change requires.
//
// The protocol and mode-negotiation logic lives here and in the
// catalogue, edid, and mode subpackages; transport subpackages supply
// the bulk/control I/O underneath.
//
// A minimal program:
//
//	reg := dlfb.NewRegistry(dlfb.Options{})
//	reg.Sweep(ctx, discover)
//	dev, _ := reg.Claim(serial)
//	defer reg.Release(serial)
//	if err := dev.ReadEDID(ctx); err != nil {
//		dev.UseDefaultModes()
//	}
//	idx, _ := dev.Lookup(1024, 768, 60, 24)
//	dev.ModeChange(ctx, idx, 0)
package dlfb
