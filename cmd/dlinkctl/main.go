// Command dlinkctl drives one simulated or real adapter through
// discovery, EDID capability detection, and a mode change, reporting
// each step the way a developer exercising the library by hand would.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ardnew/dlfb"
	"github.com/ardnew/dlfb/config"
	"github.com/ardnew/dlfb/pkg"
	"github.com/ardnew/dlfb/pkg/prof"
	"github.com/ardnew/dlfb/transport"
	"github.com/ardnew/dlfb/transport/loopback"
	"github.com/ardnew/dlfb/transport/mmapfb"
)

// componentCLI identifies dlinkctl's own log lines, separate from the
// library components it drives.
const componentCLI pkg.Component = "dlinkctl"

var (
	configPath = flag.String("config", "", "path to a YAML config file (defaults apply if omitted)")
	serial     = flag.String("serial", "sim0", "serial number to assign the discovered adapter")
	edidPath   = flag.String("edid", "", "path to a 128-byte raw EDID block; falls back to the full catalogue if omitted")
	width      = flag.Int("w", 1024, "requested mode width")
	height     = flag.Int("h", 768, "requested mode height")
	refresh    = flag.Int("hz", 60, "requested refresh rate, 0 for \"any\"")
	bpp        = flag.Int("bpp", 24, "requested color depth")
	base       = flag.Uint("base", 0, "base address within adapter memory for the requested mode")
	list       = flag.Bool("list", false, "list discovered devices and their supported modes, then exit")
	jsonLog    = flag.Bool("json", false, "emit logs as JSON")
	cpuProfile = flag.String("cpuprofile", "", "write a CPU profile to this path (requires building with -tags profile)")
)

func main() {
	flag.Parse()

	if *cpuProfile != "" {
		if err := prof.StartCPU(*cpuProfile); err != nil {
			pkg.LogError(componentCLI, "failed to start cpu profile", "error", err)
			os.Exit(1)
		}
		defer prof.StopCPU()
	}

	if *jsonLog {
		pkg.SetLogger(pkg.NewJSONLogger(os.Stderr, &slog.HandlerOptions{Level: pkg.GetLogLevel()}))
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			pkg.LogError(componentCLI, "failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = *loaded
	}
	if cfg.Verbose {
		pkg.SetLogLevel(slog.LevelDebug)
	}

	ctx := context.Background()

	tp, typ, err := openTransport(cfg)
	if err != nil {
		pkg.LogError(componentCLI, "failed to open transport", "error", err)
		os.Exit(1)
	}
	defer tp.Close()

	registry := dlfb.NewRegistry(dlfb.Options{
		Verbose:        cfg.Verbose,
		StrictChecksum: cfg.StrictChecksum,
	})

	discover := func(context.Context) ([]dlfb.Discovered, error) {
		return []dlfb.Discovered{{
			Serial:    *serial,
			Type:      typ,
			Transport: tp,
			TimeoutMS: cfg.TimeoutMS,
		}}, nil
	}
	if err := registry.Sweep(ctx, discover); err != nil {
		pkg.LogError(componentCLI, "sweep failed", "error", err)
		os.Exit(1)
	}

	dev, err := registry.Claim(*serial)
	if err != nil {
		pkg.LogError(componentCLI, "claim failed", "error", err)
		os.Exit(1)
	}
	defer registry.Release(*serial)

	if err := dev.DetectType(ctx); err != nil {
		pkg.LogWarn(componentCLI, "type detection failed, leaving configured type", "error", err)
	}

	if *edidPath != "" {
		if err := dev.ReadEDID(ctx); err != nil {
			pkg.LogWarn(componentCLI, "edid read failed, falling back to full catalogue", "error", err)
			dev.UseDefaultModes()
		}
	}

	if *list {
		printInfo(registry, dev)
		return
	}

	idx, ok := dev.Lookup(*width, *height, *refresh, *bpp)
	if !ok {
		pkg.LogError(componentCLI, "no catalogue match", "w", *width, "h", *height, "hz", *refresh, "bpp", *bpp)
		os.Exit(1)
	}

	err = dev.ModeChange(ctx, idx, uint32(*base))
	switch {
	case err == nil:
		pkg.LogInfo(componentCLI, "mode set", "index", idx, "w", *width, "h", *height, "hz", *refresh)
	case dlfb.IsWarning(err):
		pkg.LogWarn(componentCLI, "mode set with warning", "index", idx, "warning", err)
	default:
		pkg.LogError(componentCLI, "mode change failed", "error", err)
		os.Exit(1)
	}
}

// openTransport constructs the transport named by cfg.Transport. The
// loopback and mmapfb backends are seeded with the EDID file's contents
// (if given) and a nominal device type; usbfs is left to report its own
// type over the wire.
func openTransport(cfg config.Config) (transport.Transport, transport.DeviceType, error) {
	var edidData []byte
	if *edidPath != "" {
		data, err := os.ReadFile(*edidPath)
		if err != nil {
			return nil, transport.DeviceTypeUnknown, fmt.Errorf("read edid file: %w", err)
		}
		edidData = data
	}

	switch cfg.Transport {
	case "loopback":
		return loopback.New(transport.DeviceTypeOllie, edidData), transport.DeviceTypeOllie, nil
	case "mmapfb":
		tp, err := mmapfb.Open(cfg.Path, dlfb.DefaultMemorySize, transport.DeviceTypeOllie, edidData)
		if err != nil {
			return nil, transport.DeviceTypeUnknown, err
		}
		return tp, transport.DeviceTypeOllie, nil
	case "usbfs":
		tp, err := openUsbfs(cfg.Path)
		if err != nil {
			return nil, transport.DeviceTypeUnknown, err
		}
		return tp, transport.DeviceTypeUnknown, nil
	default:
		return nil, transport.DeviceTypeUnknown, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}

func printInfo(registry *dlfb.Registry, dev *dlfb.Device) {
	for _, info := range registry.Info() {
		fmt.Printf("%s  type=%s  claimed=%v\n", info.Serial, info.Type, info.Claimed)
	}
	fmt.Printf("supported modes (%d):\n", len(dev.Supported))
	for _, idx := range dev.Supported {
		entry, ok := dev.CatalogueEntry(idx)
		if !ok {
			continue
		}
		fmt.Printf("  [%d] %dx%d@%dHz %dbpp\n", idx, entry.Width, entry.Height, entry.Refresh, entry.BPP)
	}
}
