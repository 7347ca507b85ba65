// Package pkg provides shared utilities for the display-adapter driver.
//
// This package contains common functionality used across the driver's
// packages, including:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel error types for the USB transfer failures a transport
//     implementation observes
//   - Component identifiers for log filtering
//
// The package is designed to have zero external dependencies, relying
// only on the Go standard library.
//
// # Logging
//
// The logging subsystem wraps [log/slog] with driver-specific context:
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogInfo(pkg.ComponentDevice, "device configured", "config", 1)
//
// # Errors
//
// Common low-level transfer errors are defined as sentinel values, for
// Transport implementations that talk to real USB hardware to map
// their ioctl/syscall failures onto:
//
//	if errors.Is(err, pkg.ErrStall) {
//	    // Handle endpoint stall
//	}
package pkg
