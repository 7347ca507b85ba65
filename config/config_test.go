package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dlinkctl.yaml")
	os.WriteFile(path, []byte("transport: usbfs\npath: /dev/bus/usb/001/002\nverbose: true\n"), 0o644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Transport != "usbfs" || cfg.Path == "" || !cfg.Verbose {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadMissingPathForUsbfs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dlinkctl.yaml")
	os.WriteFile(path, []byte("transport: usbfs\n"), 0o644)

	if _, err := Load(path); err == nil {
		t.Fatalf("Load should reject usbfs transport with no path")
	}
}

func TestLoadUnknownTransport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dlinkctl.yaml")
	os.WriteFile(path, []byte("transport: carrier-pigeon\n"), 0o644)

	if _, err := Load(path); err == nil {
		t.Fatalf("Load should reject an unknown transport")
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}
