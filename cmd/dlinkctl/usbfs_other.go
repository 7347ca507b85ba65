//go:build !linux

package main

import (
	"fmt"

	"github.com/ardnew/dlfb/transport"
)

func openUsbfs(path string) (transport.Transport, error) {
	return nil, fmt.Errorf("usbfs transport requires linux")
}
