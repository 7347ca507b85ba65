// Package transport defines the byte-sink abstraction the protocol
// engine writes through. Implementations range from an in-memory
// recorder for tests to a real usbfs-backed bulk/control transport.
package transport
