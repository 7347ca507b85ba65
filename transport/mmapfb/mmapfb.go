// Package mmapfb implements transport.Transport over a memory-mapped
// file standing in for an adapter's framebuffer memory. It exists for
// driving the protocol engine end-to-end — EDID, mode resolution, the
// full mode-select sequence — against a plain file when no USB adapter
// is attached, copying bulk payloads into the mapped file at a running
// byte cursor (which every call advances, wrapping at the end of the
// mapping) instead of issuing a bulk transfer.
package mmapfb

import (
	"context"
	"fmt"
	"os"
	"sync"

	"launchpad.net/gommap"

	"github.com/ardnew/dlfb/transport"
)

// Transport mmaps a backing file and treats BulkWrite as "copy the
// mode-program blob to the current write cursor" and Write/
// ControlChannel as advancing that cursor without touching the mapped
// region — only the bulk path represents actual pixel/program payload
// in this model.
type Transport struct {
	mu     sync.Mutex
	file   *os.File
	mapped gommap.MMap
	cursor uint64

	edid []byte
	typ  transport.DeviceType
}

// Open mmaps size bytes of path (created/truncated if necessary) and
// returns a ready Transport reporting typ and edid for discovery calls.
func Open(path string, size int64, typ transport.DeviceType, edid []byte) (*Transport, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("mmapfb: open %s: %w", path, err)
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, fmt.Errorf("mmapfb: truncate %s: %w", path, err)
	}
	m, err := gommap.Map(f.Fd(), gommap.PROT_READ|gommap.PROT_WRITE, gommap.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmapfb: mmap %s: %w", path, err)
	}
	return &Transport{file: f, mapped: m, typ: typ, edid: edid}, nil
}

func (t *Transport) Write(ctx context.Context, data []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cursor += uint64(len(data))
	return len(data), nil
}

func (t *Transport) ControlChannel(ctx context.Context, data []byte) (int, error) {
	return t.Write(ctx, data)
}

// BulkWrite copies data into the mapped region at the current cursor,
// wrapping if it runs past the end, and advances the cursor.
func (t *Transport) BulkWrite(ctx context.Context, data []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := uint64(len(t.mapped))
	if n == 0 {
		return 0, fmt.Errorf("mmapfb: no mapping")
	}
	for i := 0; i < len(data); i++ {
		t.mapped[t.cursor%n] = data[i]
		t.cursor++
	}
	return len(data), nil
}

func (t *Transport) ReadEDID(ctx context.Context) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]byte, len(t.edid))
	copy(out, t.edid)
	return out, nil
}

func (t *Transport) DetectType(ctx context.Context) (transport.DeviceType, error) {
	return t.typ, nil
}

func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.mapped != nil {
		t.mapped.UnsafeUnmap()
		t.mapped = nil
	}
	return t.file.Close()
}
