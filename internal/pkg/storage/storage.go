// Package storage writes files to named disks and builds their public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sekolah-web/core/internal/config"
)

// ErrNotExist is returned by Get when the path holds no file.
var ErrNotExist = errors.New("storage: file does not exist")

// Disk is one storage backend. Paths are slash separated and relative to the disk.
type Disk interface {
	Put(ctx context.Context, p string, data []byte, contentType string) error
	Get(ctx context.Context, p string) ([]byte, error)
	// Delete removes p. Deleting a missing file is not an error.
	Delete(ctx context.Context, p string) error
	URL(p string) string
}

// Manager addresses disks by name.
type Manager struct {
	mu          sync.RWMutex
	disks       map[string]Disk
	defaultDisk string
}

func NewManager(defaultDisk string) *Manager {
	return &Manager{disks: make(map[string]Disk), defaultDisk: defaultDisk}
}

// FromConfig builds every configured disk. Local roots come resolved from
// config.Parse.
func FromConfig(ctx context.Context, cfg config.StorageConfig) (*Manager, error) {
	m := NewManager(cfg.DefaultDisk)
	for name, dc := range cfg.Disks {
		switch dc.Driver {
		case config.DiskLocal:
			m.Register(name, NewLocal(dc.Root, dc.BaseURL))
		case config.DiskS3:
			d, err := NewS3(ctx, dc)
			if err != nil {
				return nil, fmt.Errorf("disk %q: %w", name, err)
			}
			m.Register(name, d)
		default:
			return nil, fmt.Errorf("disk %q: unsupported driver %q", name, dc.Driver)
		}
	}
	if _, ok := m.Disk(cfg.DefaultDisk); !ok {
		return nil, fmt.Errorf("default disk %q is not configured", cfg.DefaultDisk)
	}
	return m, nil
}

// Register adds or replaces a disk.
func (m *Manager) Register(name string, d Disk) {
	m.mu.Lock()
	m.disks[name] = d
	m.mu.Unlock()
}

// Disk looks a disk up by name.
func (m *Manager) Disk(name string) (Disk, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.disks[name]
	return d, ok
}

// DefaultName is the disk used when a caller does not pick one.
func (m *Manager) DefaultName() string { return m.defaultDisk }

// Names lists the registered disks in order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.disks))
	for name := range m.disks {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// URL returns the public URL of p on the named disk, or "" when the disk is unknown.
func (m *Manager) URL(disk, p string) string {
	d, ok := m.Disk(disk)
	if !ok {
		return ""
	}
	return d.URL(p)
}

// CleanPath normalises p and rejects paths escaping the disk root.
func CleanPath(p string) (string, error) {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	cleaned := path.Clean("/" + p)
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("storage: empty path %q", p)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", fmt.Errorf("storage: path %q escapes the disk root", p)
		}
	}
	return cleaned, nil
}

// DetectContentType infers a MIME type from the file name, then from the content.
func DetectContentType(filename string, data []byte) string {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		if ct := mime.TypeByExtension(ext); ct != "" {
			return strings.SplitN(ct, ";", 2)[0]
		}
	}
	if len(data) > 0 {
		return strings.SplitN(http.DetectContentType(data), ";", 2)[0]
	}
	return "application/octet-stream"
}

func joinURL(base, p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	escaped := strings.Join(segs, "/")
	if base == "" {
		return "/" + escaped
	}
	return strings.TrimRight(base, "/") + "/" + escaped
}
