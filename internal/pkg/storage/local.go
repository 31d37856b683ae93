package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	localFilePerm = 0o644
	localDirPerm  = 0o755
)

// Local stores files under a directory served at baseURL.
type Local struct {
	root    string
	baseURL string
}

func NewLocal(root, baseURL string) *Local {
	return &Local{root: root, baseURL: baseURL}
}

// Root is the directory files are written under.
func (l *Local) Root() string { return l.root }

func (l *Local) abs(p string) (string, error) {
	cleaned, err := CleanPath(p)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.root, filepath.FromSlash(cleaned)), nil
}

func (l *Local) Put(ctx context.Context, p string, data []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := l.abs(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), localDirPerm); err != nil {
		return fmt.Errorf("storage: create dir for %q: %w", p, err)
	}
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, localFilePerm); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("storage: write %q: %w", p, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("storage: move %q into place: %w", p, err)
	}
	return nil
}

func (l *Local) Get(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target, err := l.abs(p)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(target)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, p)
	}
	return b, err
}

func (l *Local) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := l.abs(p)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: delete %q: %w", p, err)
	}
	l.pruneEmptyDirs(filepath.Dir(target))
	return nil
}

// pruneEmptyDirs removes now-empty parents up to, but not including, the root.
func (l *Local) pruneEmptyDirs(dir string) {
	root := filepath.Clean(l.root)
	for dir != root && len(dir) > len(root) {
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}

func (l *Local) URL(p string) string {
	cleaned, err := CleanPath(p)
	if err != nil {
		return ""
	}
	return joinURL(l.baseURL, cleaned)
}
