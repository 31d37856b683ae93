package config

import (
	"os"
	"path/filepath"
	"strings"
)

// homeDir picks the directory relative runtime paths hang off: an explicit
// home first, then the directory holding the config file, then the working
// directory. A relative explicit home is taken from the working directory.
func homeDir(explicit, configDir string) string {
	for _, dir := range []string{explicit, configDir} {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		if abs, err := filepath.Abs(dir); err == nil {
			return abs
		}
		return filepath.Clean(dir)
	}
	if wd, err := os.Getwd(); err == nil && strings.TrimSpace(wd) != "" {
		return wd
	}
	return "."
}

// ResolvePath resolves raw against home. Absolute paths are only cleaned; an
// empty raw falls back to fallbackSubdir, and to home itself when both are empty.
func ResolvePath(home, raw, fallbackSubdir string) string {
	target := strings.TrimSpace(raw)
	if target == "" {
		target = strings.TrimSpace(fallbackSubdir)
		if target == "" {
			return filepath.Clean(home)
		}
	}
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Clean(filepath.Join(home, target))
}

// ResolvePath resolves raw against the configured home directory.
func (c *AppConfig) ResolvePath(raw, fallbackSubdir string) string {
	return ResolvePath(c.Home, raw, fallbackSubdir)
}

// resolveRuntimePaths anchors the local disk roots and the log directory at
// home so the process behaves the same from any working directory.
func (c *AppConfig) resolveRuntimePaths(configDir string) {
	c.Home = homeDir(c.Home, configDir)
	for name, disk := range c.Storage.Disks {
		if disk.Driver == DiskLocal && disk.Root != "" {
			disk.Root = c.ResolvePath(disk.Root, "")
			c.Storage.Disks[name] = disk
		}
	}
	if c.Paths.Logs != "" {
		c.Paths.Logs = c.ResolvePath(c.Paths.Logs, "")
	}
}
