package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// dataDirName is the per-user directory under the XDG data home.
const dataDirName = "quote-sync"

// ResolvedPath returns Path, or the driver's default location under the XDG
// data directory when Path is empty. The memory driver has no path.
func (s StorageConfig) ResolvedPath() string {
	if s.Path != "" || s.Driver == "memory" {
		return s.Path
	}

	if s.Driver == "sqlite" {
		return filepath.Join(xdg.DataHome, dataDirName, "quotes.db")
	}

	return filepath.Join(xdg.DataHome, dataDirName, "slots")
}
