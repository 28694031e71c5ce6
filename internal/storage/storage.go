package storage

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/readlit/internal/ledger"
	"github.com/julianstephens/readlit/internal/logger"
	"github.com/julianstephens/readlit/internal/models"
)

//go:embed data.json
var bundledData []byte

// NewProvider picks a store by file extension: .json paths get the JSON
// store, everything else SQLite.
func NewProvider(path string) Provider {
	path = ExpandPath(path)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return NewJSONStore(path)
	}
	return NewSQLiteStore(path)
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// DefaultSnapshot is the seed used when nothing has been stored yet: the
// bundled data.json, or an empty snapshot if the bundle cannot be read.
func DefaultSnapshot() models.Snapshot {
	return seedSnapshot(bundledData)
}

func seedSnapshot(raw []byte) models.Snapshot {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return ledger.EmptySnapshot()
	}
	snap, err := ledger.Normalize(raw)
	if err != nil {
		logger.Warn("bundled data is unusable, starting empty", "error", err)
		return ledger.EmptySnapshot()
	}
	return snap
}
