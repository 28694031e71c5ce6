// Package backup keeps timestamped copies of the store file next to it and
// restores them on request.
package backup

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/readlit/internal/constants"
	"github.com/julianstephens/readlit/internal/logger"
)

const timestampFormat = "20060102-150405"

// ErrNoStore is returned when there is nothing to back up.
var ErrNoStore = errors.New("store does not exist")

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
	seq       int
}

// Name is the backup's file name.
func (b BackupInfo) Name() string {
	return filepath.Base(b.Path)
}

// Manager handles backup operations for one store file. The copy strategy
// follows the store's extension: SQLite databases are vacuumed into the
// backup, anything else is copied byte for byte.
type Manager struct {
	storePath  string
	backupDir  string
	ext        string
	maxBackups int
	now        func() time.Time
}

// NewManager creates a manager that writes to a backups/ directory beside storePath.
func NewManager(storePath string) *Manager {
	ext := filepath.Ext(storePath)
	if ext == "" {
		ext = ".db"
	}
	return &Manager{
		storePath:  storePath,
		backupDir:  filepath.Join(filepath.Dir(storePath), constants.BackupDirName),
		ext:        ext,
		maxBackups: constants.MaxBackups,
		now:        time.Now,
	}
}

// Dir returns the backup directory path
func (m *Manager) Dir() string {
	return m.backupDir
}

func (m *Manager) isSQLite() bool {
	return m.ext != ".json"
}

// Create writes a new backup and prunes the oldest beyond the retention limit.
func (m *Manager) Create() (BackupInfo, error) {
	info, err := m.create()
	if err != nil {
		return BackupInfo{}, err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("failed to rotate old backups", "error", err)
	}
	return info, nil
}

func (m *Manager) create() (BackupInfo, error) {
	if _, err := os.Stat(m.storePath); os.IsNotExist(err) {
		return BackupInfo{}, fmt.Errorf("%w: %s", ErrNoStore, m.storePath)
	}
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return BackupInfo{}, fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.nextPath()
	if err != nil {
		return BackupInfo{}, err
	}

	if m.isSQLite() {
		err = vacuumInto(m.storePath, path)
	} else {
		err = copyFile(m.storePath, path)
	}
	if err != nil {
		return BackupInfo{}, fmt.Errorf("failed to back up %s: %w", m.storePath, err)
	}

	logger.Info("backup created", "path", path)
	return m.stat(filepath.Base(path))
}

// nextPath picks a file name from the current time, adding a counter when
// several backups land in the same second.
func (m *Manager) nextPath() (string, error) {
	stamp := constants.BackupFilePrefix + m.now().Format(timestampFormat)
	for seq := 0; seq <= 100; seq++ {
		name := stamp + m.ext
		if seq > 0 {
			name = fmt.Sprintf("%s-%d%s", stamp, seq, m.ext)
		}
		path := filepath.Join(m.backupDir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique backup filename")
}

// parseName extracts the timestamp and collision counter from a backup file name.
func (m *Manager) parseName(name string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, m.ext) {
		return time.Time{}, 0, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), m.ext)
	if len(stamp) < len(timestampFormat) {
		return time.Time{}, 0, false
	}

	ts, err := time.ParseInLocation(timestampFormat, stamp[:len(timestampFormat)], time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}

	seq := 0
	if rest := stamp[len(timestampFormat):]; rest != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(rest, "-"))
		if err != nil || !strings.HasPrefix(rest, "-") {
			return time.Time{}, 0, false
		}
		seq = n
	}
	return ts, seq, true
}

func (m *Manager) stat(name string) (BackupInfo, error) {
	ts, seq, ok := m.parseName(name)
	if !ok {
		return BackupInfo{}, fmt.Errorf("not a backup file: %s", name)
	}
	path := filepath.Join(m.backupDir, name)
	fi, err := os.Stat(path)
	if err != nil {
		return BackupInfo{}, err
	}
	return BackupInfo{Path: path, Timestamp: ts, Size: fi.Size(), seq: seq}, nil
}

// List returns all available backups, newest first.
func (m *Manager) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := m.stat(entry.Name())
		if err != nil {
			continue
		}
		backups = append(backups, info)
	}

	sort.Slice(backups, func(i, j int) bool {
		if !backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Timestamp.After(backups[j].Timestamp)
		}
		return backups[i].seq > backups[j].seq
	})
	return backups, nil
}

// Latest returns the newest backup, if any.
func (m *Manager) Latest() (BackupInfo, bool, error) {
	backups, err := m.List()
	if err != nil || len(backups) == 0 {
		return BackupInfo{}, false, err
	}
	return backups[0], true, nil
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for _, old := range backups[min(len(backups), m.maxBackups):] {
		if err := os.Remove(old.Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", old.Path, err)
		}
		logger.Debug("backup pruned", "path", old.Path)
	}
	return nil
}

// Resolve accepts a backup file name or a path and returns the path.
func (m *Manager) Resolve(ref string) string {
	if filepath.Base(ref) == ref {
		return filepath.Join(m.backupDir, ref)
	}
	return ref
}

// Restore replaces the store file with a backup. The current store is backed
// up first; its path is returned so the caller can report it. The store must
// be closed while this runs.
func (m *Manager) Restore(backupPath string) (string, error) {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if err := m.Verify(backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var safety string
	if _, err := os.Stat(m.storePath); err == nil {
		info, err := m.create()
		if err != nil {
			return "", fmt.Errorf("failed to back up current store before restore: %w", err)
		}
		safety = info.Path
	}

	tempPath := m.storePath + ".restore.tmp"
	if err := copyFile(backupPath, tempPath); err != nil {
		return safety, fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tempPath, m.storePath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			logger.Warn("failed to remove temporary file", "path", tempPath, "error", removeErr)
		}
		return safety, fmt.Errorf("failed to restore store: %w", err)
	}

	logger.Info("backup restored", "from", backupPath, "safety", safety)
	return safety, nil
}

// Verify checks that a backup can be read back by the matching store.
func (m *Manager) Verify(path string) error {
	if !m.isSQLite() {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if len(data) > 0 && !json.Valid(data) {
			return fmt.Errorf("%s is not valid JSON", filepath.Base(path))
		}
		return nil
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

// vacuumInto writes a compacted copy of a SQLite database, falling back to a
// plain copy when VACUUM INTO is unavailable.
func vacuumInto(src, dst string) error {
	db, err := sql.Open("sqlite", src+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}

	if _, err := db.Exec("VACUUM INTO ?", dst); err != nil {
		logger.Debug("VACUUM INTO failed, copying file", "error", err)
		db.Close()
		return copyFile(src, dst)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
