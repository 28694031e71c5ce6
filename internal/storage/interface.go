package storage

import "errors"

// ErrNoSnapshot is returned by LoadSnapshot when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no snapshot stored")

// Provider persists the ledger snapshot as one opaque JSON document.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Snapshot
	LoadSnapshot() ([]byte, error)
	SaveSnapshot(data []byte) error
	Reset() error

	// Utils
	GetConfigPath() string
}
