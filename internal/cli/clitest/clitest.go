// Package clitest builds command contexts backed by throwaway stores.
package clitest

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/readlit/internal/cli"
	"github.com/julianstephens/readlit/internal/ledger"
	"github.com/julianstephens/readlit/internal/metrics"
	"github.com/julianstephens/readlit/internal/storage"
)

// Today is the date every test context treats as today.
const Today = "2026-03-10"

// ErrUnexpectedPrompt is returned by the default Confirm stub.
var ErrUnexpectedPrompt = errors.New("unexpected confirmation prompt")

// NewContext returns a context over an initialized SQLite store in a temp
// dir, with output captured in the returned buffer.
func NewContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	return NewContextAt(t, filepath.Join(t.TempDir(), "readlit.db"))
}

// NewContextAt is NewContext for a caller-chosen store path. A .json path
// gets the JSON store.
func NewContextAt(t *testing.T, path string) (*cli.Context, *bytes.Buffer) {
	t.Helper()

	store := storage.NewProvider(path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store:    store,
		Timezone: "UTC",
		Policy:   metrics.PerBookActual,
		Out:      out,
		Now: func() time.Time {
			return time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
		},
		Confirm: func(string, string) (bool, error) {
			return false, ErrUnexpectedPrompt
		},
	}
	return ctx, out
}

// Answer makes every confirmation prompt return ok.
func Answer(ctx *cli.Context, ok bool) {
	ctx.Confirm = func(string, string) (bool, error) { return ok, nil }
}

// Stored reads the snapshot back from the store, bypassing the session cache.
func Stored(t *testing.T, ctx *cli.Context) *ledger.Ledger {
	t.Helper()
	raw, err := ctx.Store.LoadSnapshot()
	if err != nil {
		t.Fatalf("failed to load stored snapshot: %v", err)
	}
	l, err := ledger.Load(raw)
	if err != nil {
		t.Fatalf("stored snapshot is unreadable: %v", err)
	}
	return l
}

// Seed stores l as the session ledger.
func Seed(t *testing.T, ctx *cli.Context, l *ledger.Ledger) {
	t.Helper()
	if err := ctx.Replace(l); err != nil {
		t.Fatalf("failed to seed ledger: %v", err)
	}
}
