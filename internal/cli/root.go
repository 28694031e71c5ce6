package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/readlit/internal/backup"
	"github.com/julianstephens/readlit/internal/ledger"
	"github.com/julianstephens/readlit/internal/logger"
	"github.com/julianstephens/readlit/internal/metrics"
	"github.com/julianstephens/readlit/internal/storage"
	"github.com/julianstephens/readlit/internal/utils"
)

// Context is shared by every command. It owns the session's ledger: the
// first call to Ledger loads it and each mutating command calls Save.
type Context struct {
	Store    storage.Provider
	Timezone string
	Policy   metrics.AllocationPolicy

	// Out receives command output. Defaults to os.Stdout.
	Out io.Writer
	// Now overrides the wall clock in tests.
	Now func() time.Time
	// Confirm asks a yes/no question. Defaults to a huh prompt.
	Confirm func(title, description string) (bool, error)

	ledger *ledger.Ledger
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

// Today returns the current calendar date in the configured timezone.
func (c *Context) Today() (string, error) {
	loc, err := utils.LoadLocation(c.Timezone)
	if err != nil {
		return "", fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}
	return utils.DateOf(now, loc), nil
}

// ResolveDate accepts YYYY-MM-DD, "today", "yesterday", or an empty string
// (today).
func (c *Context) ResolveDate(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return c.Today()
	case "yesterday":
		today, err := c.Today()
		if err != nil {
			return "", err
		}
		return utils.AddDays(today, -1)
	}
	if !utils.ValidateDate(s) {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return s, nil
}

// Engine builds a metrics engine pinned to today.
func (c *Context) Engine() (*metrics.Engine, error) {
	today, err := c.Today()
	if err != nil {
		return nil, err
	}
	return metrics.New(c.Policy, today), nil
}

// Ledger loads the stored snapshot, or seeds the store with the bundled
// default when nothing has been saved yet. Either way the result is
// normalized.
func (c *Context) Ledger() (*ledger.Ledger, error) {
	if c.ledger != nil {
		return c.ledger, nil
	}

	raw, err := c.Store.LoadSnapshot()
	switch {
	case errors.Is(err, storage.ErrNoSnapshot):
		logger.Info("no stored snapshot, seeding from bundled data")
		c.ledger = ledger.New(storage.DefaultSnapshot())
		if err := c.Save(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		l, err := ledger.Load(raw)
		if err != nil {
			return nil, fmt.Errorf("stored snapshot is unreadable (restore a backup or import an export): %w", err)
		}
		c.ledger = l
	}

	return c.ledger, nil
}

// Save persists the session ledger.
func (c *Context) Save() error {
	if c.ledger == nil {
		return nil
	}
	data, err := c.ledger.Export()
	if err != nil {
		return err
	}
	if err := c.Store.SaveSnapshot(data); err != nil {
		return err
	}
	logger.Debug("snapshot saved", "bytes", len(data))
	return nil
}

// Forget drops the cached ledger so the next call to Ledger reloads it.
func (c *Context) Forget() {
	c.ledger = nil
}

// Replace swaps in a new session ledger and saves it.
func (c *Context) Replace(l *ledger.Ledger) error {
	c.ledger = l
	return c.Save()
}

// Mutate loads the ledger, applies fn, and saves only if fn succeeds.
func (c *Context) Mutate(fn func(*ledger.Ledger) error) error {
	l, err := c.Ledger()
	if err != nil {
		return err
	}
	if err := fn(l); err != nil {
		return err
	}
	return c.Save()
}

// PerformAutomaticBackup creates a backup and logs instead of failing.
func (c *Context) PerformAutomaticBackup() {
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Ask runs the configured confirmation prompt. Yes skips it.
func (c *Context) Ask(yes bool, title, description string) (bool, error) {
	if yes {
		return true, nil
	}
	confirm := c.Confirm
	if confirm == nil {
		confirm = promptConfirm
	}
	return confirm(title, description)
}

func promptConfirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}
