package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/readlit/internal/cli"
	"github.com/julianstephens/readlit/internal/ledger"
	"github.com/julianstephens/readlit/internal/logger"
	"github.com/julianstephens/readlit/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing store before initialization."`
	Source string `help:"Store (.db or .json) or exported snapshot to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		path := ctx.Store.GetConfigPath()
		if c.Source != "" && samePath(c.Source, path) {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", path)
		}
		if _, err := os.Stat(path); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing store: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing store: %w", err)
			}
			ctx.Forget()
			ctx.Printf("Deleted existing store at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing store: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized readlit storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyFrom(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
		return nil
	}

	// Seeds the store with the bundled defaults when it is empty.
	_, err := ctx.Ledger()
	return err
}

func (c *InitCmd) copyFrom(ctx *cli.Context) error {
	source := storage.NewProvider(c.Source)
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source store: %w", err)
	}
	defer source.Close()

	raw, err := source.LoadSnapshot()
	if errors.Is(err, storage.ErrNoSnapshot) {
		return fmt.Errorf("source %s holds no data", c.Source)
	}
	if err != nil {
		return err
	}

	l, err := ledger.Load(raw)
	if err != nil {
		return err
	}
	if err := ctx.Replace(l); err != nil {
		return err
	}

	snap := l.Snapshot()
	logger.Info("store copied", "source", c.Source, "books", len(snap.Books), "logs", len(snap.Logs))
	ctx.Printf("  Copied %d books, %d logs, %d progress entries\n", len(snap.Books), len(snap.Logs), len(snap.Progress))
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(storage.ExpandPath(a))
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
