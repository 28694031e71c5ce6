package data

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/readlit/internal/cli"
	"github.com/julianstephens/readlit/internal/constants"
	"github.com/julianstephens/readlit/internal/ledger"
	"github.com/julianstephens/readlit/internal/logger"
	"github.com/julianstephens/readlit/internal/storage"
)

type ExportCmd struct {
	Output string `arg:"" optional:"" help:"File to write (default data.json, - for stdout)."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}
	data, err := l.Export()
	if err != nil {
		return err
	}

	if c.Output == "-" {
		ctx.Println(string(data))
		return nil
	}

	path := c.Output
	if path == "" {
		path = constants.DefaultExportFile
	}
	path = storage.ExpandPath(path)
	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	logger.Info("snapshot exported", "path", path)
	ctx.Printf("✓ Exported to %s\n", path)
	return nil
}

type ImportCmd struct {
	File string `arg:"" type:"existingfile" help:"Snapshot JSON to import (v1 or v2)."`
	Yes  bool   `short:"y" help:"Replace current data without asking."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	raw, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}

	// Parse before prompting so a bad file never touches stored data.
	incoming := ledger.Empty()
	if err := incoming.Import(raw); err != nil {
		return err
	}
	snap := incoming.Snapshot()

	ok, err := ctx.Ask(c.Yes, "Replace all reading data?",
		fmt.Sprintf("%s holds %d books, %d logs and %d progress entries.", filepath.Base(c.File), len(snap.Books), len(snap.Logs), len(snap.Progress)))
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Import cancelled.")
		return nil
	}

	// The stored snapshot is never read, so an unreadable store can be recovered.
	ctx.PerformAutomaticBackup()
	if err := ctx.Replace(incoming); err != nil {
		return err
	}

	logger.Info("snapshot imported", "file", c.File, "books", len(snap.Books))
	ctx.Printf("✓ Imported %d books, %d logs, %d progress entries\n", len(snap.Books), len(snap.Logs), len(snap.Progress))
	return nil
}

type ResetCmd struct {
	Yes   bool `short:"y" help:"Reset without asking."`
	Empty bool `help:"Start from an empty ledger instead of the bundled defaults."`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	ok, err := ctx.Ask(c.Yes, "Erase all reading data?", "A backup is taken first and can be restored with 'backup restore'.")
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Reset cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.Reset(); err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}
	ctx.Forget()

	if c.Empty {
		if err := ctx.Replace(ledger.Empty()); err != nil {
			return err
		}
	} else if _, err := ctx.Ledger(); err != nil {
		return err
	}

	logger.Info("store reset", "empty", c.Empty)
	ctx.Println("✓ Reading data reset.")
	return nil
}
