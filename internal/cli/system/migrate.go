package system

import (
	"fmt"

	"github.com/julianstephens/readlit/internal/cli"
	"github.com/julianstephens/readlit/internal/storage"
)

// MigrateCmd brings the schema up to date and reports its version. Opening
// the store applies pending migrations, so Load does the work.
type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*storage.SQLiteStore)
	if !ok {
		return fmt.Errorf("migrate command only supports SQLite storage")
	}

	if err := sqliteStore.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	status, err := sqliteStore.SchemaStatus()
	if err != nil {
		return err
	}

	if status.Pending() > 0 {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", status.Current, status.Latest)
	}
	ctx.Printf("Database is up to date (schema version %d).\n", status.Current)
	return nil
}
