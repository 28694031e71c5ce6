package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/readlit/internal/backup"
	"github.com/julianstephens/readlit/internal/cli"
	"github.com/julianstephens/readlit/internal/constants"
	"github.com/julianstephens/readlit/internal/ledger"
	"github.com/julianstephens/readlit/internal/storage"
	"github.com/julianstephens/readlit/internal/utils"
	"github.com/julianstephens/readlit/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name string
	// needsStore checks are skipped when the store cannot be opened.
	needsStore bool
	// warnOnly failures are reported but do not fail the run.
	warnOnly bool
	run      func(*cli.Context) error
}

const storeCheck = "Store reachable"

var checks = []check{
	{name: storeCheck, run: checkStoreReachable},
	{name: "Schema version", needsStore: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsStore: true, run: checkMigrationsComplete},
	{name: "Snapshot readable", needsStore: true, run: checkSnapshotReadable},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Data validation", needsStore: true, warnOnly: true, run: checkValidation},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	storeReachable := true
	for _, chk := range checks {
		if chk.needsStore && !storeReachable {
			ctx.Printf("⊘ %s: SKIPPED (store not reachable)\n", chk.name)
			continue
		}

		err := chk.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", chk.name)
		case chk.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", chk.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", chk.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			if chk.name == storeCheck {
				storeReachable = false
			}
		}
	}

	if storeReachable {
		printLastSaved(ctx)
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

// printLastSaved reports when the SQLite snapshot was last written.
func printLastSaved(ctx *cli.Context) {
	sqliteStore, ok := ctx.Store.(*storage.SQLiteStore)
	if !ok {
		return
	}
	updated, err := sqliteStore.UpdatedAt()
	if err != nil {
		return
	}
	ctx.Printf("\nLast saved: %s\n", updated.Format(time.RFC3339))
}

func checkStoreReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}

	if sqliteStore, ok := ctx.Store.(*storage.SQLiteStore); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*storage.SQLiteStore)
	if !ok {
		// JSON store doesn't have schema version
		return nil
	}
	status, err := sqliteStore.SchemaStatus()
	if err != nil {
		return err
	}
	if status.TooNew() {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", status.Current, status.Latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*storage.SQLiteStore)
	if !ok {
		return nil
	}
	status, err := sqliteStore.SchemaStatus()
	if err != nil {
		return err
	}
	if status.Pending() > 0 {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", status.Current, status.Latest)
	}
	return nil
}

// storedLedger reads the snapshot straight from the store, bypassing the
// session cache and the seeding done by Context.Ledger.
func storedLedger(ctx *cli.Context) (*ledger.Ledger, error) {
	raw, err := ctx.Store.LoadSnapshot()
	if errors.Is(err, storage.ErrNoSnapshot) {
		return ledger.Empty(), nil
	}
	if err != nil {
		return nil, err
	}
	return ledger.Load(raw)
}

func checkSnapshotReadable(ctx *cli.Context) error {
	if _, err := storedLedger(ctx); err != nil {
		return fmt.Errorf("stored snapshot is unreadable: %w", err)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	l, err := storedLedger(ctx)
	if err != nil {
		return err
	}
	result := validation.New().Validate(l.Snapshot())
	if result.HasConflicts() {
		return fmt.Errorf("%d conflicts found - run '%s validate' for details", len(result.Conflicts), constants.AppName)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if ctx.Now != nil {
		now = ctx.Now()
	}
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if !utils.ValidateTimezone(ctx.Timezone) {
		return fmt.Errorf("unknown timezone %q", ctx.Timezone)
	}
	return nil
}
