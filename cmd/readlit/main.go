package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/readlit/internal/cli"
	"github.com/julianstephens/readlit/internal/cli/backups"
	"github.com/julianstephens/readlit/internal/cli/books"
	"github.com/julianstephens/readlit/internal/cli/dashboard"
	"github.com/julianstephens/readlit/internal/cli/data"
	"github.com/julianstephens/readlit/internal/cli/logs"
	"github.com/julianstephens/readlit/internal/cli/settings"
	"github.com/julianstephens/readlit/internal/cli/system"
	"github.com/julianstephens/readlit/internal/constants"
	"github.com/julianstephens/readlit/internal/errors"
	"github.com/julianstephens/readlit/internal/logger"
	"github.com/julianstephens/readlit/internal/metrics"
	"github.com/julianstephens/readlit/internal/storage"
)

type CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Store path. Paths ending in .json use a plain JSON file, anything else SQLite." type:"string" default:"${config}" env:"READLIT_CONFIG"`
	Timezone string `help:"IANA timezone used to decide what 'today' is." default:"${timezone}" env:"READLIT_TIMEZONE"`
	Policy   string `help:"How minutes are attributed to books: per-book or proportional." enum:"per-book,proportional" default:"per-book" env:"READLIT_POLICY"`
	Debug    bool   `help:"Mirror log output to stderr at debug level."`

	Dashboard dashboard.DashboardCmd `cmd:"" help:"Show goals, pace and books needing attention." default:"1"`
	Init      system.InitCmd         `cmd:"" help:"Initialize readlit storage."`
	Migrate   system.MigrateCmd      `cmd:"" help:"Run database migrations."`
	Doctor    system.DoctorCmd       `cmd:"" help:"Run health checks and diagnostics."`
	Validate  system.ValidateCmd     `cmd:"" help:"Check stored data for conflicts."`
	Inspect   system.DebugCmd        `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Settings  settings.SettingsCmd   `cmd:"" help:"Show or change goals and reading speed."`
	Book      struct {
		Add    books.BookAddCmd    `cmd:"" help:"Add a book."`
		List   books.BookListCmd   `cmd:"" help:"List books with their status." default:"1"`
		Show   books.BookShowCmd   `cmd:"" help:"Show one book and its logs."`
		Start  books.BookStartCmd  `cmd:"" help:"Mark a book as currently reading."`
		Finish books.BookFinishCmd `cmd:"" help:"Mark a book as finished."`
		Reset  books.BookResetCmd  `cmd:"" help:"Mark a book as not started."`
		State  books.BookStateCmd  `cmd:"" help:"Set a book's reading state."`
		Delete books.BookDeleteCmd `cmd:"" help:"Delete a book and its logs."`
	} `cmd:"" help:"Manage books."`
	Log struct {
		Add    logs.LogAddCmd    `cmd:"" help:"Log reading minutes."`
		List   logs.LogListCmd   `cmd:"" help:"List minute logs." default:"1"`
		Delete logs.LogDeleteCmd `cmd:"" help:"Delete a minute log."`
	} `cmd:"" help:"Manage reading logs."`
	Progress struct {
		Add    logs.ProgressAddCmd    `cmd:"" help:"Record the page you are on."`
		List   logs.ProgressListCmd   `cmd:"" help:"List page checkpoints." default:"1"`
		Delete logs.ProgressDeleteCmd `cmd:"" help:"Delete a page checkpoint."`
	} `cmd:"" help:"Manage page checkpoints."`
	Export data.ExportCmd `cmd:"" help:"Export all data as JSON."`
	Import data.ImportCmd `cmd:"" help:"Replace all data from a JSON export."`
	Reset  data.ResetCmd  `cmd:"" help:"Erase all data."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage store backups."`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args, executes the selected command and returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	var c CLI
	parser, err := kong.New(&c,
		kong.Name(constants.AppName),
		kong.Description("Reading goals and pace tracker"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":  constants.Version,
			"config":   constants.DefaultConfigPath,
			"timezone": constants.DefaultTimezone,
		},
	)
	if err != nil {
		errors.Report(stderr, err)
		return 1
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		errors.Report(stderr, err)
		return 2
	}

	store := storage.NewProvider(c.Config)
	defer store.Close()

	if err := logger.Init(logger.Config{
		Debug:     c.Debug,
		ConfigDir: filepath.Dir(store.GetConfigPath()),
		Stderr:    stderr,
	}); err != nil {
		fmt.Fprintf(stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	logger.Debug("starting", "command", kctx.Command(), "store", store.GetConfigPath())

	policy, err := metrics.ParseAllocationPolicy(c.Policy)
	if err != nil {
		errors.Report(stderr, err)
		return 1
	}

	appCtx := &cli.Context{
		Store:    store,
		Timezone: c.Timezone,
		Policy:   policy,
		Out:      stdout,
	}

	// Init opens the store itself; doctor reports a store that fails to open.
	if sel := kctx.Selected(); sel == nil || (sel.Name != "init" && sel.Name != "doctor") {
		if err := store.Load(); err != nil {
			errors.Report(stderr, err)
			return 1
		}
	}

	if err := kctx.Run(appCtx); err != nil {
		errors.Report(stderr, err)
		return 1
	}
	return 0
}
