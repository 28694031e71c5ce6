package system

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/julianstephens/readlit/internal/backup"
	"github.com/julianstephens/readlit/internal/cli"
	"github.com/julianstephens/readlit/internal/logger"
	"github.com/julianstephens/readlit/internal/models"
)

type DebugCmd struct {
	Paths    DebugPathsCmd    `cmd:"" help:"Show store, backup and log paths."`
	DumpBook DebugDumpBookCmd `cmd:"" help:"Dump a book and its derived metrics as JSON."`
	DumpYear DebugDumpYearCmd `cmd:"" help:"Dump year metrics as JSON."`
}

func printJSON(ctx *cli.Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}

type DebugPathsCmd struct{}

func (cmd *DebugPathsCmd) Run(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()
	return printJSON(ctx, map[string]string{
		"store":   path,
		"backups": backup.NewManager(path).Dir(),
		"log":     logger.LogFile(filepath.Dir(path)),
	})
}

type bookDump struct {
	Book                      models.Book `json:"book"`
	Status                    string      `json:"status"`
	PagesRead                 int         `json:"pagesRead"`
	PagesRemaining            int         `json:"pagesRemaining"`
	MinutesRead               int         `json:"minutesRead"`
	EstimatedMinutesRemaining int         `json:"estimatedMinutesRemaining"`
	DaysRemaining             int         `json:"daysRemaining"`
	RequiredMinutesPerDay     int         `json:"requiredMinutesPerDay"`
	ActualMinutesPerDay       int         `json:"actualMinutesPerDay"`
	Policy                    string      `json:"policy"`
	Today                     string      `json:"today"`
}

type DebugDumpBookCmd struct {
	Book string `arg:"" help:"Book id, id prefix, or title."`
}

func (cmd *DebugDumpBookCmd) Run(ctx *cli.Context) error {
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}
	book, err := l.FindBook(cmd.Book)
	if err != nil {
		return err
	}
	engine, err := ctx.Engine()
	if err != nil {
		return err
	}

	s := engine.Summary(l, book)
	return printJSON(ctx, bookDump{
		Book:                      s.Book,
		Status:                    string(s.Status),
		PagesRead:                 s.PagesRead,
		PagesRemaining:            s.PagesRemaining,
		MinutesRead:               s.MinutesRead,
		EstimatedMinutesRemaining: s.EstimatedMinutesRemaining,
		DaysRemaining:             s.DaysRemaining,
		RequiredMinutesPerDay:     s.RequiredMinutesPerDay,
		ActualMinutesPerDay:       s.ActualMinutesPerDay,
		Policy:                    engine.Policy().String(),
		Today:                     engine.Today(),
	})
}

type DebugDumpYearCmd struct{}

func (cmd *DebugDumpYearCmd) Run(ctx *cli.Context) error {
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}
	engine, err := ctx.Engine()
	if err != nil {
		return err
	}

	y := engine.Year(l)
	alloc := engine.Allocation(l)
	shares := make(map[string]float64, len(alloc.Shares))
	for _, share := range alloc.Shares {
		shares[share.BookID] = share.MinutesPerDay
	}
	return printJSON(ctx, map[string]any{
		"today":               engine.Today(),
		"year":                y.Year,
		"elapsedDays":         y.Elapsed,
		"totalDays":           y.TotalDays,
		"minutesDone":         y.MinutesDone,
		"minutesGoal":         y.MinutesGoal,
		"minutesPerDay":       y.MinutesPerDay,
		"minutesPerDayTarget": y.MinutesPerDayTarget,
		"pace":                y.Pace,
		"booksFinished":       y.Finished,
		"booksGoal":           y.BooksGoal,
		"booksPlanned":        y.Planned,
		"streak":              engine.Streak(l),
		"minutesThisWeek":     engine.MinutesThisWeek(l),
		"allocationPool":      alloc.Pool,
		"allocation":          shares,
	})
}

