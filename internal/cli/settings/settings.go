package settings

import (
	"fmt"

	"github.com/julianstephens/readlit/internal/cli"
	"github.com/julianstephens/readlit/internal/ledger"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Year         *int     `help:"Goal year."`
	BooksGoal    *int     `help:"Books to finish in the goal year."`
	MinutesGoal  *int     `help:"Minutes to read in the goal year (0 disables year pacing)."`
	PagesPerHour *float64 `name:"pph" help:"Reading speed in pages per hour."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}
	settings := l.Settings()

	updated := false
	if c.Year != nil {
		settings.Year = *c.Year
		updated = true
	}
	if c.BooksGoal != nil {
		settings.BooksGoal = *c.BooksGoal
		updated = true
	}
	if c.MinutesGoal != nil {
		settings.MinutesGoal = *c.MinutesGoal
		updated = true
	}
	if c.PagesPerHour != nil {
		settings.PagesPerHour = *c.PagesPerHour
		updated = true
	}

	if updated {
		err := ctx.Mutate(func(l *ledger.Ledger) error { return l.SaveSettings(settings) })
		if err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		ctx.Println("Settings updated successfully.")
	}

	if c.List || !updated {
		current := l.Settings()
		ctx.Println("Current Settings:")
		ctx.Printf("  Year:           %d\n", current.Year)
		ctx.Printf("  Books Goal:     %d\n", current.BooksGoal)
		ctx.Printf("  Minutes Goal:   %s\n", cli.Thousands(current.MinutesGoal))
		ctx.Printf("  Pages Per Hour: %g\n", current.PagesPerHour)
	}
	return nil
}
