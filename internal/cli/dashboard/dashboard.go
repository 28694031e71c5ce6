package dashboard

import (
	"fmt"
	"strings"

	"github.com/julianstephens/readlit/internal/cli"
	"github.com/julianstephens/readlit/internal/logger"
	"github.com/julianstephens/readlit/internal/metrics"
)

const barWidth = 24

type DashboardCmd struct{}

func (c *DashboardCmd) Run(ctx *cli.Context) error {
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}
	engine, err := ctx.Engine()
	if err != nil {
		return err
	}

	d := engine.Dashboard(l)
	logger.Debug("dashboard computed", "today", d.Today, "policy", d.Policy, "books", len(d.Current))
	settings := l.Settings()

	ctx.Println(cli.TitleStyle.Render(fmt.Sprintf("Reading %d", d.Year.Year)) +
		cli.MutedStyle.Render(fmt.Sprintf("  day %d of %d • %s • %g p/h • %s", d.Year.Elapsed, d.Year.TotalDays, d.Today, settings.PagesPerHour, d.Policy)))
	ctx.Println()

	ctx.Printf("Books    %s %d / %d  (%s)  %d planned\n",
		cli.Bar(d.Year.BooksPct, barWidth), d.Year.Finished, d.Year.BooksGoal, cli.Percent(d.Year.BooksPct), d.Year.Planned)
	ctx.Printf("Minutes  %s %s / %s  (%s)  avg %d min/day\n",
		cli.Bar(d.Year.MinutesPct, barWidth), cli.Thousands(d.Year.MinutesDone), cli.Thousands(d.Year.MinutesGoal),
		cli.Percent(d.Year.MinutesPct), d.Year.MinutesPerDay)

	if d.Year.Pace == metrics.PaceNotApplicable {
		ctx.Println(cli.MutedStyle.Render("Set a minutes goal to enable year pacing."))
	} else {
		ctx.Printf("Year pace: %s • Target %d min/day\n", cli.PaceBadge(d.Year.Pace), d.Year.MinutesPerDayTarget)
	}
	ctx.Printf("Streak: %d day(s) • This week: %d min • Behind: %d • On track: %d\n",
		d.Streak, d.WeekMinutes, d.BehindCount, d.OnTrackCount)
	ctx.Println()

	ctx.Println(cli.TitleStyle.Render("Needs attention"))
	if len(d.Behind) == 0 {
		ctx.Println(cli.MutedStyle.Render("No fires today. Keep it that way."))
	}
	for _, s := range d.Behind {
		ctx.Printf("  %s %s\n", s.Book.Title, cli.StatusBadge(s.Status))
		ctx.Println("    " + cli.MutedStyle.Render(bookLine(s)))
	}
	ctx.Println()

	ctx.Println(cli.TitleStyle.Render("Currently reading"))
	if len(d.Current) == 0 {
		ctx.Println(cli.MutedStyle.Render("Add a book to start tracking."))
	}
	for _, s := range d.Current {
		ctx.Printf("  %s %s\n", s.Book.Title, cli.StatusBadge(s.Status))
		ctx.Println("    " + cli.MutedStyle.Render(bookLine(s)))
	}
	ctx.Println()

	ctx.Println(cli.TitleStyle.Render("Recent logs"))
	if len(d.Recent) == 0 {
		ctx.Println(cli.MutedStyle.Render("No logs yet. Add today's minutes."))
	}
	for _, line := range d.Recent {
		ctx.Printf("  %s  %-24s %d min • %d pages\n", line.Entry.Date, line.BookTitle, line.Entry.Minutes, line.Entry.Pages)
	}

	return nil
}

func bookLine(s metrics.BookSummary) string {
	parts := []string{
		"Finish " + cli.DateOrDash(s.Book.FinishDate),
		fmt.Sprintf("Need %d min/day", s.RequiredMinutesPerDay),
		fmt.Sprintf("Actual %d min/day", s.ActualMinutesPerDay),
		fmt.Sprintf("Minutes: %d", s.MinutesRead),
		fmt.Sprintf("Pages left: %d", s.PagesRemaining),
	}
	return strings.Join(parts, " • ")
}
