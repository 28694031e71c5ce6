package logs

import (
	"strconv"

	"github.com/julianstephens/readlit/internal/cli"
	"github.com/julianstephens/readlit/internal/ledger"
	"github.com/julianstephens/readlit/internal/logger"
	"github.com/julianstephens/readlit/internal/models"
)

type LogAddCmd struct {
	Minutes int    `arg:"" help:"Minutes read."`
	Pages   int    `help:"Pages read in this session." default:"0"`
	Book    string `help:"Book id, id prefix, or title. Omit to log the day's total."`
	Date    string `help:"Date (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *LogAddCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	var entry models.MinutesEntry
	var title string
	err = ctx.Mutate(func(l *ledger.Ledger) error {
		bookID := ""
		if c.Book != "" {
			book, err := l.FindBook(c.Book)
			if err != nil {
				return err
			}
			bookID = book.ID
		}
		var err error
		entry, err = l.AddMinutes(ledger.MinutesInput{
			Date:    date,
			Minutes: c.Minutes,
			Pages:   c.Pages,
			BookID:  bookID,
		})
		if err != nil {
			return err
		}
		title = l.BookTitle(bookID)
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("minutes logged", "id", entry.ID, "date", entry.Date, "minutes", entry.Minutes, "book", entry.BookID)
	ctx.Printf("Logged %d min, %d pages on %s (%s)\n", entry.Minutes, entry.Pages, entry.Date, title)
	return nil
}

type LogListCmd struct {
	Book  string `help:"Only entries for this book."`
	From  string `help:"Earliest date (YYYY-MM-DD), inclusive."`
	To    string `help:"Latest date (YYYY-MM-DD), inclusive."`
	Limit int    `help:"Show at most this many entries (0 for all)." default:"0"`
}

func (c *LogListCmd) Run(ctx *cli.Context) error {
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}

	filter := ledger.LogFilter{}
	if c.Book != "" {
		book, err := l.FindBook(c.Book)
		if err != nil {
			return err
		}
		filter.BookID = book.ID
	}
	if c.From != "" {
		if filter.From, err = ctx.ResolveDate(c.From); err != nil {
			return err
		}
	}
	if c.To != "" {
		if filter.To, err = ctx.ResolveDate(c.To); err != nil {
			return err
		}
	}

	entries := l.FilterLogs(filter)
	if c.Limit > 0 && len(entries) > c.Limit {
		entries = entries[:c.Limit]
	}
	if len(entries) == 0 {
		ctx.Println("No logs match.")
		return nil
	}

	t := cli.NewTable("ID", "Date", "Book", "Minutes", "Pages")
	total := 0
	for _, entry := range entries {
		total += entry.Minutes
		t.Row(cli.ShortID(entry.ID), entry.Date, l.BookTitle(entry.BookID), strconv.Itoa(entry.Minutes), strconv.Itoa(entry.Pages))
	}
	ctx.Println(t.String())
	ctx.Printf("%d entries, %s minutes\n", len(entries), cli.Thousands(total))
	return nil
}

type LogDeleteCmd struct {
	ID string `arg:"" help:"Log entry id."`
}

func (c *LogDeleteCmd) Run(ctx *cli.Context) error {
	id, err := resolveEntryID(ctx, c.ID, func(l *ledger.Ledger) []string {
		var ids []string
		for _, entry := range l.Logs() {
			ids = append(ids, entry.ID)
		}
		return ids
	})
	if err != nil {
		return err
	}
	if err := ctx.Mutate(func(l *ledger.Ledger) error { return l.DeleteLog(id) }); err != nil {
		return err
	}
	ctx.Printf("Deleted log entry %s\n", cli.ShortID(id))
	return nil
}
