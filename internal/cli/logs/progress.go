package logs

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/julianstephens/readlit/internal/cli"
	"github.com/julianstephens/readlit/internal/ledger"
	"github.com/julianstephens/readlit/internal/models"
)

type ProgressAddCmd struct {
	Book string `arg:"" help:"Book id, id prefix, or title."`
	Page int    `arg:"" help:"Current page."`
	Date string `help:"Date (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *ProgressAddCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	var book models.Book
	err = ctx.Mutate(func(l *ledger.Ledger) error {
		var err error
		if book, err = l.FindBook(c.Book); err != nil {
			return err
		}
		_, err = l.AddProgress(ledger.ProgressInput{Date: date, BookID: book.ID, CurrentPage: c.Page})
		return err
	})
	if err != nil {
		return err
	}

	if book.TotalPages > 0 {
		ctx.Printf("%s: page %d of %d on %s\n", book.Title, min(c.Page, book.TotalPages), book.TotalPages, date)
	} else {
		ctx.Printf("%s: page %d on %s\n", book.Title, c.Page, date)
	}
	return nil
}

type ProgressListCmd struct {
	Book string `help:"Only checkpoints for this book."`
}

func (c *ProgressListCmd) Run(ctx *cli.Context) error {
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}

	bookID := ""
	if c.Book != "" {
		book, err := l.FindBook(c.Book)
		if err != nil {
			return err
		}
		bookID = book.ID
	}

	var entries []models.ProgressEntry
	for _, entry := range l.Progress() {
		if bookID == "" || entry.BookID == bookID {
			entries = append(entries, entry)
		}
	}
	if len(entries) == 0 {
		ctx.Println("No progress checkpoints.")
		return nil
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date > entries[j].Date })

	t := cli.NewTable("ID", "Date", "Book", "Page")
	for _, entry := range entries {
		t.Row(cli.ShortID(entry.ID), entry.Date, l.BookTitle(entry.BookID), strconv.Itoa(entry.CurrentPage))
	}
	ctx.Println(t.String())
	return nil
}

type ProgressDeleteCmd struct {
	ID string `arg:"" help:"Progress entry id."`
}

func (c *ProgressDeleteCmd) Run(ctx *cli.Context) error {
	id, err := resolveEntryID(ctx, c.ID, func(l *ledger.Ledger) []string {
		var ids []string
		for _, entry := range l.Progress() {
			ids = append(ids, entry.ID)
		}
		return ids
	})
	if err != nil {
		return err
	}
	if err := ctx.Mutate(func(l *ledger.Ledger) error { return l.DeleteProgress(id) }); err != nil {
		return err
	}
	ctx.Printf("Deleted progress entry %s\n", cli.ShortID(id))
	return nil
}

// resolveEntryID expands a unique id prefix, as printed by the list commands.
// Unknown ids pass through so the ledger reports them as not found.
func resolveEntryID(ctx *cli.Context, ref string, ids func(*ledger.Ledger) []string) (string, error) {
	l, err := ctx.Ledger()
	if err != nil {
		return "", err
	}

	var matches []string
	for _, id := range ids(l) {
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) {
			matches = append(matches, id)
		}
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("id prefix %q matches %d entries", ref, len(matches))
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	return ref, nil
}
