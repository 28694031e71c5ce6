package books

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/readlit/internal/cli"
	"github.com/julianstephens/readlit/internal/ledger"
	"github.com/julianstephens/readlit/internal/logger"
	"github.com/julianstephens/readlit/internal/metrics"
	"github.com/julianstephens/readlit/internal/models"
)

type BookAddCmd struct {
	Title  string `arg:"" help:"Book title."`
	Pages  int    `help:"Total pages (0 if unknown)." default:"0"`
	Start  string `help:"Start date (YYYY-MM-DD, today, yesterday)." default:"today"`
	Finish string `help:"Target finish date (YYYY-MM-DD)." required:""`
	Active bool   `help:"Mark the book as currently reading."`
}

func (c *BookAddCmd) Run(ctx *cli.Context) error {
	start, err := ctx.ResolveDate(c.Start)
	if err != nil {
		return err
	}
	finish, err := ctx.ResolveDate(c.Finish)
	if err != nil {
		return err
	}

	var book models.Book
	err = ctx.Mutate(func(l *ledger.Ledger) error {
		book, err = l.AddBook(ledger.BookInput{
			Title:      c.Title,
			TotalPages: c.Pages,
			StartDate:  start,
			FinishDate: finish,
		})
		if err != nil {
			return err
		}
		if c.Active {
			if err := l.StartReading(book.ID); err != nil {
				return err
			}
			book.State = models.StateActive
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("book added", "id", book.ID, "title", book.Title)
	ctx.Printf("Added book: %s (%s)\n", book.Title, cli.ShortID(book.ID))
	return nil
}

type BookListCmd struct {
	All  bool   `help:"Include finished books."`
	Sort string `help:"Order by target finish date or title." enum:"finish,title" default:"finish"`
}

func (c *BookListCmd) Run(ctx *cli.Context) error {
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}
	engine, err := ctx.Engine()
	if err != nil {
		return err
	}

	books := l.Books()
	if c.Sort == "title" {
		books = l.BooksByTitle()
	}

	var summaries []metrics.BookSummary
	for _, book := range books {
		if book.Finished() && !c.All {
			continue
		}
		summaries = append(summaries, engine.Summary(l, book))
	}
	if len(summaries) == 0 {
		ctx.Println("No books yet.")
		return nil
	}
	if c.Sort != "title" {
		metrics.SortByFinishDate(summaries)
	}

	t := cli.NewTable("ID", "Title", "State", "Finish", "Pages", "Left", "Need/day", "Status")
	for _, s := range summaries {
		t.Row(
			cli.ShortID(s.Book.ID),
			s.Book.Title,
			string(s.Book.State),
			cli.DateOrDash(s.Book.FinishDate),
			strconv.Itoa(s.Book.TotalPages),
			strconv.Itoa(s.PagesRemaining),
			strconv.Itoa(s.RequiredMinutesPerDay),
			cli.StatusBadge(s.Status),
		)
	}
	ctx.Println(t.String())
	return nil
}

type BookShowCmd struct {
	Book string `arg:"" help:"Book id, id prefix, or title."`
}

func (c *BookShowCmd) Run(ctx *cli.Context) error {
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}
	book, err := l.FindBook(c.Book)
	if err != nil {
		return err
	}
	engine, err := ctx.Engine()
	if err != nil {
		return err
	}
	s := engine.Summary(l, book)

	ctx.Println(cli.TitleStyle.Render(book.Title) + " " + cli.StatusBadge(s.Status))
	ctx.Println(cli.MutedStyle.Render(book.ID))
	ctx.Printf("State:          %s\n", book.State)
	ctx.Printf("Dates:          %s → %s (%d day(s) left)\n", cli.DateOrDash(book.StartDate), cli.DateOrDash(book.FinishDate), s.DaysRemaining)
	ctx.Printf("Pages:          %d read, %d left of %d\n", s.PagesRead, s.PagesRemaining, book.TotalPages)
	ctx.Printf("Minutes read:   %d\n", s.MinutesRead)
	ctx.Printf("Minutes left:   %d (estimated)\n", s.EstimatedMinutesRemaining)
	ctx.Printf("Pace:           need %d min/day, actual %d min/day (%s)\n", s.RequiredMinutesPerDay, s.ActualMinutesPerDay, engine.Policy())

	logs := l.FilterLogs(ledger.LogFilter{BookID: book.ID})
	if len(logs) > 0 {
		ctx.Println()
		t := cli.NewTable("Date", "Minutes", "Pages")
		for _, entry := range logs {
			t.Row(entry.Date, strconv.Itoa(entry.Minutes), strconv.Itoa(entry.Pages))
		}
		ctx.Println(t.String())
	}
	return nil
}

type BookDeleteCmd struct {
	Book string `arg:"" help:"Book id, id prefix, or title."`
	Yes  bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *BookDeleteCmd) Run(ctx *cli.Context) error {
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}
	book, err := l.FindBook(c.Book)
	if err != nil {
		return err
	}

	ok, err := ctx.Ask(c.Yes,
		fmt.Sprintf("Delete %q?", book.Title),
		"Its logs and progress entries are deleted too.")
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Delete cancelled.")
		return nil
	}

	if err := ctx.Mutate(func(l *ledger.Ledger) error { return l.DeleteBook(book.ID) }); err != nil {
		return err
	}
	logger.Info("book deleted", "id", book.ID)
	ctx.Printf("Deleted book: %s\n", book.Title)
	return nil
}

// setState applies a state transition to the referenced book.
func setState(ctx *cli.Context, ref string, transition func(*ledger.Ledger, string) error) error {
	var before, after models.Book
	err := ctx.Mutate(func(l *ledger.Ledger) error {
		var err error
		before, err = l.FindBook(ref)
		if err != nil {
			return err
		}
		if err := transition(l, before.ID); err != nil {
			return err
		}
		after, err = l.Book(before.ID)
		return err
	})
	if err != nil {
		return err
	}
	ctx.Printf("%s: %s → %s\n", before.Title, before.State, after.State)
	return nil
}

type BookStartCmd struct {
	Book string `arg:"" help:"Book id, id prefix, or title."`
}

func (c *BookStartCmd) Run(ctx *cli.Context) error {
	return setState(ctx, c.Book, (*ledger.Ledger).StartReading)
}

type BookFinishCmd struct {
	Book string `arg:"" help:"Book id, id prefix, or title."`
}

func (c *BookFinishCmd) Run(ctx *cli.Context) error {
	return setState(ctx, c.Book, (*ledger.Ledger).FinishBook)
}

type BookResetCmd struct {
	Book string `arg:"" help:"Book id, id prefix, or title."`
}

func (c *BookResetCmd) Run(ctx *cli.Context) error {
	return setState(ctx, c.Book, (*ledger.Ledger).ResetBook)
}

type BookStateCmd struct {
	Book  string `arg:"" help:"Book id, id prefix, or title."`
	State string `arg:"" help:"One of not_started, active, finished."`
}

func (c *BookStateCmd) Run(ctx *cli.Context) error {
	state, err := models.ParseReadingState(c.State)
	if err != nil {
		return err
	}
	return setState(ctx, c.Book, func(l *ledger.Ledger, id string) error {
		return l.SetState(id, state)
	})
}
