package books

import (
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/readlit/internal/cli"
	"github.com/julianstephens/readlit/internal/cli/clitest"
	"github.com/julianstephens/readlit/internal/ledger"
	"github.com/julianstephens/readlit/internal/models"
)

func addBook(t *testing.T, ctx *cli.Context, title string) {
	t.Helper()
	cmd := &BookAddCmd{Title: title, Pages: 300, Start: "2026-03-01", Finish: "2026-03-31"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("book add %q failed: %v", title, err)
	}
}

func TestBookAddCmd(t *testing.T) {
	ctx, out := clitest.NewContext(t)

	cmd := &BookAddCmd{Title: "  Middlemarch ", Pages: 880, Start: "today", Finish: "2026-06-30", Active: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("book add failed: %v", err)
	}
	if !strings.Contains(out.String(), "Added book: Middlemarch") {
		t.Errorf("unexpected output: %q", out.String())
	}

	books := clitest.Stored(t, ctx).Books()
	if len(books) != 1 {
		t.Fatalf("stored books = %d, want 1", len(books))
	}
	got := books[0]
	if got.Title != "Middlemarch" || got.TotalPages != 880 || got.StartDate != clitest.Today || got.FinishDate != "2026-06-30" {
		t.Errorf("stored book = %+v", got)
	}
	if got.State != models.StateActive {
		t.Errorf("state = %s, want %s", got.State, models.StateActive)
	}
}

func TestBookAddCmd_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cmd  BookAddCmd
	}{
		{"finish before start", BookAddCmd{Title: "A", Start: "2026-03-10", Finish: "2026-03-01"}},
		{"bad finish", BookAddCmd{Title: "A", Start: "today", Finish: "someday"}},
		{"empty title", BookAddCmd{Title: " ", Start: "today", Finish: "2026-04-01"}},
		{"negative pages", BookAddCmd{Title: "A", Pages: -1, Start: "today", Finish: "2026-04-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := clitest.NewContext(t)
			if err := tt.cmd.Run(ctx); err == nil {
				t.Fatal("expected error")
			}
			if n := len(clitest.Stored(t, ctx).Books()); n != 0 {
				t.Errorf("invalid add stored %d books", n)
			}
		})
	}
}

func TestBookListCmd(t *testing.T) {
	ctx, out := clitest.NewContext(t)
	addBook(t, ctx, "Dune")
	addBook(t, ctx, "Emma")
	if err := (&BookFinishCmd{Book: "Emma"}).Run(ctx); err != nil {
		t.Fatalf("book finish failed: %v", err)
	}
	out.Reset()

	if err := (&BookListCmd{}).Run(ctx); err != nil {
		t.Fatalf("book list failed: %v", err)
	}
	if !strings.Contains(out.String(), "Dune") {
		t.Errorf("list is missing Dune:\n%s", out.String())
	}
	if strings.Contains(out.String(), "Emma") {
		t.Errorf("list should hide finished books without --all:\n%s", out.String())
	}

	out.Reset()
	if err := (&BookListCmd{All: true}).Run(ctx); err != nil {
		t.Fatalf("book list --all failed: %v", err)
	}
	if !strings.Contains(out.String(), "Emma") {
		t.Errorf("list --all is missing Emma:\n%s", out.String())
	}
}

func TestBookListCmd_Sort(t *testing.T) {
	ctx, out := clitest.NewContext(t)
	for _, cmd := range []*BookAddCmd{
		{Title: "zebra stripes", Pages: 100, Start: "2026-03-01", Finish: "2026-03-15"},
		{Title: "Anna Karenina", Pages: 864, Start: "2026-03-01", Finish: "2026-12-31"},
	} {
		if err := cmd.Run(ctx); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		sort        string
		first, last string
	}{
		{"finish", "zebra stripes", "Anna Karenina"},
		{"title", "Anna Karenina", "zebra stripes"},
	}
	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			out.Reset()
			if err := (&BookListCmd{Sort: tt.sort}).Run(ctx); err != nil {
				t.Fatalf("book list failed: %v", err)
			}
			first, last := strings.Index(out.String(), tt.first), strings.Index(out.String(), tt.last)
			if first < 0 || last < 0 || first > last {
				t.Errorf("want %q listed before %q:\n%s", tt.first, tt.last, out.String())
			}
		})
	}
}

func TestBookListCmd_Empty(t *testing.T) {
	ctx, out := clitest.NewContext(t)
	if err := (&BookListCmd{}).Run(ctx); err != nil {
		t.Fatalf("book list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No books yet.") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestBookShowCmd(t *testing.T) {
	ctx, out := clitest.NewContext(t)
	addBook(t, ctx, "Dune")
	l, err := ctx.Ledger()
	if err != nil {
		t.Fatal(err)
	}
	book, _ := l.FindBook("Dune")
	if _, err := l.AddMinutes(ledger.MinutesInput{Date: "2026-03-05", Minutes: 45, Pages: 20, BookID: book.ID}); err != nil {
		t.Fatal(err)
	}
	out.Reset()

	if err := (&BookShowCmd{Book: "dune"}).Run(ctx); err != nil {
		t.Fatalf("book show failed: %v", err)
	}
	for _, want := range []string{"Dune", book.ID, "Minutes read:   45", "2026-03-05"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("show output missing %q:\n%s", want, out.String())
		}
	}

	if err := (&BookShowCmd{Book: "Nope"}).Run(ctx); !errors.Is(err, ledger.ErrBookNotFound) {
		t.Errorf("show unknown book error = %v, want ErrBookNotFound", err)
	}
}

func TestBookDeleteCmd(t *testing.T) {
	ctx, out := clitest.NewContext(t)
	addBook(t, ctx, "Dune")

	clitest.Answer(ctx, false)
	if err := (&BookDeleteCmd{Book: "Dune"}).Run(ctx); err != nil {
		t.Fatalf("cancelled delete failed: %v", err)
	}
	if !strings.Contains(out.String(), "Delete cancelled.") {
		t.Errorf("unexpected output: %q", out.String())
	}
	if n := len(clitest.Stored(t, ctx).Books()); n != 1 {
		t.Fatalf("cancelled delete removed the book")
	}

	// --yes never prompts; this stub would fail the command if it did.
	ctx.Confirm = func(string, string) (bool, error) { return false, clitest.ErrUnexpectedPrompt }
	if err := (&BookDeleteCmd{Book: "Dune", Yes: true}).Run(ctx); err != nil {
		t.Fatalf("book delete failed: %v", err)
	}
	if n := len(clitest.Stored(t, ctx).Books()); n != 0 {
		t.Errorf("stored books = %d after delete, want 0", n)
	}
}

func TestBookStateCmds(t *testing.T) {
	ctx, _ := clitest.NewContext(t)
	addBook(t, ctx, "Dune")

	tests := []struct {
		name string
		cmd  interface{ Run(*cli.Context) error }
		want models.ReadingState
	}{
		{"start", &BookStartCmd{Book: "Dune"}, models.StateActive},
		{"finish", &BookFinishCmd{Book: "Dune"}, models.StateFinished},
		{"reset", &BookResetCmd{Book: "Dune"}, models.StateNotStarted},
	}
	for _, tt := range tests {
		if err := tt.cmd.Run(ctx); err != nil {
			t.Fatalf("%s failed: %v", tt.name, err)
		}
		book, err := clitest.Stored(t, ctx).FindBook("Dune")
		if err != nil {
			t.Fatal(err)
		}
		if book.State != tt.want {
			t.Errorf("after %s state = %s, want %s", tt.name, book.State, tt.want)
		}
	}
}

func TestBookStateCmd(t *testing.T) {
	ctx, out := clitest.NewContext(t)
	addBook(t, ctx, "Dune")

	if err := (&BookStateCmd{Book: "dune", State: "finished"}).Run(ctx); err != nil {
		t.Fatalf("book state failed: %v", err)
	}
	if !strings.Contains(out.String(), "Dune: not_started → finished") {
		t.Errorf("unexpected output: %q", out.String())
	}
	book, err := clitest.Stored(t, ctx).FindBook("Dune")
	if err != nil {
		t.Fatal(err)
	}
	if book.State != models.StateFinished {
		t.Errorf("state = %s, want %s", book.State, models.StateFinished)
	}

	if err := (&BookStateCmd{Book: "Dune", State: "paused"}).Run(ctx); err == nil {
		t.Error("expected an error for an unknown state")
	}
	if book, _ := clitest.Stored(t, ctx).FindBook("Dune"); book.State != models.StateFinished {
		t.Errorf("rejected state changed the book to %s", book.State)
	}
}
