package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/readlit/internal/backup"
	"github.com/julianstephens/readlit/internal/cli"
	"github.com/julianstephens/readlit/internal/cli/clitest"
	"github.com/julianstephens/readlit/internal/ledger"
	"github.com/julianstephens/readlit/internal/storage"
)

func seed(t *testing.T, ctx *cli.Context) {
	t.Helper()
	l := ledger.Empty()
	book, err := l.AddBook(ledger.BookInput{Title: "Dune", TotalPages: 412, StartDate: "2026-03-01", FinishDate: "2026-03-31"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.AddMinutes(ledger.MinutesInput{Date: "2026-03-02", Minutes: 30, BookID: book.ID}); err != nil {
		t.Fatal(err)
	}
	clitest.Seed(t, ctx, l)
}

func TestExportImportRoundTrip(t *testing.T) {
	src, out := clitest.NewContext(t)
	seed(t, src)

	exportPath := filepath.Join(t.TempDir(), "export.json")
	if err := (&ExportCmd{Output: exportPath}).Run(src); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(out.String(), "Exported to "+exportPath) {
		t.Errorf("unexpected output: %q", out.String())
	}

	dst, _ := clitest.NewContext(t)
	if err := (&ImportCmd{File: exportPath, Yes: true}).Run(dst); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	want := clitest.Stored(t, src).Snapshot()
	got := clitest.Stored(t, dst).Snapshot()
	if len(got.Books) != 1 || got.Books[0] != want.Books[0] {
		t.Errorf("imported books = %+v, want %+v", got.Books, want.Books)
	}
	if len(got.Logs) != 1 || got.Logs[0] != want.Logs[0] {
		t.Errorf("imported logs = %+v, want %+v", got.Logs, want.Logs)
	}
}

func TestExportCmd_Stdout(t *testing.T) {
	ctx, out := clitest.NewContext(t)
	seed(t, ctx)

	if err := (&ExportCmd{Output: "-"}).Run(ctx); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(out.String(), `"title": "Dune"`) {
		t.Errorf("stdout export missing book:\n%s", out.String())
	}
}

func TestImportCmd_V1Snapshot(t *testing.T) {
	ctx, _ := clitest.NewContext(t)

	v1 := `{
	  "settings": {"year": 2026, "booksGoal": 10, "minutesGoal": 6000, "pagesPerHour": 40},
	  "books": [{"id": "b1", "title": "Emma", "totalPages": 474, "startDate": "2026-01-01", "finishDate": "2026-02-01", "currentlyReading": true, "finished": false}],
	  "logs": [
	    {"id": "l1", "date": "2026-01-05", "minutes": 20, "pages": 10, "bookId": ""},
	    {"id": "l2", "date": "2026-01-05", "minutes": 15, "pages": 5, "bookId": ""}
	  ]
	}`
	path := filepath.Join(t.TempDir(), "v1.json")
	if err := os.WriteFile(path, []byte(v1), 0600); err != nil {
		t.Fatal(err)
	}

	if err := (&ImportCmd{File: path, Yes: true}).Run(ctx); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	l := clitest.Stored(t, ctx)
	if got := l.Settings().BooksGoal; got != 10 {
		t.Errorf("books goal = %d, want 10", got)
	}
	logs := l.Logs()
	if len(logs) != 1 || logs[0].Minutes != 35 {
		t.Errorf("v1 aggregates should fold into one 35 minute entry, got %+v", logs)
	}
}

func TestImportCmd_InvalidLeavesStateUnchanged(t *testing.T) {
	ctx, _ := clitest.NewContext(t)
	seed(t, ctx)
	before := clitest.Stored(t, ctx).Snapshot()

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`["not", "an", "object"]`), 0600); err != nil {
		t.Fatal(err)
	}

	if err := (&ImportCmd{File: path, Yes: true}).Run(ctx); err == nil {
		t.Fatal("expected error for invalid import")
	}

	after := clitest.Stored(t, ctx).Snapshot()
	if len(after.Books) != len(before.Books) || after.Books[0] != before.Books[0] {
		t.Errorf("failed import changed stored books: %+v", after.Books)
	}

	// Nothing was replaced, so no backup should have been taken either.
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 0 {
		t.Errorf("failed import created %d backups", len(backups))
	}
}

func TestImportCmd_RecoversUnreadableStore(t *testing.T) {
	src, _ := clitest.NewContext(t)
	seed(t, src)
	path := filepath.Join(t.TempDir(), "export.json")
	if err := (&ExportCmd{Output: path}).Run(src); err != nil {
		t.Fatal(err)
	}

	ctx, out := clitest.NewContext(t)
	if err := ctx.Store.SaveSnapshot([]byte("{not json")); err != nil {
		t.Fatal(err)
	}
	ctx.Forget()
	if _, err := ctx.Ledger(); err == nil {
		t.Fatal("expected the corrupt snapshot to be unreadable")
	}

	if err := (&ImportCmd{File: path, Yes: true}).Run(ctx); err != nil {
		t.Fatalf("import over an unreadable store failed: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Imported 1 books") {
		t.Errorf("unexpected output: %q", out.String())
	}
	books := clitest.Stored(t, ctx).Books()
	if len(books) != 1 || books[0].Title != "Dune" {
		t.Errorf("stored books after import = %+v", books)
	}
}

func TestImportCmd_Cancelled(t *testing.T) {
	ctx, out := clitest.NewContext(t)
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, []byte(`{}`), 0600); err != nil {
		t.Fatal(err)
	}
	seed(t, ctx)

	clitest.Answer(ctx, false)
	if err := (&ImportCmd{File: path}).Run(ctx); err != nil {
		t.Fatalf("cancelled import failed: %v", err)
	}
	if !strings.Contains(out.String(), "Import cancelled.") {
		t.Errorf("unexpected output: %q", out.String())
	}
	if n := len(clitest.Stored(t, ctx).Books()); n != 1 {
		t.Errorf("cancelled import changed data: %d books", n)
	}
}

func TestResetCmd(t *testing.T) {
	ctx, out := clitest.NewContext(t)
	seed(t, ctx)

	if err := (&ResetCmd{Yes: true}).Run(ctx); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if !strings.Contains(out.String(), "Reading data reset.") {
		t.Errorf("unexpected output: %q", out.String())
	}

	l := clitest.Stored(t, ctx)
	if n := len(l.Books()); n != 0 {
		t.Errorf("books after reset = %d, want 0", n)
	}
	if l.Settings() != storage.DefaultSnapshot().Settings {
		t.Errorf("settings after reset = %+v, want bundled defaults", l.Settings())
	}

	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 {
		t.Errorf("reset should take one backup first, found %d", len(backups))
	}
}

func TestResetCmd_Cancelled(t *testing.T) {
	ctx, out := clitest.NewContext(t)
	seed(t, ctx)

	clitest.Answer(ctx, false)
	if err := (&ResetCmd{}).Run(ctx); err != nil {
		t.Fatalf("cancelled reset failed: %v", err)
	}
	if !strings.Contains(out.String(), "Reset cancelled.") {
		t.Errorf("unexpected output: %q", out.String())
	}
	if n := len(clitest.Stored(t, ctx).Books()); n != 1 {
		t.Errorf("cancelled reset changed data: %d books", n)
	}
}
