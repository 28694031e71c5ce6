package dashboard

import (
	"strings"
	"testing"

	"github.com/julianstephens/readlit/internal/cli/clitest"
	"github.com/julianstephens/readlit/internal/ledger"
	"github.com/julianstephens/readlit/internal/models"
)

func TestDashboardCmd_Empty(t *testing.T) {
	ctx, out := clitest.NewContext(t)

	if err := (&DashboardCmd{}).Run(ctx); err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	for _, want := range []string{
		"Reading 2026",
		"day 69 of 365",
		"0 / 52",
		"No fires today.",
		"Add a book to start tracking.",
		"No logs yet.",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestDashboardCmd_WithBooks(t *testing.T) {
	ctx, out := clitest.NewContext(t)

	l := ledger.Empty()
	behind, err := l.AddBook(ledger.BookInput{Title: "Behind Book", TotalPages: 600, StartDate: "2026-03-01", FinishDate: "2026-03-11"})
	if err != nil {
		t.Fatal(err)
	}
	if err := l.SetState(behind.ID, models.StateActive); err != nil {
		t.Fatal(err)
	}
	done, err := l.AddBook(ledger.BookInput{Title: "Done Book", TotalPages: 100, StartDate: "2026-01-01", FinishDate: "2026-02-01"})
	if err != nil {
		t.Fatal(err)
	}
	if err := l.FinishBook(done.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := l.AddMinutes(ledger.MinutesInput{Date: clitest.Today, Minutes: 5, BookID: behind.ID}); err != nil {
		t.Fatal(err)
	}
	clitest.Seed(t, ctx, l)

	if err := (&DashboardCmd{}).Run(ctx); err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	for _, want := range []string{
		"1 / 52",
		"Behind Book",
		"Behind: 1",
		"Streak: 1 day(s)",
		"This week: 5 min",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
	attention := out.String()[strings.Index(out.String(), "Needs attention"):strings.Index(out.String(), "Currently reading")]
	if !strings.Contains(attention, "Behind Book") {
		t.Errorf("behind book should need attention:\n%s", attention)
	}
	if strings.Contains(out.String(), "Done Book") {
		t.Errorf("finished books should not be listed:\n%s", out.String())
	}
}
