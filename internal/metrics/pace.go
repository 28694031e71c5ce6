package metrics

import (
	"math"

	"github.com/julianstephens/readlit/internal/ledger"
	"github.com/julianstephens/readlit/internal/models"
	"github.com/julianstephens/readlit/internal/utils"
)

// PagesRead returns the book's current page. The latest progress checkpoint
// wins; without checkpoints the pages logged against the book are summed.
// The result never exceeds a known page count.
func (e *Engine) PagesRead(l *ledger.Ledger, book models.Book) int {
	pages := 0
	found := false
	latest := ""
	for _, entry := range l.Progress() {
		if entry.BookID != book.ID {
			continue
		}
		// >= lets a later entry win a same-date tie
		if !found || entry.Date >= latest {
			pages = entry.CurrentPage
			latest = entry.Date
			found = true
		}
	}

	if !found {
		for _, entry := range l.Logs() {
			if entry.BookID == book.ID {
				pages += entry.Pages
			}
		}
	}

	pages = max(0, pages)
	if book.TotalPages > 0 {
		pages = min(pages, book.TotalPages)
	}
	return pages
}

// PagesRemaining is never negative.
func (e *Engine) PagesRemaining(l *ledger.Ledger, book models.Book) int {
	return max(0, book.TotalPages-e.PagesRead(l, book))
}

// MinutesRead sums the minutes logged against the book.
func (e *Engine) MinutesRead(l *ledger.Ledger, book models.Book) int {
	total := 0
	for _, entry := range l.Logs() {
		if entry.BookID == book.ID {
			total += entry.Minutes
		}
	}
	return total
}

// EstimatedMinutesRemaining converts the pages left into minutes at the
// configured reading speed. Speeds below one page per hour count as one.
func (e *Engine) EstimatedMinutesRemaining(l *ledger.Ledger, book models.Book) int {
	pagesLeft := float64(e.PagesRemaining(l, book))
	speed := math.Max(1, l.Settings().PagesPerHour)
	return int(math.Round(pagesLeft / speed * 60))
}

// DaysRemaining is the number of days left until the book's finish date, at least 1.
func (e *Engine) DaysRemaining(book models.Book) int {
	return utils.DaysRemaining(e.today, book.FinishDate)
}

// RequiredMinutesPerDay is the pace needed to finish on time. Never negative.
func (e *Engine) RequiredMinutesPerDay(l *ledger.Ledger, book models.Book) int {
	estimate := float64(e.EstimatedMinutesRemaining(l, book))
	return max(0, int(math.Round(estimate/float64(e.DaysRemaining(book)))))
}

// ActualMinutesPerDay is the observed pace under the engine's policy.
func (e *Engine) ActualMinutesPerDay(l *ledger.Ledger, book models.Book) int {
	if e.policy == ProportionalAggregate {
		return int(math.Round(e.Allocation(l).For(book.ID)))
	}
	return int(math.Round(float64(e.MinutesRead(l, book)) / float64(e.elapsedDays(book))))
}

// elapsedDays counts the days since the book was started, today included.
// A missing or unparsable start date counts as starting today.
func (e *Engine) elapsedDays(book models.Book) int {
	days, err := utils.DaysBetween(book.StartDate, e.today)
	if err != nil {
		return 1
	}
	return max(1, days+1)
}

// hasMinutes reports whether any reading time can be attributed to the book.
func (e *Engine) hasMinutes(l *ledger.Ledger, book models.Book) bool {
	if e.policy == ProportionalAggregate {
		alloc := e.Allocation(l)
		return alloc.Pool > 0 && alloc.Includes(book.ID)
	}
	return e.MinutesRead(l, book) > 0
}

// Status classifies the book. The checks run in order and the first match wins.
func (e *Engine) Status(l *ledger.Ledger, book models.Book) Status {
	if book.Finished() {
		return StatusDone
	}

	read := e.PagesRead(l, book)
	remaining := max(0, book.TotalPages-read)
	if remaining == 0 && read > 0 {
		return StatusDone
	}

	required := e.RequiredMinutesPerDay(l, book)
	if required == 0 && remaining == 0 {
		return StatusDone
	}

	if !e.hasMinutes(l, book) {
		return StatusNoData
	}

	if e.ActualMinutesPerDay(l, book) >= required {
		return StatusOnTrack
	}
	return StatusBehind
}

// BookSummary is everything the book detail view shows.
type BookSummary struct {
	Book                      models.Book
	PagesRead                 int
	PagesRemaining            int
	MinutesRead               int
	EstimatedMinutesRemaining int
	DaysRemaining             int
	RequiredMinutesPerDay     int
	ActualMinutesPerDay       int
	Status                    Status
}

// Summary computes the detail card for one book.
func (e *Engine) Summary(l *ledger.Ledger, book models.Book) BookSummary {
	read := e.PagesRead(l, book)
	return BookSummary{
		Book:                      book,
		PagesRead:                 read,
		PagesRemaining:            max(0, book.TotalPages-read),
		MinutesRead:               e.MinutesRead(l, book),
		EstimatedMinutesRemaining: e.EstimatedMinutesRemaining(l, book),
		DaysRemaining:             e.DaysRemaining(book),
		RequiredMinutesPerDay:     e.RequiredMinutesPerDay(l, book),
		ActualMinutesPerDay:       e.ActualMinutesPerDay(l, book),
		Status:                    e.Status(l, book),
	}
}
