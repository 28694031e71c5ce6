package metrics

import (
	"math"

	"github.com/julianstephens/readlit/internal/ledger"
	"github.com/julianstephens/readlit/internal/models"
)

// Share is one book's slice of the daily reading pool.
type Share struct {
	BookID        string
	Weight        float64
	MinutesPerDay float64
}

// Allocation splits the average daily minutes across the books being read.
type Allocation struct {
	Pool   float64 // average minutes per day so far this year
	Shares []Share
}

// For returns the minutes per day allocated to a book, 0 if it is not in the set.
func (a Allocation) For(bookID string) float64 {
	for _, s := range a.Shares {
		if s.BookID == bookID {
			return s.MinutesPerDay
		}
	}
	return 0
}

// Includes reports whether the book takes part in the allocation.
func (a Allocation) Includes(bookID string) bool {
	for _, s := range a.Shares {
		if s.BookID == bookID {
			return true
		}
	}
	return false
}

// Total sums every share; it equals Pool whenever Shares is non-empty.
func (a Allocation) Total() float64 {
	total := 0.0
	for _, s := range a.Shares {
		total += s.MinutesPerDay
	}
	return total
}

// AllocationSet returns the books the pool is split across: the active books,
// or every unfinished book when none are active.
func AllocationSet(books []models.Book) []models.Book {
	var active, unfinished []models.Book
	for _, book := range books {
		if book.Finished() {
			continue
		}
		unfinished = append(unfinished, book)
		if book.Active() {
			active = append(active, book)
		}
	}
	if len(active) > 0 {
		return active
	}
	return unfinished
}

// Allocation weights each book in the set by its required pace (minimum 1, so
// no book is starved) and hands out the pool proportionally. An empty set
// yields no shares.
func (e *Engine) Allocation(l *ledger.Ledger) Allocation {
	alloc := Allocation{Pool: e.poolMinutesPerDay(l)}

	set := AllocationSet(l.Books())
	if len(set) == 0 {
		return alloc
	}

	weights := make([]float64, len(set))
	sum := 0.0
	for i, book := range set {
		weights[i] = math.Max(1, float64(e.RequiredMinutesPerDay(l, book)))
		sum += weights[i]
	}

	alloc.Shares = make([]Share, len(set))
	for i, book := range set {
		alloc.Shares[i] = Share{
			BookID:        book.ID,
			Weight:        weights[i],
			MinutesPerDay: alloc.Pool * weights[i] / sum,
		}
	}
	return alloc
}

// poolMinutesPerDay is the unrounded year-to-date average.
func (e *Engine) poolMinutesPerDay(l *ledger.Ledger) float64 {
	year := l.Settings().Year
	return float64(e.yearMinutes(l, year)) / float64(max(1, e.dayOfYear(year)))
}
