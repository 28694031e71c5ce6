package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/readlit/internal/models"
	"github.com/julianstephens/readlit/internal/utils"
)

// ConflictType represents the type of integrity problem
type ConflictType string

const (
	ConflictDanglingReference  ConflictType = "dangling_reference"
	ConflictInvalidDate        ConflictType = "invalid_date"
	ConflictFinishBeforeStart  ConflictType = "finish_before_start"
	ConflictDuplicateAggregate ConflictType = "duplicate_aggregate_date"
	ConflictDuplicateID        ConflictType = "duplicate_id"
	ConflictDuplicateTitle     ConflictType = "duplicate_book_title"
	ConflictPageOutOfRange     ConflictType = "page_out_of_range"
	ConflictMissingID          ConflictType = "missing_id"
)

// Conflict represents a detected integrity problem in a snapshot
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	Items       []string // Titles involved
	IDs         []string // Record IDs involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Count returns how many conflicts of the given type were found.
func (vr *ValidationResult) Count(kind ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == kind {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks a snapshot for records the ledger would never produce itself
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

func (v *Validator) add(result *ValidationResult, c Conflict) {
	result.Conflicts = append(result.Conflicts, c)
}

// Validate runs every integrity check over the snapshot
func (v *Validator) Validate(snap models.Snapshot) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	books := make(map[string]models.Book, len(snap.Books))
	ids := make(map[string]int)

	for _, book := range snap.Books {
		if book.ID == "" {
			v.add(&result, Conflict{
				Type:        ConflictMissingID,
				Description: fmt.Sprintf("Book \"%s\" has no id", book.Title),
				Items:       []string{book.Title},
			})
			continue
		}
		books[book.ID] = book
		ids[book.ID]++
		v.checkBookDates(&result, book)
	}

	v.checkDuplicateTitles(&result, snap.Books)

	aggregates := make(map[string][]string)
	for _, entry := range snap.Logs {
		ids[entry.ID]++
		if !utils.ValidateDate(entry.Date) {
			v.add(&result, Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Log entry %s has invalid date: %q", entry.ID, entry.Date),
				IDs:         []string{entry.ID},
			})
		}
		if entry.Aggregate() {
			aggregates[entry.Date] = append(aggregates[entry.Date], entry.ID)
			continue
		}
		if _, ok := books[entry.BookID]; !ok {
			v.add(&result, Conflict{
				Type:        ConflictDanglingReference,
				Description: fmt.Sprintf("Log entry %s on %s references missing book %s", entry.ID, entry.Date, entry.BookID),
				Date:        entry.Date,
				IDs:         []string{entry.ID, entry.BookID},
			})
		}
	}

	dates := make([]string, 0, len(aggregates))
	for date := range aggregates {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	for _, date := range dates {
		if entries := aggregates[date]; len(entries) > 1 {
			v.add(&result, Conflict{
				Type:        ConflictDuplicateAggregate,
				Description: fmt.Sprintf("Date %s has %d unassigned log entries (IDs: %v)", date, len(entries), entries),
				Date:        date,
				IDs:         entries,
			})
		}
	}

	for _, entry := range snap.Progress {
		ids[entry.ID]++
		if !utils.ValidateDate(entry.Date) {
			v.add(&result, Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Progress entry %s has invalid date: %q", entry.ID, entry.Date),
				IDs:         []string{entry.ID},
			})
		}
		book, ok := books[entry.BookID]
		if !ok {
			v.add(&result, Conflict{
				Type:        ConflictDanglingReference,
				Description: fmt.Sprintf("Progress entry %s references missing book %s", entry.ID, entry.BookID),
				Date:        entry.Date,
				IDs:         []string{entry.ID, entry.BookID},
			})
			continue
		}
		if book.TotalPages > 0 && entry.CurrentPage > book.TotalPages {
			v.add(&result, Conflict{
				Type:        ConflictPageOutOfRange,
				Description: fmt.Sprintf("Progress entry %s for \"%s\" is at page %d of %d", entry.ID, book.Title, entry.CurrentPage, book.TotalPages),
				Date:        entry.Date,
				Items:       []string{book.Title},
				IDs:         []string{entry.ID, book.ID},
			})
		}
	}

	var dupes []string
	for id, n := range ids {
		if id != "" && n > 1 {
			dupes = append(dupes, id)
		}
	}
	sort.Strings(dupes)
	for _, id := range dupes {
		v.add(&result, Conflict{
			Type:        ConflictDuplicateID,
			Description: fmt.Sprintf("ID %s is used by %d records", id, ids[id]),
			IDs:         []string{id},
		})
	}

	return result
}

func (v *Validator) checkBookDates(result *ValidationResult, book models.Book) {
	for _, field := range []struct {
		name  string
		value string
	}{
		{"start date", book.StartDate},
		{"finish date", book.FinishDate},
	} {
		if field.value != "" && !utils.ValidateDate(field.value) {
			v.add(result, Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Book \"%s\" has invalid %s: %s", book.Title, field.name, field.value),
				Items:       []string{book.Title},
				IDs:         []string{book.ID},
			})
		}
	}

	if utils.ValidateDate(book.StartDate) && utils.ValidateDate(book.FinishDate) && book.FinishDate < book.StartDate {
		v.add(result, Conflict{
			Type:        ConflictFinishBeforeStart,
			Description: fmt.Sprintf("Book \"%s\" finishes (%s) before it starts (%s)", book.Title, book.FinishDate, book.StartDate),
			Items:       []string{book.Title},
			IDs:         []string{book.ID},
		})
	}
}

func (v *Validator) checkDuplicateTitles(result *ValidationResult, books []models.Book) {
	byTitle := make(map[string][]string)
	var order []string
	for _, book := range books {
		key := strings.ToLower(strings.TrimSpace(book.Title))
		if key == "" {
			continue
		}
		if _, seen := byTitle[key]; !seen {
			order = append(order, key)
		}
		byTitle[key] = append(byTitle[key], book.ID)
	}

	for _, key := range order {
		if ids := byTitle[key]; len(ids) > 1 {
			v.add(result, Conflict{
				Type:        ConflictDuplicateTitle,
				Description: fmt.Sprintf("Duplicate book title: \"%s\" (IDs: %v)", key, ids),
				Items:       []string{key},
				IDs:         ids,
			})
		}
	}
}
