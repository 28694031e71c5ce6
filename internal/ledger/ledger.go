// Package ledger owns the in-memory reading records and every mutation on them.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/readlit/internal/constants"
	"github.com/julianstephens/readlit/internal/models"
	"github.com/julianstephens/readlit/internal/utils"
)

var (
	ErrBookNotFound     = errors.New("book not found")
	ErrLogNotFound      = errors.New("log entry not found")
	ErrProgressNotFound = errors.New("progress entry not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrAmbiguousBook    = errors.New("book reference is ambiguous")
)

// Ledger is the normalized, in-memory form of a snapshot. It is not safe for
// concurrent use; one session owns it and threads it through explicitly.
type Ledger struct {
	snap models.Snapshot
}

// New wraps an already-normalized snapshot.
func New(snap models.Snapshot) *Ledger {
	return &Ledger{snap: snap}
}

// Empty returns a ledger with default settings and no records.
func Empty() *Ledger {
	return New(EmptySnapshot())
}

// Load normalizes raw snapshot bytes into a ledger.
func Load(raw []byte) (*Ledger, error) {
	snap, err := Normalize(raw)
	if err != nil {
		return nil, err
	}
	return New(snap), nil
}

// Snapshot returns a copy of the current state.
func (l *Ledger) Snapshot() models.Snapshot {
	return models.Snapshot{
		Version:  l.snap.Version,
		Settings: l.snap.Settings,
		Books:    append([]models.Book{}, l.snap.Books...),
		Logs:     append([]models.MinutesEntry{}, l.snap.Logs...),
		Progress: append([]models.ProgressEntry{}, l.snap.Progress...),
	}
}

// Export serializes the in-memory snapshot unmodified.
func (l *Ledger) Export() ([]byte, error) {
	data, err := json.MarshalIndent(l.snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize snapshot: %w", err)
	}
	return data, nil
}

// Import replaces the ledger with a normalized copy of raw. On failure the
// ledger is left unchanged.
func (l *Ledger) Import(raw []byte) error {
	snap, err := Normalize(raw)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	l.snap = snap
	return nil
}

// Settings

func (l *Ledger) Settings() models.Settings {
	return l.snap.Settings
}

// SaveSettings validates and stores new settings. A non-positive reading speed
// falls back to the default rather than failing.
func (l *Ledger) SaveSettings(settings models.Settings) error {
	if settings.Year <= 0 {
		return fmt.Errorf("%w: year must be positive, got %d", ErrInvalidInput, settings.Year)
	}
	if settings.BooksGoal < 0 {
		return fmt.Errorf("%w: books goal cannot be negative", ErrInvalidInput)
	}
	if settings.MinutesGoal < 0 {
		return fmt.Errorf("%w: minutes goal cannot be negative", ErrInvalidInput)
	}
	if settings.PagesPerHour <= 0 {
		settings.PagesPerHour = constants.DefaultPagesPerHour
	}
	l.snap.Settings = settings
	return nil
}

// Books

func (l *Ledger) Books() []models.Book {
	return append([]models.Book{}, l.snap.Books...)
}

// BooksByTitle returns the books ordered by title, case-insensitively.
func (l *Ledger) BooksByTitle() []models.Book {
	books := l.Books()
	sort.SliceStable(books, func(i, j int) bool {
		return strings.ToLower(books[i].Title) < strings.ToLower(books[j].Title)
	})
	return books
}

func (l *Ledger) Book(id string) (models.Book, error) {
	idx := l.bookIndex(id)
	if idx < 0 {
		return models.Book{}, fmt.Errorf("%w: %s", ErrBookNotFound, id)
	}
	return l.snap.Books[idx], nil
}

// FindBook resolves a user-supplied reference: an exact id, then a
// case-insensitive title, then a unique id prefix.
func (l *Ledger) FindBook(ref string) (models.Book, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Book{}, fmt.Errorf("%w: empty reference", ErrBookNotFound)
	}
	if idx := l.bookIndex(ref); idx >= 0 {
		return l.snap.Books[idx], nil
	}

	var byTitle, byPrefix []models.Book
	for _, book := range l.snap.Books {
		if strings.EqualFold(book.Title, ref) {
			byTitle = append(byTitle, book)
		}
		if strings.HasPrefix(book.ID, ref) {
			byPrefix = append(byPrefix, book)
		}
	}
	for _, matches := range [][]models.Book{byTitle, byPrefix} {
		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], nil
		default:
			return models.Book{}, fmt.Errorf("%w: %q matches %d books", ErrAmbiguousBook, ref, len(matches))
		}
	}
	return models.Book{}, fmt.Errorf("%w: %s", ErrBookNotFound, ref)
}

// BookTitle resolves a weak book reference for display.
func (l *Ledger) BookTitle(id string) string {
	if id == "" {
		return constants.NoBookTitle
	}
	if idx := l.bookIndex(id); idx >= 0 {
		return l.snap.Books[idx].Title
	}
	return constants.UnknownBookTitle
}

// BookInput carries the fields needed to add a book.
type BookInput struct {
	Title      string
	TotalPages int
	StartDate  string
	FinishDate string
}

// AddBook appends a new, not yet started book.
func (l *Ledger) AddBook(in BookInput) (models.Book, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Book{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.TotalPages < 0 {
		return models.Book{}, fmt.Errorf("%w: total pages cannot be negative", ErrInvalidInput)
	}
	span, err := utils.DaysBetween(in.StartDate, in.FinishDate)
	if err != nil {
		return models.Book{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if span < 0 {
		return models.Book{}, fmt.Errorf("%w: finish date %s is before start date %s", ErrInvalidInput, in.FinishDate, in.StartDate)
	}

	book := models.Book{
		ID:         NewID(),
		Title:      title,
		TotalPages: in.TotalPages,
		StartDate:  in.StartDate,
		FinishDate: in.FinishDate,
		State:      models.StateNotStarted,
	}
	l.snap.Books = append(l.snap.Books, book)
	return book, nil
}

// DeleteBook removes a book along with every log and progress entry that references it.
func (l *Ledger) DeleteBook(id string) error {
	idx := l.bookIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrBookNotFound, id)
	}
	l.snap.Books = append(l.snap.Books[:idx], l.snap.Books[idx+1:]...)

	logs := l.snap.Logs[:0]
	for _, entry := range l.snap.Logs {
		if entry.BookID != id {
			logs = append(logs, entry)
		}
	}
	l.snap.Logs = logs

	progress := l.snap.Progress[:0]
	for _, entry := range l.snap.Progress {
		if entry.BookID != id {
			progress = append(progress, entry)
		}
	}
	l.snap.Progress = progress

	return nil
}

// SetState moves a book to a new reading state.
func (l *Ledger) SetState(id string, state models.ReadingState) error {
	if !state.Valid() {
		return fmt.Errorf("%w: unknown reading state %q", ErrInvalidInput, state)
	}
	idx := l.bookIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrBookNotFound, id)
	}
	l.snap.Books[idx].State = state
	return nil
}

func (l *Ledger) StartReading(id string) error { return l.SetState(id, models.StateActive) }
func (l *Ledger) FinishBook(id string) error   { return l.SetState(id, models.StateFinished) }
func (l *Ledger) ResetBook(id string) error    { return l.SetState(id, models.StateNotStarted) }

func (l *Ledger) bookIndex(id string) int {
	for i, book := range l.snap.Books {
		if book.ID == id {
			return i
		}
	}
	return -1
}

// Logs

func (l *Ledger) Logs() []models.MinutesEntry {
	return append([]models.MinutesEntry{}, l.snap.Logs...)
}

// MinutesInput carries the fields needed to log reading time.
type MinutesInput struct {
	Date    string
	Minutes int
	Pages   int
	BookID  string
}

// AddMinutes records reading time. Per-book entries are appended; an
// aggregate entry (no book) overwrites any aggregate entry on the same date.
func (l *Ledger) AddMinutes(in MinutesInput) (models.MinutesEntry, error) {
	if !utils.ValidateDate(in.Date) {
		return models.MinutesEntry{}, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, in.Date)
	}
	if in.Minutes < 0 {
		return models.MinutesEntry{}, fmt.Errorf("%w: minutes cannot be negative", ErrInvalidInput)
	}
	if in.Pages < 0 {
		return models.MinutesEntry{}, fmt.Errorf("%w: pages cannot be negative", ErrInvalidInput)
	}
	if in.BookID != "" && l.bookIndex(in.BookID) < 0 {
		return models.MinutesEntry{}, fmt.Errorf("%w: %s", ErrBookNotFound, in.BookID)
	}

	if in.BookID == "" {
		for i, entry := range l.snap.Logs {
			if entry.Aggregate() && entry.Date == in.Date {
				l.snap.Logs[i].Minutes = in.Minutes
				l.snap.Logs[i].Pages = in.Pages
				return l.snap.Logs[i], nil
			}
		}
	}

	entry := models.MinutesEntry{
		ID:      NewID(),
		Date:    in.Date,
		Minutes: in.Minutes,
		Pages:   in.Pages,
		BookID:  in.BookID,
	}
	l.snap.Logs = append(l.snap.Logs, entry)
	return entry, nil
}

func (l *Ledger) DeleteLog(id string) error {
	for i, entry := range l.snap.Logs {
		if entry.ID == id {
			l.snap.Logs = append(l.snap.Logs[:i], l.snap.Logs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrLogNotFound, id)
}

// LogFilter narrows a log listing. Empty fields do not filter.
type LogFilter struct {
	BookID string
	From   string // inclusive, YYYY-MM-DD
	To     string // inclusive, YYYY-MM-DD
}

// FilterLogs returns matching entries, newest date first. Entries sharing a
// date keep their insertion order.
func (l *Ledger) FilterLogs(filter LogFilter) []models.MinutesEntry {
	var out []models.MinutesEntry
	for _, entry := range l.snap.Logs {
		if filter.BookID != "" && entry.BookID != filter.BookID {
			continue
		}
		if !utils.InRange(entry.Date, filter.From, filter.To) {
			continue
		}
		out = append(out, entry)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

// Progress

func (l *Ledger) Progress() []models.ProgressEntry {
	return append([]models.ProgressEntry{}, l.snap.Progress...)
}

// ProgressInput carries the fields needed to record a page checkpoint.
type ProgressInput struct {
	Date        string
	BookID      string
	CurrentPage int
}

func (l *Ledger) AddProgress(in ProgressInput) (models.ProgressEntry, error) {
	if !utils.ValidateDate(in.Date) {
		return models.ProgressEntry{}, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, in.Date)
	}
	if in.CurrentPage < 0 {
		return models.ProgressEntry{}, fmt.Errorf("%w: current page cannot be negative", ErrInvalidInput)
	}
	if l.bookIndex(in.BookID) < 0 {
		return models.ProgressEntry{}, fmt.Errorf("%w: %s", ErrBookNotFound, in.BookID)
	}

	entry := models.ProgressEntry{
		ID:          NewID(),
		Date:        in.Date,
		BookID:      in.BookID,
		CurrentPage: in.CurrentPage,
	}
	l.snap.Progress = append(l.snap.Progress, entry)
	return entry, nil
}

func (l *Ledger) DeleteProgress(id string) error {
	for i, entry := range l.snap.Progress {
		if entry.ID == id {
			l.snap.Progress = append(l.snap.Progress[:i], l.snap.Progress[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrProgressNotFound, id)
}
