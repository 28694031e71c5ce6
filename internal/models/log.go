package models

// MinutesEntry records reading time for one day. With BookID set it is a
// per-book log line and many may share a date. With BookID empty it is the
// aggregate total for the day and is unique per date.
type MinutesEntry struct {
	ID      string `json:"id"`
	Date    string `json:"date"` // YYYY-MM-DD format
	Minutes int    `json:"minutes"`
	Pages   int    `json:"pages"`
	BookID  string `json:"bookId"`
}

// Aggregate reports whether the entry is a whole-day total rather than a per-book log.
func (e MinutesEntry) Aggregate() bool {
	return e.BookID == ""
}

// ProgressEntry is a page checkpoint for a book. It is a position, not a delta.
type ProgressEntry struct {
	ID          string `json:"id"`
	Date        string `json:"date"` // YYYY-MM-DD format
	BookID      string `json:"bookId"`
	CurrentPage int    `json:"currentPage"`
}
