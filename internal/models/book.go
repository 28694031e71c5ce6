package models

import "fmt"

// ReadingState is where a book sits in its reading lifecycle. It replaces the
// separate finished/currentlyReading flags so both can never be set at once.
type ReadingState string

const (
	StateNotStarted ReadingState = "not_started"
	StateActive     ReadingState = "active"
	StateFinished   ReadingState = "finished"
)

// Valid reports whether s is one of the known reading states.
func (s ReadingState) Valid() bool {
	switch s {
	case StateNotStarted, StateActive, StateFinished:
		return true
	}
	return false
}

// ParseReadingState converts user input into a ReadingState.
func ParseReadingState(s string) (ReadingState, error) {
	state := ReadingState(s)
	if !state.Valid() {
		return "", fmt.Errorf("invalid reading state %q (want %s, %s or %s)", s, StateNotStarted, StateActive, StateFinished)
	}
	return state, nil
}

// Book is a title the user plans to read by a target finish date.
type Book struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	TotalPages int          `json:"totalPages"` // 0 means unknown
	StartDate  string       `json:"startDate"`  // YYYY-MM-DD format
	FinishDate string       `json:"finishDate"` // YYYY-MM-DD format, target completion
	State      ReadingState `json:"state"`
}

// Finished reports whether the book has been marked finished.
func (b Book) Finished() bool {
	return b.State == StateFinished
}

// Active reports whether the book is currently being read.
func (b Book) Active() bool {
	return b.State == StateActive
}
