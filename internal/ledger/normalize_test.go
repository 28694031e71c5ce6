package ledger

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/readlit/internal/constants"
	"github.com/julianstephens/readlit/internal/models"
)

// sequentialIDs makes generated ids predictable for the duration of a test.
func sequentialIDs(t *testing.T) {
	t.Helper()
	orig := NewID
	n := 0
	NewID = func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}
	t.Cleanup(func() { NewID = orig })
}

func TestNormalizeFillsDefaults(t *testing.T) {
	sequentialIDs(t)

	snap, err := Normalize([]byte(`{}`))
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}

	want := EmptySnapshot()
	if diff := cmp.Diff(want, snap); diff != "" {
		t.Errorf("Normalize({}) mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeSettings(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.Settings
	}{
		{
			name: "missing settings",
			raw:  `{"books":[]}`,
			want: models.DefaultSettings(),
		},
		{
			name: "partial settings",
			raw:  `{"settings":{"year":2025,"minutesGoal":12000}}`,
			want: models.Settings{Year: 2025, BooksGoal: 52, MinutesGoal: 12000, PagesPerHour: 30},
		},
		{
			name: "mistyped fields fall back",
			raw:  `{"settings":{"year":"soon","booksGoal":true,"pagesPerHour":null}}`,
			want: models.DefaultSettings(),
		},
		{
			name: "numeric strings accepted",
			raw:  `{"settings":{"year":"2027","booksGoal":"12","minutesGoal":0,"pagesPerHour":"45.5"}}`,
			want: models.Settings{Year: 2027, BooksGoal: 12, MinutesGoal: 0, PagesPerHour: 45.5},
		},
		{
			name: "zero reading speed replaced",
			raw:  `{"settings":{"pagesPerHour":0}}`,
			want: models.DefaultSettings(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := Normalize([]byte(tt.raw))
			if err != nil {
				t.Fatalf("Normalize() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, snap.Settings); diff != "" {
				t.Errorf("settings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeMigratesLegacyBookFlags(t *testing.T) {
	sequentialIDs(t)

	raw := `{
		"settings": {"year": 2026, "booksGoal": 10, "minutesGoal": 100, "pagesPerHour": 40},
		"books": [
			{"id": "a", "title": "Dune", "totalPages": 412, "startDate": "2026-01-01", "finishDate": "2026-02-01", "finished": true, "currentlyReading": true},
			{"id": "b", "title": "Emma", "totalPages": "320", "startDate": "2026-01-01", "finishDate": "2026-03-01", "currentlyReading": true},
			{"title": "Ulysses", "totalPages": -5},
			{"id": "d", "title": "Kept", "state": "active", "finished": true}
		]
	}`

	snap, err := Normalize([]byte(raw))
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}

	want := []models.Book{
		{ID: "a", Title: "Dune", TotalPages: 412, StartDate: "2026-01-01", FinishDate: "2026-02-01", State: models.StateFinished},
		{ID: "b", Title: "Emma", TotalPages: 320, StartDate: "2026-01-01", FinishDate: "2026-03-01", State: models.StateActive},
		{ID: "gen-1", Title: "Ulysses", TotalPages: 0, State: models.StateNotStarted},
		{ID: "d", Title: "Kept", State: models.StateActive},
	}
	if diff := cmp.Diff(want, snap.Books); diff != "" {
		t.Errorf("books mismatch (-want +got):\n%s", diff)
	}
	if snap.Version != constants.SnapshotVersion {
		t.Errorf("Version = %d, want %d", snap.Version, constants.SnapshotVersion)
	}
}

func TestNormalizeLogs(t *testing.T) {
	sequentialIDs(t)

	t.Run("version 1 unassigned logs are summed per day", func(t *testing.T) {
		raw := `{"logs": [
			{"id": "l1", "date": "2026-01-05", "minutes": 20, "pages": 10, "bookId": ""},
			{"id": "l2", "date": "2026-01-05", "minutes": 15},
			{"id": "l3", "date": "2026-01-05", "minutes": 30, "bookId": "b"},
			{"date": "2026-01-06", "minutes": -4, "pages": null}
		]}`
		snap, err := Normalize([]byte(raw))
		if err != nil {
			t.Fatalf("Normalize() error: %v", err)
		}
		want := []models.MinutesEntry{
			{ID: "l1", Date: "2026-01-05", Minutes: 35, Pages: 10},
			{ID: "l3", Date: "2026-01-05", Minutes: 30, BookID: "b"},
			{ID: "gen-1", Date: "2026-01-06", Minutes: 0},
		}
		if diff := cmp.Diff(want, snap.Logs); diff != "" {
			t.Errorf("logs mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("dailyMinutes migrate into aggregate logs", func(t *testing.T) {
		raw := `{
			"dailyMinutes": [
				{"id": "d1", "date": "2026-01-05", "minutes": 20, "bookId": "ignored"},
				{"id": "d2", "date": "2026-01-06", "minutes": 10},
				{"id": "d3", "date": "2026-01-06", "minutes": 25}
			],
			"progress": [
				{"id": "p1", "date": "2026-01-06", "bookId": "b", "currentPage": 40},
				{"date": "2026-01-07", "bookId": "b", "currentPage": "55"}
			]
		}`
		snap, err := Normalize([]byte(raw))
		if err != nil {
			t.Fatalf("Normalize() error: %v", err)
		}
		wantLogs := []models.MinutesEntry{
			{ID: "d1", Date: "2026-01-05", Minutes: 20},
			{ID: "d2", Date: "2026-01-06", Minutes: 25},
		}
		if diff := cmp.Diff(wantLogs, snap.Logs); diff != "" {
			t.Errorf("logs mismatch (-want +got):\n%s", diff)
		}
		wantProgress := []models.ProgressEntry{
			{ID: "p1", Date: "2026-01-06", BookID: "b", CurrentPage: 40},
			{ID: "gen-2", Date: "2026-01-07", BookID: "b", CurrentPage: 55},
		}
		if diff := cmp.Diff(wantProgress, snap.Progress); diff != "" {
			t.Errorf("progress mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("dailyMinutes add to aggregate logs on the same day", func(t *testing.T) {
		raw := `{
			"logs": [
				{"id": "l1", "date": "2026-01-01", "minutes": 5},
				{"id": "l2", "date": "2026-01-01", "minutes": 7}
			],
			"dailyMinutes": [
				{"id": "d1", "date": "2026-01-01", "minutes": 3},
				{"id": "d2", "date": "2026-01-02", "minutes": 4}
			]
		}`
		snap, err := Normalize([]byte(raw))
		if err != nil {
			t.Fatalf("Normalize() error: %v", err)
		}
		want := []models.MinutesEntry{
			{ID: "l1", Date: "2026-01-01", Minutes: 15},
			{ID: "d2", Date: "2026-01-02", Minutes: 4},
		}
		if diff := cmp.Diff(want, snap.Logs); diff != "" {
			t.Errorf("logs mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestNormalizeSaturatesHugeNumbers(t *testing.T) {
	raw := `{"books": [
		{"id": "a", "title": "Huge", "totalPages": 1e30},
		{"id": "b", "title": "Negative", "totalPages": -1e30}
	]}`
	snap, err := Normalize([]byte(raw))
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	if got := snap.Books[0].TotalPages; got != math.MaxInt32 {
		t.Errorf("TotalPages = %d, want %d", got, math.MaxInt32)
	}
	if got := snap.Books[1].TotalPages; got != 0 {
		t.Errorf("TotalPages = %d, want 0", got)
	}
}

func TestNormalizeSkipsNonObjectRecords(t *testing.T) {
	sequentialIDs(t)

	snap, err := Normalize([]byte(`{"books": [1, "x", null, {"id": "ok", "title": "T"}], "logs": "nope"}`))
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	if len(snap.Books) != 1 || snap.Books[0].ID != "ok" {
		t.Errorf("Books = %+v, want only the object record", snap.Books)
	}
	if len(snap.Logs) != 0 {
		t.Errorf("Logs = %+v, want empty", snap.Logs)
	}
}

func TestNormalizeRejectsUnparseable(t *testing.T) {
	inputs := []string{``, `not json`, `null`, `[1,2]`, `{"settings":`}
	for _, in := range inputs {
		if _, err := Normalize([]byte(in)); err == nil {
			t.Errorf("Normalize(%q) succeeded, want error", in)
		}
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	sequentialIDs(t)

	inputs := []string{
		`{}`,
		`{"settings":{"pagesPerHour":-3},"books":[{"title":"No id","finished":true}],"logs":[{"date":"2026-01-01","minutes":5},{"date":"2026-01-01","minutes":6}]}`,
		`{"dailyMinutes":[{"date":"2026-02-01","minutes":12}],"progress":[{"bookId":"x","currentPage":-1}]}`,
	}

	for _, in := range inputs {
		first, err := Normalize([]byte(in))
		if err != nil {
			t.Fatalf("Normalize(%s) error: %v", in, err)
		}
		data, err := json.Marshal(first)
		if err != nil {
			t.Fatal(err)
		}
		second, err := Normalize(data)
		if err != nil {
			t.Fatalf("second Normalize() error: %v", err)
		}
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("normalize is not idempotent for %s (-first +second):\n%s", in, diff)
		}
	}
}
