package validation

import (
	"strings"
	"testing"

	"github.com/julianstephens/readlit/internal/models"
)

func cleanSnapshot() models.Snapshot {
	return models.Snapshot{
		Version:  2,
		Settings: models.DefaultSettings(),
		Books: []models.Book{
			{ID: "b1", Title: "Dune", TotalPages: 400, StartDate: "2026-01-01", FinishDate: "2026-02-01", State: models.StateActive},
			{ID: "b2", Title: "Emma", TotalPages: 300, State: models.StateNotStarted},
		},
		Logs: []models.MinutesEntry{
			{ID: "l1", Date: "2026-01-02", Minutes: 30, Pages: 15, BookID: "b1"},
			{ID: "l2", Date: "2026-01-02", Minutes: 10},
		},
		Progress: []models.ProgressEntry{
			{ID: "p1", Date: "2026-01-03", BookID: "b1", CurrentPage: 40},
		},
	}
}

func TestValidate_CleanSnapshot(t *testing.T) {
	result := New().Validate(cleanSnapshot())
	if result.HasConflicts() {
		t.Fatalf("expected no conflicts, got:\n%s", result.FormatReport())
	}
	if got := result.FormatReport(); got != "No conflicts detected." {
		t.Errorf("FormatReport() = %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Snapshot)
		kind   ConflictType
		want   int
	}{
		{
			name: "dangling log reference",
			mutate: func(s *models.Snapshot) {
				s.Logs = append(s.Logs, models.MinutesEntry{ID: "l3", Date: "2026-01-04", Minutes: 5, BookID: "gone"})
			},
			kind: ConflictDanglingReference,
			want: 1,
		},
		{
			name: "dangling progress reference",
			mutate: func(s *models.Snapshot) {
				s.Progress = append(s.Progress, models.ProgressEntry{ID: "p2", Date: "2026-01-04", BookID: "gone", CurrentPage: 1})
			},
			kind: ConflictDanglingReference,
			want: 1,
		},
		{
			name: "invalid dates",
			mutate: func(s *models.Snapshot) {
				s.Books[1].FinishDate = "2026-13-01"
				s.Logs[0].Date = "yesterday"
				s.Progress[0].Date = ""
			},
			kind: ConflictInvalidDate,
			want: 3,
		},
		{
			name: "finish before start",
			mutate: func(s *models.Snapshot) {
				s.Books[0].FinishDate = "2025-12-01"
			},
			kind: ConflictFinishBeforeStart,
			want: 1,
		},
		{
			name: "duplicate aggregate dates",
			mutate: func(s *models.Snapshot) {
				s.Logs = append(s.Logs, models.MinutesEntry{ID: "l3", Date: "2026-01-02", Minutes: 20})
			},
			kind: ConflictDuplicateAggregate,
			want: 1,
		},
		{
			name: "per-book logs may share a date",
			mutate: func(s *models.Snapshot) {
				s.Logs = append(s.Logs, models.MinutesEntry{ID: "l3", Date: "2026-01-02", Minutes: 20, BookID: "b1"})
			},
			kind: ConflictDuplicateAggregate,
			want: 0,
		},
		{
			name: "duplicate ids across collections",
			mutate: func(s *models.Snapshot) {
				s.Progress[0].ID = "l1"
			},
			kind: ConflictDuplicateID,
			want: 1,
		},
		{
			name: "duplicate titles ignore case",
			mutate: func(s *models.Snapshot) {
				s.Books = append(s.Books, models.Book{ID: "b3", Title: "dune "})
			},
			kind: ConflictDuplicateTitle,
			want: 1,
		},
		{
			name: "progress past the last page",
			mutate: func(s *models.Snapshot) {
				s.Progress[0].CurrentPage = 401
			},
			kind: ConflictPageOutOfRange,
			want: 1,
		},
		{
			name: "book without id",
			mutate: func(s *models.Snapshot) {
				s.Books = append(s.Books, models.Book{Title: "Anonymous"})
			},
			kind: ConflictMissingID,
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := cleanSnapshot()
			tt.mutate(&snap)

			result := New().Validate(snap)
			if got := result.Count(tt.kind); got != tt.want {
				t.Errorf("Count(%s) = %d, want %d\n%s", tt.kind, got, tt.want, result.FormatReport())
			}
		})
	}
}

func TestFormatReport(t *testing.T) {
	snap := cleanSnapshot()
	snap.Logs = append(snap.Logs, models.MinutesEntry{ID: "l3", Date: "2026-01-04", Minutes: 5, BookID: "gone"})

	report := New().Validate(snap)
	got := report.FormatReport()
	if !strings.HasPrefix(got, "Conflicts detected:\n") {
		t.Errorf("report missing header: %q", got)
	}
	if !strings.Contains(got, "references missing book gone") {
		t.Errorf("report missing conflict description: %q", got)
	}
}
