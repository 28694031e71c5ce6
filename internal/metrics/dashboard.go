package metrics

import (
	"sort"

	"github.com/julianstephens/readlit/internal/constants"
	"github.com/julianstephens/readlit/internal/ledger"
	"github.com/julianstephens/readlit/internal/models"
)

// LogLine is a log entry with its book reference resolved for display.
type LogLine struct {
	Entry     models.MinutesEntry
	BookTitle string
}

// Dashboard is the home screen: year goals, habit counters, and the books
// that need attention.
type Dashboard struct {
	Policy       AllocationPolicy
	Today        string
	Year         YearMetrics
	Streak       int
	WeekMinutes  int
	Current      []BookSummary // unfinished books by finish date
	Behind       []BookSummary // behind books by finish date
	BehindCount  int
	OnTrackCount int
	Recent       []LogLine
}

// Dashboard assembles the full home screen in one pass.
func (e *Engine) Dashboard(l *ledger.Ledger) Dashboard {
	d := Dashboard{
		Policy:      e.policy,
		Today:       e.today,
		Year:        e.Year(l),
		Streak:      e.Streak(l),
		WeekMinutes: e.MinutesThisWeek(l),
	}

	var unfinished []BookSummary
	for _, book := range l.Books() {
		if book.Finished() {
			continue
		}
		unfinished = append(unfinished, e.Summary(l, book))
	}
	SortByFinishDate(unfinished)

	var behind []BookSummary
	for _, s := range unfinished {
		switch s.Status {
		case StatusBehind:
			d.BehindCount++
			behind = append(behind, s)
		case StatusOnTrack:
			d.OnTrackCount++
		}
	}

	d.Current = limit(unfinished, constants.DashboardCurrentLimit)
	d.Behind = limit(behind, constants.DashboardBehindLimit)
	d.Recent = RecentLogs(l, constants.DashboardRecentLimit)

	return d
}

// RecentLogs returns up to n log lines, newest first.
func RecentLogs(l *ledger.Ledger, n int) []LogLine {
	entries := l.FilterLogs(ledger.LogFilter{})
	if len(entries) > n {
		entries = entries[:n]
	}
	lines := make([]LogLine, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, LogLine{Entry: entry, BookTitle: l.BookTitle(entry.BookID)})
	}
	return lines
}

// SortByFinishDate orders by finish date ascending; books without one go last.
func SortByFinishDate(summaries []BookSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i].Book.FinishDate, summaries[j].Book.FinishDate
		if a == "" || b == "" {
			return a != "" && b == ""
		}
		return a < b
	})
}

func limit(summaries []BookSummary, n int) []BookSummary {
	if len(summaries) > n {
		return summaries[:n]
	}
	return summaries
}
