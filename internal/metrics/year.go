package metrics

import (
	"math"

	"github.com/julianstephens/readlit/internal/constants"
	"github.com/julianstephens/readlit/internal/ledger"
	"github.com/julianstephens/readlit/internal/utils"
)

// YearPace is the year-level pacing verdict.
type YearPace string

const (
	// PaceNotApplicable means no minutes goal is set, so pacing is disabled.
	PaceNotApplicable YearPace = "n/a"
	PaceOnTrack       YearPace = "on_track"
	PaceBehind        YearPace = "behind"
)

// YearMetrics aggregates progress toward the configured yearly goals.
type YearMetrics struct {
	Year                int
	Planned             int
	Finished            int
	MinutesDone         int
	MinutesGoal         int
	BooksGoal           int
	Elapsed             int
	TotalDays           int
	MinutesPerDay       int
	BooksPct            float64 // clamped to [0,1]
	MinutesPct          float64 // clamped to [0,1]
	MinutesPerDayTarget int     // 0 when no minutes goal is set
	Pace                YearPace
}

// Year computes the goal dashboard for the configured year.
func (e *Engine) Year(l *ledger.Ledger) YearMetrics {
	settings := l.Settings()
	m := YearMetrics{
		Year:        settings.Year,
		MinutesGoal: settings.MinutesGoal,
		BooksGoal:   settings.BooksGoal,
		TotalDays:   utils.DaysInYear(settings.Year),
		Elapsed:     e.dayOfYear(settings.Year),
		MinutesDone: e.yearMinutes(l, settings.Year),
	}

	for _, book := range l.Books() {
		m.Planned++
		if book.Finished() {
			m.Finished++
		}
	}

	m.MinutesPerDay = int(math.Round(float64(m.MinutesDone) / float64(max(1, m.Elapsed))))

	if m.BooksGoal > 0 {
		m.BooksPct = clamp01(float64(m.Finished) / float64(m.BooksGoal))
	}
	if m.MinutesGoal > 0 {
		m.MinutesPct = clamp01(float64(m.MinutesDone) / float64(m.MinutesGoal))
		m.MinutesPerDayTarget = int(math.Round(float64(m.MinutesGoal) / float64(m.TotalDays)))
	}

	switch {
	case m.MinutesPerDayTarget == 0:
		m.Pace = PaceNotApplicable
	case m.MinutesPerDay >= m.MinutesPerDayTarget:
		m.Pace = PaceOnTrack
	default:
		m.Pace = PaceBehind
	}

	return m
}

// Streak counts consecutive days, ending today, with more than zero minutes logged.
func (e *Engine) Streak(l *ledger.Ledger) int {
	totals := dailyTotals(l)

	streak := 0
	day := e.today
	for totals[day] > 0 {
		streak++
		prev, err := utils.AddDays(day, -1)
		if err != nil {
			break
		}
		day = prev
	}
	return streak
}

// MinutesThisWeek sums the minutes logged in the seven days ending today.
func (e *Engine) MinutesThisWeek(l *ledger.Ledger) int {
	from, err := utils.AddDays(e.today, -(constants.WeekWindowDays - 1))
	if err != nil {
		return 0
	}

	total := 0
	for _, entry := range l.Logs() {
		if utils.ValidateDate(entry.Date) && utils.InRange(entry.Date, from, e.today) {
			total += entry.Minutes
		}
	}
	return total
}

func (e *Engine) dayOfYear(year int) int {
	return utils.DayOfYear(year, e.today)
}

func (e *Engine) yearMinutes(l *ledger.Ledger, year int) int {
	total := 0
	for _, entry := range l.Logs() {
		if utils.InYear(entry.Date, year) {
			total += entry.Minutes
		}
	}
	return total
}

// dailyTotals sums minutes per date across every book and aggregate entry.
func dailyTotals(l *ledger.Ledger) map[string]int {
	totals := make(map[string]int)
	for _, entry := range l.Logs() {
		totals[entry.Date] += entry.Minutes
	}
	return totals
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
