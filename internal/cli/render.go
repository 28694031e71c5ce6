package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/readlit/internal/metrics"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	GoodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	BadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	WarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)
)

// StatusBadge renders a book status with its color.
func StatusBadge(s metrics.Status) string {
	switch s {
	case metrics.StatusOnTrack, metrics.StatusDone:
		return GoodStyle.Render(s.Label())
	case metrics.StatusBehind:
		return BadStyle.Render(s.Label())
	default:
		return WarnStyle.Render(s.Label())
	}
}

// PaceBadge renders the year pacing verdict.
func PaceBadge(p metrics.YearPace) string {
	switch p {
	case metrics.PaceOnTrack:
		return GoodStyle.Render("On Track")
	case metrics.PaceBehind:
		return BadStyle.Render("Behind")
	default:
		return MutedStyle.Render("n/a")
	}
}

// Bar draws a fixed-width progress bar for a fraction in [0,1].
func Bar(frac float64, width int) string {
	frac = math.Min(1, math.Max(0, frac))
	filled := int(math.Round(frac * float64(width)))
	return strings.Repeat("█", filled) + MutedStyle.Render(strings.Repeat("░", width-filled))
}

// Percent formats a fraction as a whole percentage.
func Percent(frac float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(frac*100)))
}

// Thousands groups digits with commas.
func Thousands(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// DateOrDash renders an empty date as a dash.
func DateOrDash(date string) string {
	if date == "" {
		return "—"
	}
	return date
}

// ShortID trims a generated id for display; FindBook accepts the prefix.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// NewTable returns a bordered table with the shared header style.
func NewTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(MutedStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}
