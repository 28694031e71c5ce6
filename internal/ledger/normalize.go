package ledger

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/readlit/internal/constants"
	"github.com/julianstephens/readlit/internal/models"
)

// NewID generates record identifiers. Tests may replace it for deterministic ids.
var NewID = uuid.NewString

type rawRecord map[string]json.RawMessage

// Normalize decodes a raw snapshot of any known version and migrates it to the
// current shape. Missing or mistyped fields get defaults instead of failing;
// only input that is not a JSON object is rejected. Normalizing the output of
// Normalize again yields the same snapshot.
func Normalize(raw []byte) (models.Snapshot, error) {
	var top rawRecord
	if err := json.Unmarshal(raw, &top); err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if top == nil {
		return models.Snapshot{}, fmt.Errorf("failed to parse snapshot: not a JSON object")
	}

	version, ok := intField(top["version"])
	if !ok || version < 1 {
		version = 1
	}

	snap := models.Snapshot{
		Version:  constants.SnapshotVersion,
		Settings: normalizeSettings(top["settings"]),
		Books:    []models.Book{},
		Logs:     []models.MinutesEntry{},
		Progress: []models.ProgressEntry{},
	}

	for _, rec := range records(top["books"]) {
		snap.Books = append(snap.Books, normalizeBook(rec))
	}

	var logs []models.MinutesEntry
	for _, rec := range records(top["logs"]) {
		logs = append(logs, normalizeLog(rec, false))
	}
	// Version 1 per-book snapshots allowed several unassigned logs per day;
	// fold them into one aggregate entry without losing minutes.
	snap.Logs = append(snap.Logs, collapseAggregates(logs, version < constants.SnapshotVersion)...)

	// Legacy aggregate-model snapshots keep one total per day under dailyMinutes.
	// A later row for a date replaces an earlier one, but a day that also has
	// an aggregate log keeps the minutes from both.
	var daily []models.MinutesEntry
	for _, rec := range records(top["dailyMinutes"]) {
		daily = append(daily, normalizeLog(rec, true))
	}
	if len(daily) > 0 {
		snap.Logs = collapseAggregates(append(snap.Logs, collapseAggregates(daily, false)...), true)
	}

	for _, rec := range records(top["progress"]) {
		snap.Progress = append(snap.Progress, normalizeProgress(rec))
	}

	return snap, nil
}

// EmptySnapshot returns a normalized snapshot with default settings and no records.
func EmptySnapshot() models.Snapshot {
	return models.Snapshot{
		Version:  constants.SnapshotVersion,
		Settings: models.DefaultSettings(),
		Books:    []models.Book{},
		Logs:     []models.MinutesEntry{},
		Progress: []models.ProgressEntry{},
	}
}

func normalizeSettings(raw json.RawMessage) models.Settings {
	settings := models.DefaultSettings()

	var rec rawRecord
	if len(raw) == 0 || json.Unmarshal(raw, &rec) != nil {
		return settings
	}

	if v, ok := intField(rec["year"]); ok {
		settings.Year = v
	}
	if v, ok := intField(rec["booksGoal"]); ok {
		settings.BooksGoal = v
	}
	if v, ok := intField(rec["minutesGoal"]); ok {
		settings.MinutesGoal = v
	}
	if v, ok := floatField(rec["pagesPerHour"]); ok {
		settings.PagesPerHour = v
	}

	models.ApplyDefaultSettings(&settings)
	return settings
}

func normalizeBook(rec rawRecord) models.Book {
	book := models.Book{
		ID:         idField(rec),
		Title:      stringField(rec["title"]),
		TotalPages: nonNegative(rec["totalPages"]),
		StartDate:  stringField(rec["startDate"]),
		FinishDate: stringField(rec["finishDate"]),
	}

	state := models.ReadingState(stringField(rec["state"]))
	switch {
	case state.Valid():
		book.State = state
	case boolField(rec["finished"]):
		book.State = models.StateFinished
	case boolField(rec["currentlyReading"]):
		book.State = models.StateActive
	default:
		book.State = models.StateNotStarted
	}

	return book
}

func normalizeLog(rec rawRecord, aggregate bool) models.MinutesEntry {
	entry := models.MinutesEntry{
		ID:      idField(rec),
		Date:    stringField(rec["date"]),
		Minutes: nonNegative(rec["minutes"]),
		Pages:   nonNegative(rec["pages"]),
	}
	if !aggregate {
		entry.BookID = stringField(rec["bookId"])
	}
	return entry
}

func normalizeProgress(rec rawRecord) models.ProgressEntry {
	return models.ProgressEntry{
		ID:          idField(rec),
		Date:        stringField(rec["date"]),
		BookID:      stringField(rec["bookId"]),
		CurrentPage: nonNegative(rec["currentPage"]),
	}
}

// collapseAggregates enforces one aggregate entry per date. The first entry
// for a date keeps its position and id. Later duplicates either add to it
// (sum) or replace its values, matching an in-place overwrite.
func collapseAggregates(entries []models.MinutesEntry, sum bool) []models.MinutesEntry {
	out := make([]models.MinutesEntry, 0, len(entries))
	seen := make(map[string]int)

	for _, entry := range entries {
		if !entry.Aggregate() {
			out = append(out, entry)
			continue
		}
		idx, ok := seen[entry.Date]
		if !ok {
			seen[entry.Date] = len(out)
			out = append(out, entry)
			continue
		}
		if sum {
			out[idx].Minutes += entry.Minutes
			out[idx].Pages += entry.Pages
		} else {
			out[idx].Minutes = entry.Minutes
			out[idx].Pages = entry.Pages
		}
	}

	return out
}

func records(raw json.RawMessage) []rawRecord {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return nil
	}

	out := make([]rawRecord, 0, len(items))
	for _, item := range items {
		var rec rawRecord
		if json.Unmarshal(item, &rec) != nil || rec == nil {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func idField(rec rawRecord) string {
	if id := stringField(rec["id"]); id != "" {
		return id
	}
	return NewID()
}

func stringField(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func boolField(raw json.RawMessage) bool {
	var b bool
	if len(raw) == 0 || json.Unmarshal(raw, &b) != nil {
		return false
	}
	return b
}

// floatField accepts JSON numbers and numeric strings.
func floatField(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// intField rounds to the nearest integer, saturating at the int32 range so
// absurd values stay large instead of wrapping.
func intField(raw json.RawMessage) (int, bool) {
	f, ok := floatField(raw)
	if !ok {
		return 0, false
	}
	f = math.Max(math.MinInt32, math.Min(math.MaxInt32, math.Round(f)))
	return int(f), true
}

func nonNegative(raw json.RawMessage) int {
	v, _ := intField(raw)
	return max(0, v)
}
