package models

import "github.com/julianstephens/readlit/internal/constants"

// Settings holds the reading goals and the reading speed used for estimates.
type Settings struct {
	Year         int     `json:"year"`         // goal year
	BooksGoal    int     `json:"booksGoal"`    // books to finish in Year
	MinutesGoal  int     `json:"minutesGoal"`  // minutes to read in Year, 0 disables year pacing
	PagesPerHour float64 `json:"pagesPerHour"` // reading speed, converts pages left into minutes
}

// DefaultSettings returns the settings used when none are stored.
func DefaultSettings() Settings {
	return Settings{
		Year:         constants.DefaultYear,
		BooksGoal:    constants.DefaultBooksGoal,
		MinutesGoal:  constants.DefaultMinutesGoal,
		PagesPerHour: constants.DefaultPagesPerHour,
	}
}

// ApplyDefaultSettings replaces unusable values with defaults. Goals of zero are
// kept since zero means "no goal"; negative goals and speeds are not.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Year <= 0 {
		settings.Year = constants.DefaultYear
	}
	if settings.BooksGoal < 0 {
		settings.BooksGoal = constants.DefaultBooksGoal
	}
	if settings.MinutesGoal < 0 {
		settings.MinutesGoal = constants.DefaultMinutesGoal
	}
	if settings.PagesPerHour <= 0 {
		settings.PagesPerHour = constants.DefaultPagesPerHour
	}
}
