package constants

const (
	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// WeekWindowDays is the length of the trailing "this week" window, today included.
	WeekWindowDays = 7
)
