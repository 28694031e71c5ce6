package constants

const (
	// Default Settings Values
	DefaultYear         = 2026
	DefaultBooksGoal    = 52
	DefaultMinutesGoal  = 30000
	DefaultPagesPerHour = 30.0

	DefaultTimezone = "Local" // Use system local timezone by default
)
