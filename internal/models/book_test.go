package models

import "testing"

func TestParseReadingState(t *testing.T) {
	tests := []struct {
		input   string
		want    ReadingState
		wantErr bool
	}{
		{"not_started", StateNotStarted, false},
		{"active", StateActive, false},
		{"finished", StateFinished, false},
		{"reading", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseReadingState(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseReadingState() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseReadingState() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyDefaultSettings(t *testing.T) {
	settings := Settings{Year: 0, BooksGoal: -1, MinutesGoal: 0, PagesPerHour: 0}
	ApplyDefaultSettings(&settings)

	if settings.Year != 2026 {
		t.Errorf("Year = %d, want 2026", settings.Year)
	}
	if settings.BooksGoal != 52 {
		t.Errorf("BooksGoal = %d, want 52", settings.BooksGoal)
	}
	if settings.MinutesGoal != 0 {
		t.Errorf("MinutesGoal = %d, want 0 to be kept", settings.MinutesGoal)
	}
	if settings.PagesPerHour != 30 {
		t.Errorf("PagesPerHour = %v, want 30", settings.PagesPerHour)
	}
}
