package errors

import (
	"fmt"
	"io"

	"github.com/julianstephens/readlit/internal/logger"
)

// Format prefixes an error for display. A nil error formats as "".
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Report logs err and writes its formatted message to w. It returns false for a nil error.
func Report(w io.Writer, err error) bool {
	if err == nil {
		return false
	}
	logger.Error("command failed", "error", err)
	fmt.Fprintln(w, Format(err))
	return true
}
