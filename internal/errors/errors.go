package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/vistara-apps/energyflow/internal/logger"
)

var (
	// ErrUnknownHabit is returned when a habit id resolves to neither the
	// catalog nor the user's generated habits.
	ErrUnknownHabit = stderrors.New("unknown habit")
	// ErrInvalidEnergyLevel is returned for CLI input outside 1-5. The engine
	// itself clamps instead of failing.
	ErrInvalidEnergyLevel = stderrors.New("energy level must be between 1 and 5")
	// ErrNotOnboarded is returned by commands that need a saved user.
	ErrNotOnboarded = stderrors.New("no saved user")
)

var hints = map[error]string{
	ErrUnknownHabit:       "run 'energyflow suggest' or 'energyflow recommend' to see habit ids",
	ErrInvalidEnergyLevel: "pass a value such as --energy 3",
	ErrNotOnboarded:       "run 'energyflow onboard' or 'energyflow suggest' first",
}

// Format formats an error message with a consistent "Error: " prefix.
// Known sentinel errors get a hint line appended.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\nHint: " + hint
	}
	return msg
}

// Hint returns the help text for the first known sentinel wrapped by err.
func Hint(err error) string {
	for sentinel, hint := range hints {
		if stderrors.Is(err, sentinel) {
			return hint
		}
	}
	return ""
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
