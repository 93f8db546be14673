package domain

import "fmt"

// NullStrategy selects how missing values (weekends, holidays) are filled.
type NullStrategy string

const (
	PreviousDay NullStrategy = "previous_day"
	LastWeekAvg NullStrategy = "last_week_avg"
	Skip        NullStrategy = "skip"
)

func ParseNullStrategy(s string) (NullStrategy, error) {
	switch NullStrategy(s) {
	case PreviousDay, LastWeekAvg, Skip:
		return NullStrategy(s), nil
	}
	return "", fmt.Errorf("%w: %q, allowed: previous_day, last_week_avg, skip", ErrInvalidStrategy, s)
}
