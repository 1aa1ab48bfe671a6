package slot

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time without a date. Hour is not wrapped at 24.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay accepts "H:MM", "HH:MM" and "HH:MM:SS" (seconds are checked, then dropped).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: expected HH:MM", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: hour out of range", s)
	}

	if len(parts[1]) != 2 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: minutes must have two digits", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: minute out of range", s)
	}

	if len(parts) == 3 {
		second, err := strconv.Atoi(parts[2])
		if len(parts[2]) != 2 || err != nil || second < 0 || second > 59 {
			return TimeOfDay{}, fmt.Errorf("invalid time of day %q: second out of range", s)
		}
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// ParseClosingTime is ParseTimeOfDay that also takes "24:00" (and "24:00:00")
// for venues open until the end of the day.
func ParseClosingTime(s string) (TimeOfDay, error) {
	switch strings.TrimSpace(s) {
	case "24:00", "24:00:00":
		return TimeOfDay{Hour: 24}, nil
	}
	return ParseTimeOfDay(s)
}

// FromTime takes the wall clock of t in its own location.
func FromTime(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

// Next steps forward by 30 minutes. On minute overflow the minute resets to
// zero and the hour is incremented; there is no rollover past midnight.
func (t TimeOfDay) Next() TimeOfDay {
	minute := t.Minute + stepMinutes
	hour := t.Hour
	if minute >= 60 {
		minute = 0
		hour++
	}
	return TimeOfDay{Hour: hour, Minute: minute}
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Normalize rewrites a stored time ("9:00", "09:00:00") to its zero-padded
// HH:MM form. Empty input stays empty.
func Normalize(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	t, err := ParseTimeOfDay(s)
	if err != nil {
		return "", err
	}
	return t.String(), nil
}
