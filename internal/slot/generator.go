// Package slot computes the bookable start times of a venue.
package slot

import (
	"time"

	apperrors "reserva/internal/errors"
)

const (
	Step     = 30 * time.Minute
	MaxSlots = 48

	stepMinutes = 30
)

// Generate lists start times from opens in 30 minute steps while the next
// step, formatted as zero-padded HH:MM, does not compare greater than closes.
//
// The comparison is lexicographic on purpose: a closing time of "00:00" stops
// after the first slot instead of meaning end of day. At most MaxSlots entries
// are produced whatever the input. closes may be "24:00", which keeps a
// trailing "24:00" entry.
func Generate(opens, closes string) ([]string, error) {
	start, err := ParseTimeOfDay(opens)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid opening time", apperrors.ValidationDetail{
			Field:   "opens",
			Message: err.Error(),
		})
	}

	end, err := ParseClosingTime(closes)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid closing time", apperrors.ValidationDetail{
			Field:   "closes",
			Message: err.Error(),
		})
	}
	limit := end.String()

	slots := make([]string, 0, MaxSlots)
	current := start
	for i := 0; i < MaxSlots; i++ {
		slots = append(slots, current.String())

		next := current.Next()
		if next.String() > limit {
			break
		}
		current = next
	}

	return slots, nil
}
