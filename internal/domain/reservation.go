package domain

import "time"

// ReservationStatus mirrors the service's estado_id.
type ReservationStatus int

const (
	ReservationStatusPending   ReservationStatus = 1
	ReservationStatusConfirmed ReservationStatus = 2
	ReservationStatusCanceled  ReservationStatus = 3
)

func (s ReservationStatus) String() string {
	switch s {
	case ReservationStatusPending:
		return "PENDING"
	case ReservationStatusConfirmed:
		return "CONFIRMED"
	case ReservationStatusCanceled:
		return "CANCELED"
	default:
		return "UNKNOWN"
	}
}

type ReservationAction string

const (
	ActionConfirm ReservationAction = "confirm"
	ActionCancel  ReservationAction = "cancel"
)

var transitionMap = map[ReservationAction][]ReservationStatus{
	ActionConfirm: {ReservationStatusPending},
	ActionCancel:  {ReservationStatusPending, ReservationStatusConfirmed},
}

func ValidTransition(action ReservationAction, from ReservationStatus) bool {
	for _, status := range transitionMap[action] {
		if status == from {
			return true
		}
	}
	return false
}

type ReservationLine struct {
	ID          int
	ProductID   int
	ProductName string
	Quantity    int
	UnitPrice   float64
	Subtotal    float64
}

// Reservation is owned by the reservation service; this side only reads it.
type Reservation struct {
	ID          int
	CompanyID   int
	CompanyName string
	UserID      int
	Status      ReservationStatus
	ScheduledAt *time.Time
	CreatedAt   time.Time
	Lines       []ReservationLine
}

func (r Reservation) Total() float64 {
	total := 0.0
	for _, line := range r.Lines {
		total += line.Subtotal
	}
	return total
}

// HasElapsed reports whether the scheduled date/time is before now. A
// reservation without a scheduled time never elapses.
func (r Reservation) HasElapsed(now time.Time) bool {
	return r.ScheduledAt != nil && r.ScheduledAt.Before(now)
}

func (r Reservation) CanConfirm(now time.Time) bool {
	return ValidTransition(ActionConfirm, r.Status) && !r.HasElapsed(now)
}

func (r Reservation) CanCancel(now time.Time) bool {
	return ValidTransition(ActionCancel, r.Status) && !r.HasElapsed(now)
}

// ReservationRequest is a single-line booking built by the booking form. It is
// never stored; the reservation service is the system of record.
type ReservationRequest struct {
	CompanyID int
	ProductID int
	Quantity  int
	Date      string
	Time      string
}
