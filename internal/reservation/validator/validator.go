// Package validator decides whether an in-progress booking may be submitted
// and which slot times are still offered. It never reads the clock itself;
// every check takes the current time from the caller.
package validator

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	apperrors "reserva/internal/errors"
	"reserva/internal/slot"
)

const (
	DateLayout            = "2006-01-02"
	DefaultMaxAdvanceDays = 30
)

const (
	MsgQuantityMin       = "quantity must be at least 1"
	MsgSelectDateAndTime = "select date and time"
	MsgSelectDate        = "select a reservation date"
	MsgPastTime          = "cannot book a time that has already passed today"
	MsgUnknownTime       = "select one of the available times"
	MsgDatePast          = "date cannot be before today"
	MsgDateFormat        = "date must use the YYYY-MM-DD format"
)

func StockExceededMessage(stock int) string {
	return fmt.Sprintf("maximum available stock: %d", stock)
}

func DateTooFarMessage(days int) string {
	return fmt.Sprintf("date must be within %d days from today", days)
}

// Request is the state of a booking form at submit time. Slots empty means
// the product has no time restriction.
type Request struct {
	Quantity int
	Stock    int
	Date     string
	Time     string
	Slots    []string
}

type Validator struct {
	loc            *time.Location
	maxAdvanceDays int
}

func New(loc *time.Location, maxAdvanceDays int) *Validator {
	if loc == nil {
		loc = time.Local
	}
	if maxAdvanceDays <= 0 {
		maxAdvanceDays = DefaultMaxAdvanceDays
	}
	return &Validator{loc: loc, maxAdvanceDays: maxAdvanceDays}
}

func (v *Validator) Location() *time.Location {
	return v.loc
}

func (v *Validator) MaxAdvanceDays() int {
	return v.maxAdvanceDays
}

func (v *Validator) Today(now time.Time) string {
	return now.In(v.loc).Format(DateLayout)
}

func (v *Validator) MaxDate(now time.Time) string {
	return now.In(v.loc).AddDate(0, 0, v.maxAdvanceDays).Format(DateLayout)
}

func (v *Validator) IsToday(date string, now time.Time) bool {
	return date == v.Today(now)
}

// ValidForToday is the same-day cutoff: a slot is still offered when its
// HH:MM compares greater than or equal to the current HH:MM.
func (v *Validator) ValidForToday(hhmm string, now time.Time) bool {
	return hhmm >= slot.FromTime(now.In(v.loc)).String()
}

// OfferedSlots filters slots by the same-day cutoff when date is today and
// returns them untouched for any other date.
func (v *Validator) OfferedSlots(slots []string, date string, now time.Time) []string {
	if !v.IsToday(date, now) {
		return slots
	}
	offered := make([]string, 0, len(slots))
	for _, s := range slots {
		if v.ValidForToday(s, now) {
			offered = append(offered, s)
		}
	}
	return offered
}

// FirstOffered returns the first offered slot for date, or "".
func (v *Validator) FirstOffered(slots []string, date string, now time.Time) string {
	offered := v.OfferedSlots(slots, date, now)
	if len(offered) == 0 {
		return ""
	}
	return offered[0]
}

// CheckDate validates date against [today, today+maxAdvanceDays].
func (v *Validator) CheckDate(date string, now time.Time) error {
	parsed, err := time.ParseInLocation(DateLayout, date, v.loc)
	if err != nil {
		return dateError(MsgDateFormat)
	}
	canonical := parsed.Format(DateLayout)

	if canonical < v.Today(now) {
		return dateError(MsgDatePast)
	}
	if canonical > v.MaxDate(now) {
		return dateError(DateTooFarMessage(v.maxAdvanceDays))
	}
	return nil
}

// CheckSubmit runs every submit rule and reports each violation as its own
// detail. The error message is the first violation.
func (v *Validator) CheckSubmit(req Request, now time.Time) error {
	var details []apperrors.ValidationDetail

	if err := CheckQuantity(req.Quantity, req.Stock); err != nil {
		details = append(details, detailsOf(err)...)
	}

	restricted := len(req.Slots) > 0
	date := strings.TrimSpace(req.Date)
	hhmm := strings.TrimSpace(req.Time)

	switch {
	case restricted && (date == "" || hhmm == ""):
		field := "time"
		if date == "" {
			field = "date"
		}
		details = append(details, apperrors.ValidationDetail{Field: field, Message: MsgSelectDateAndTime})
	case !restricted && date == "":
		details = append(details, apperrors.ValidationDetail{Field: "date", Message: MsgSelectDate})
	}

	dateOK := false
	if date != "" {
		if err := v.CheckDate(date, now); err != nil {
			details = append(details, detailsOf(err)...)
		} else {
			dateOK = true
		}
	}

	if restricted && dateOK && hhmm != "" {
		switch {
		case !slices.Contains(req.Slots, hhmm):
			details = append(details, apperrors.ValidationDetail{Field: "time", Message: MsgUnknownTime})
		case v.IsToday(date, now) && !v.ValidForToday(hhmm, now):
			details = append(details, apperrors.ValidationDetail{Field: "time", Message: MsgPastTime})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError(details[0].Message, details...)
	}
	return nil
}

// CheckQuantity rejects anything outside [1, stock].
func CheckQuantity(quantity, stock int) error {
	if quantity < 1 {
		return quantityError(MsgQuantityMin)
	}
	if quantity > stock {
		return quantityError(StockExceededMessage(stock))
	}
	return nil
}

// Increment adds one unit unless that would exceed stock, in which case the
// quantity is returned unchanged with the stock error.
func Increment(quantity, stock int) (int, error) {
	if quantity < stock {
		return quantity + 1, nil
	}
	return quantity, quantityError(StockExceededMessage(stock))
}

// Decrement removes one unit, stopping at 1.
func Decrement(quantity int) int {
	if quantity > 1 {
		return quantity - 1
	}
	return quantity
}

// SetQuantity applies a typed value: unparsable or below 1 becomes 1, above
// stock keeps current and reports the stock error.
func SetQuantity(raw string, current, stock int) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 1 {
		value = 1
	}
	if value > stock {
		return current, quantityError(StockExceededMessage(stock))
	}
	return value, nil
}

func quantityError(msg string) error {
	return apperrors.NewValidationError(msg, apperrors.ValidationDetail{Field: "quantity", Message: msg})
}

func dateError(msg string) error {
	return apperrors.NewValidationError(msg, apperrors.ValidationDetail{Field: "date", Message: msg})
}

func detailsOf(err error) []apperrors.ValidationDetail {
	if ve, ok := apperrors.IsValidationError(err); ok {
		return ve.Details
	}
	return []apperrors.ValidationDetail{{Message: err.Error()}}
}
