// Package form holds the state of a single-product booking while the user
// edits it: quantity, date, time and the slot list fetched for the product.
//
// A Form has one writer. Slot loads may finish on another goroutine, so the
// fields are guarded by a mutex and every load carries a generation number;
// a load that was superseded before it finished is dropped.
package form

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"reserva/internal/domain"
	apperrors "reserva/internal/errors"
	"reserva/internal/reservation/validator"
	"reserva/internal/slot"
)

const (
	MsgLoginRequired    = "log in to make a reservation"
	MsgSubmitFailed     = "could not create the reservation"
	MsgSubmitInProgress = "a reservation is already being submitted"
	MsgSlotsLoading     = "available times are still loading"
)

// ErrSuperseded is returned by LoadSlots when a newer load or a product
// change happened while the request was in flight.
var ErrSuperseded = errors.New("slot load superseded")

type SlotSource interface {
	ProductSlots(ctx context.Context, productID int) (*domain.SlotAvailability, error)
}

type Submitter interface {
	Submit(ctx context.Context, user domain.User, req domain.ReservationRequest) (int, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, user domain.User, req domain.ReservationRequest) (int, error)

func (f SubmitterFunc) Submit(ctx context.Context, user domain.User, req domain.ReservationRequest) (int, error) {
	return f(ctx, user, req)
}

// State is a copy of the form for rendering.
type State struct {
	Product            domain.Product
	Quantity           int
	Date               string
	Time               string
	Slots              []string
	OfferedSlots       []string
	HasTimeRestriction bool
	LoadingSlots       bool
	Submitting         bool
	Error              string
	MinDate            string
	MaxDate            string
	Subtotal           float64
}

type Form struct {
	mu        sync.Mutex
	validator *validator.Validator
	clock     func() time.Time

	product            domain.Product
	quantity           int
	date               string
	hhmm               string
	slots              []string
	hasTimeRestriction bool
	generation         uint64
	loading            bool
	submitting         bool
	lastError          string
}

func New(v *validator.Validator, product domain.Product, clock func() time.Time) *Form {
	if clock == nil {
		clock = time.Now
	}
	return &Form{
		validator: v,
		clock:     clock,
		product:   product,
		quantity:  1,
		date:      v.Today(clock()),
	}
}

// SetProduct switches the form to another product. Any slot load still
// running for the previous product is invalidated.
func (f *Form) SetProduct(p domain.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.generation++
	f.product = p
	f.quantity = 1
	f.hhmm = ""
	f.slots = nil
	f.hasTimeRestriction = false
	f.loading = false
	f.lastError = ""
}

// LoadSlots fetches the slot list for the current product. Failure leaves the
// form with no slots, which makes it behave as an unrestricted product.
func (f *Form) LoadSlots(ctx context.Context, src SlotSource) error {
	f.mu.Lock()
	f.generation++
	gen := f.generation
	productID := f.product.ID
	f.loading = true
	f.mu.Unlock()

	availability, err := src.ProductSlots(ctx, productID)

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.generation {
		return ErrSuperseded
	}
	f.loading = false

	if err != nil {
		f.slots = nil
		f.hasTimeRestriction = false
		return fmt.Errorf("loading slots for product %d: %w", productID, err)
	}

	f.slots = normalizeSlots(availability.Slots)
	f.hasTimeRestriction = availability.HasTimeRestriction

	if f.hasTimeRestriction && len(f.slots) > 0 {
		first := f.validator.FirstOffered(f.slots, f.date, f.clock())
		if first == "" {
			first = f.slots[0]
		}
		f.hhmm = first
	}
	return nil
}

// SetDate changes the date and reselects the time: the first slot for any
// other day, the first slot still offered today, or nothing.
func (f *Form) SetDate(date string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.date = date
	f.reselect()
}

// reselect must be called with mu held.
func (f *Form) reselect() {
	now := f.clock()
	if f.validator.IsToday(f.date, now) {
		f.hhmm = f.validator.FirstOffered(f.slots, f.date, now)
		return
	}
	if len(f.slots) > 0 {
		f.hhmm = f.slots[0]
	} else {
		f.hhmm = ""
	}
}

func (f *Form) SetTime(hhmm string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hhmm = normalizeTime(hhmm)
}

// Fill sets the editable fields to what a client sent in one go. Values are
// taken as sent, without the clamping of SetQuantity or the preselection of
// SetDate, so Check and Submit report whatever is missing or out of range.
func (f *Form) Fill(quantity int, date, hhmm string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.quantity = quantity
	f.date = strings.TrimSpace(date)
	f.hhmm = normalizeTime(hhmm)
}

// Check runs the submit rules against the current state without sending
// anything.
func (f *Form) Check() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := f.validator.CheckSubmit(f.checkRequest(), f.clock())
	f.recordError(err)
	return err
}

func (f *Form) Increment() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	q, err := validator.Increment(f.quantity, f.product.AvailableStock())
	f.quantity = q
	f.recordError(err)
	return err
}

func (f *Form) Decrement() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.quantity = validator.Decrement(f.quantity)
	f.lastError = ""
}

// SetQuantity applies a typed value, see validator.SetQuantity.
func (f *Form) SetQuantity(raw string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	q, err := validator.SetQuantity(raw, f.quantity, f.product.AvailableStock())
	f.quantity = q
	f.recordError(err)
	return err
}

// Submit validates the form and forwards it. user is nil when nobody is
// logged in. On any failure the form keeps its values so the user can fix
// them and try again.
func (f *Form) Submit(ctx context.Context, user *domain.User, submitter Submitter) (int, error) {
	if user == nil {
		err := apperrors.NewUnauthorizedError(MsgLoginRequired)
		f.setError(err.Message)
		return 0, err
	}

	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return 0, apperrors.NewConflictError(MsgSubmitInProgress)
	}
	if f.loading {
		f.mu.Unlock()
		return 0, apperrors.NewConflictError(MsgSlotsLoading)
	}

	if err := f.validator.CheckSubmit(f.checkRequest(), f.clock()); err != nil {
		f.recordError(err)
		f.mu.Unlock()
		return 0, err
	}

	req := domain.ReservationRequest{
		CompanyID: f.product.CompanyID,
		ProductID: f.product.ID,
		Quantity:  f.quantity,
		Date:      f.date,
	}
	if len(f.slots) > 0 {
		req.Time = f.hhmm
	}
	f.submitting = true
	f.lastError = ""
	f.mu.Unlock()

	id, err := submitter.Submit(ctx, *user, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false

	if err != nil {
		f.lastError = submitMessage(err)
		return 0, err
	}
	return id, nil
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.clock()
	return State{
		Product:            f.product,
		Quantity:           f.quantity,
		Date:               f.date,
		Time:               f.hhmm,
		Slots:              append([]string(nil), f.slots...),
		OfferedSlots:       append([]string(nil), f.validator.OfferedSlots(f.slots, f.date, now)...),
		HasTimeRestriction: f.hasTimeRestriction,
		LoadingSlots:       f.loading,
		Submitting:         f.submitting,
		Error:              f.lastError,
		MinDate:            f.validator.Today(now),
		MaxDate:            f.validator.MaxDate(now),
		Subtotal:           f.product.Subtotal(f.quantity),
	}
}

// checkRequest must be called with mu held.
func (f *Form) checkRequest() validator.Request {
	return validator.Request{
		Quantity: f.quantity,
		Stock:    f.product.AvailableStock(),
		Date:     f.date,
		Time:     f.hhmm,
		Slots:    f.slots,
	}
}

func (f *Form) setError(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastError = msg
}

// recordError must be called with mu held.
func (f *Form) recordError(err error) {
	if err == nil {
		f.lastError = ""
		return
	}
	if ve, ok := apperrors.IsValidationError(err); ok {
		f.lastError = ve.Message
		return
	}
	f.lastError = err.Error()
}

func submitMessage(err error) string {
	if se, ok := apperrors.IsServerError(err); ok {
		if msg := se.Message(); msg != "" {
			return msg
		}
	}
	if ve, ok := apperrors.IsValidationError(err); ok {
		return ve.Message
	}
	if ue, ok := apperrors.IsUnauthorizedError(err); ok {
		return ue.Message
	}
	return MsgSubmitFailed
}

func normalizeTime(hhmm string) string {
	normalized, err := slot.Normalize(hhmm)
	if err != nil {
		return strings.TrimSpace(hhmm)
	}
	return normalized
}

func normalizeSlots(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		n, err := slot.Normalize(s)
		if err != nil || n == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}
