package form

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reserva/internal/domain"
	apperrors "reserva/internal/errors"
	"reserva/internal/reservation/validator"
)

var fixedNow = time.Date(2026, 10, 18, 14, 0, 0, 0, time.UTC)

type mockSlotSource struct {
	ProductSlotsFunc func(ctx context.Context, productID int) (*domain.SlotAvailability, error)
}

func (m *mockSlotSource) ProductSlots(ctx context.Context, productID int) (*domain.SlotAvailability, error) {
	return m.ProductSlotsFunc(ctx, productID)
}

func staticSlots(restricted bool, slots ...string) *mockSlotSource {
	return &mockSlotSource{
		ProductSlotsFunc: func(ctx context.Context, productID int) (*domain.SlotAvailability, error) {
			return &domain.SlotAvailability{Slots: slots, HasTimeRestriction: restricted}, nil
		},
	}
}

func testProduct(stock int) domain.Product {
	return domain.Product{ID: 7, CompanyID: 3, Name: "Paddle court", Price: 12.5, Stock: &stock}
}

func newTestForm(stock int) *Form {
	v := validator.New(time.UTC, validator.DefaultMaxAdvanceDays)
	return New(v, testProduct(stock), func() time.Time { return fixedNow })
}

func testUser() *domain.User {
	return &domain.User{ID: 11, Name: "Ana", Email: "ana@example.com"}
}

func TestNew_Defaults(t *testing.T) {
	f := newTestForm(5)
	s := f.State()

	assert.Equal(t, 1, s.Quantity)
	assert.Equal(t, "2026-10-18", s.Date)
	assert.Equal(t, "2026-10-18", s.MinDate)
	assert.Equal(t, "2026-11-17", s.MaxDate)
	assert.Empty(t, s.Time)
	assert.Equal(t, 12.5, s.Subtotal)
}

func TestLoadSlots_PreselectsFirstOfferedToday(t *testing.T) {
	f := newTestForm(5)

	err := f.LoadSlots(context.Background(), staticSlots(true, "13:00", "13:30", "14:00", "14:30"))
	require.NoError(t, err)

	s := f.State()
	assert.Equal(t, "14:00", s.Time)
	assert.True(t, s.HasTimeRestriction)
	assert.Equal(t, []string{"14:00", "14:30"}, s.OfferedSlots)
	assert.False(t, s.LoadingSlots)
}

func TestLoadSlots_FallsBackToFirstSlotWhenAllPast(t *testing.T) {
	f := newTestForm(5)

	require.NoError(t, f.LoadSlots(context.Background(), staticSlots(true, "09:00", "09:30")))

	s := f.State()
	assert.Equal(t, "09:00", s.Time)
	assert.Empty(t, s.OfferedSlots)
}

func TestLoadSlots_NormalizesSQLTimes(t *testing.T) {
	f := newTestForm(5)

	require.NoError(t, f.LoadSlots(context.Background(), staticSlots(true, "15:00:00", "bogus", "15:30:00")))

	assert.Equal(t, []string{"15:00", "15:30"}, f.State().Slots)
}

func TestLoadSlots_UnrestrictedLeavesTimeEmpty(t *testing.T) {
	f := newTestForm(5)

	require.NoError(t, f.LoadSlots(context.Background(), staticSlots(false)))

	s := f.State()
	assert.Empty(t, s.Slots)
	assert.Empty(t, s.Time)
	assert.False(t, s.HasTimeRestriction)
}

func TestLoadSlots_FailureMeansNoSlots(t *testing.T) {
	f := newTestForm(5)
	require.NoError(t, f.LoadSlots(context.Background(), staticSlots(true, "15:00")))

	failing := &mockSlotSource{
		ProductSlotsFunc: func(ctx context.Context, productID int) (*domain.SlotAvailability, error) {
			return nil, errors.New("connection refused")
		},
	}
	err := f.LoadSlots(context.Background(), failing)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading slots for product 7")
	assert.Empty(t, f.State().Slots)
	assert.False(t, f.State().HasTimeRestriction)
}

func TestLoadSlots_DiscardsSupersededResult(t *testing.T) {
	f := newTestForm(5)

	started := make(chan struct{})
	release := make(chan struct{})
	slow := &mockSlotSource{
		ProductSlotsFunc: func(ctx context.Context, productID int) (*domain.SlotAvailability, error) {
			close(started)
			<-release
			return &domain.SlotAvailability{Slots: []string{"20:00"}, HasTimeRestriction: true}, nil
		},
	}

	var wg sync.WaitGroup
	var slowErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		slowErr = f.LoadSlots(context.Background(), slow)
	}()
	<-started

	require.NoError(t, f.LoadSlots(context.Background(), staticSlots(true, "16:00", "16:30")))

	close(release)
	wg.Wait()

	assert.ErrorIs(t, slowErr, ErrSuperseded)
	assert.Equal(t, []string{"16:00", "16:30"}, f.State().Slots)
	assert.Equal(t, "16:00", f.State().Time)
}

func TestLoadSlots_ProductChangeDiscardsPendingLoad(t *testing.T) {
	f := newTestForm(5)

	started := make(chan struct{})
	release := make(chan struct{})
	slow := &mockSlotSource{
		ProductSlotsFunc: func(ctx context.Context, productID int) (*domain.SlotAvailability, error) {
			assert.Equal(t, 7, productID)
			close(started)
			<-release
			return &domain.SlotAvailability{Slots: []string{"20:00"}, HasTimeRestriction: true}, nil
		},
	}

	done := make(chan error, 1)
	go func() { done <- f.LoadSlots(context.Background(), slow) }()
	<-started

	stock := 2
	f.SetProduct(domain.Product{ID: 8, CompanyID: 3, Stock: &stock})
	close(release)

	assert.ErrorIs(t, <-done, ErrSuperseded)
	s := f.State()
	assert.Equal(t, 8, s.Product.ID)
	assert.Empty(t, s.Slots)
	assert.Empty(t, s.Time)
}

func TestSetDate_Reselects(t *testing.T) {
	f := newTestForm(5)
	require.NoError(t, f.LoadSlots(context.Background(), staticSlots(true, "10:00", "14:30", "18:00")))

	f.SetDate("2026-10-20")
	assert.Equal(t, "10:00", f.State().Time)

	f.SetDate("2026-10-18")
	assert.Equal(t, "14:30", f.State().Time)
}

func TestSetDate_TodayWithNothingLeft(t *testing.T) {
	f := newTestForm(5)
	require.NoError(t, f.LoadSlots(context.Background(), staticSlots(true, "09:00", "10:00")))

	f.SetDate("2026-10-19")
	assert.Equal(t, "09:00", f.State().Time)

	f.SetDate("2026-10-18")
	assert.Equal(t, "", f.State().Time)
}

func TestQuantityOperations(t *testing.T) {
	f := newTestForm(2)

	f.Decrement()
	assert.Equal(t, 1, f.State().Quantity)

	require.NoError(t, f.Increment())
	assert.Equal(t, 2, f.State().Quantity)

	err := f.Increment()
	require.Error(t, err)
	assert.Equal(t, 2, f.State().Quantity)
	assert.Equal(t, "maximum available stock: 2", f.State().Error)

	f.Decrement()
	assert.Equal(t, 1, f.State().Quantity)
	assert.Empty(t, f.State().Error)

	require.Error(t, f.SetQuantity("9"))
	assert.Equal(t, 1, f.State().Quantity)

	require.NoError(t, f.SetQuantity("abc"))
	assert.Equal(t, 1, f.State().Quantity)

	require.NoError(t, f.SetQuantity("2"))
	assert.Equal(t, 2, f.State().Quantity)
	assert.Equal(t, 25.0, f.State().Subtotal)
}

func TestSubmit_RequiresUser(t *testing.T) {
	f := newTestForm(5)
	called := false
	sub := SubmitterFunc(func(ctx context.Context, user domain.User, req domain.ReservationRequest) (int, error) {
		called = true
		return 1, nil
	})

	_, err := f.Submit(context.Background(), nil, sub)

	_, ok := apperrors.IsUnauthorizedError(err)
	assert.True(t, ok)
	assert.False(t, called)
	assert.Equal(t, MsgLoginRequired, f.State().Error)
}

func TestSubmit_ForwardsValidRequest(t *testing.T) {
	f := newTestForm(5)
	require.NoError(t, f.LoadSlots(context.Background(), staticSlots(true, "13:00", "14:00", "14:30")))
	require.NoError(t, f.SetQuantity("3"))
	f.SetTime("14:30")

	var got domain.ReservationRequest
	var gotUser domain.User
	sub := SubmitterFunc(func(ctx context.Context, user domain.User, req domain.ReservationRequest) (int, error) {
		gotUser = user
		got = req
		return 42, nil
	})

	id, err := f.Submit(context.Background(), testUser(), sub)

	require.NoError(t, err)
	assert.Equal(t, 42, id)
	assert.Equal(t, 11, gotUser.ID)
	assert.Equal(t, domain.ReservationRequest{CompanyID: 3, ProductID: 7, Quantity: 3, Date: "2026-10-18", Time: "14:30"}, got)
	assert.Empty(t, f.State().Error)
	assert.False(t, f.State().Submitting)
}

func TestSubmit_UnrestrictedSendsNoTime(t *testing.T) {
	f := newTestForm(5)
	require.NoError(t, f.LoadSlots(context.Background(), staticSlots(false)))
	f.SetTime("08:00")

	var got domain.ReservationRequest
	sub := SubmitterFunc(func(ctx context.Context, user domain.User, req domain.ReservationRequest) (int, error) {
		got = req
		return 1, nil
	})

	_, err := f.Submit(context.Background(), testUser(), sub)

	require.NoError(t, err)
	assert.Empty(t, got.Time)
}

func TestSubmit_ValidationFailureKeepsState(t *testing.T) {
	f := newTestForm(5)
	require.NoError(t, f.LoadSlots(context.Background(), staticSlots(true, "13:00", "13:30", "14:00")))
	f.SetTime("13:30")

	sub := SubmitterFunc(func(ctx context.Context, user domain.User, req domain.ReservationRequest) (int, error) {
		t.Fatal("submitter must not be called")
		return 0, nil
	})

	_, err := f.Submit(context.Background(), testUser(), sub)

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, validator.MsgPastTime, ve.Message)
	assert.Equal(t, validator.MsgPastTime, f.State().Error)
	assert.Equal(t, "13:30", f.State().Time)
}

func TestSubmit_ServerRejectionSurfacesFirstMessage(t *testing.T) {
	f := newTestForm(5)
	require.NoError(t, f.LoadSlots(context.Background(), staticSlots(false)))

	sub := SubmitterFunc(func(ctx context.Context, user domain.User, req domain.ReservationRequest) (int, error) {
		return 0, apperrors.NewFieldErrors(422,
			apperrors.FieldError{Field: "items.0.cantidad", Messages: []string{"not enough stock", "try less"}},
			apperrors.FieldError{Field: "empresa_id", Messages: []string{"company closed"}},
		)
	})

	_, err := f.Submit(context.Background(), testUser(), sub)

	require.Error(t, err)
	s := f.State()
	assert.Equal(t, "not enough stock", s.Error)
	assert.Equal(t, 1, s.Quantity)
	assert.False(t, s.Submitting)
}

func TestSubmit_TransportFailureUsesGenericMessage(t *testing.T) {
	f := newTestForm(5)

	sub := SubmitterFunc(func(ctx context.Context, user domain.User, req domain.ReservationRequest) (int, error) {
		return 0, apperrors.NewInternalError("reservation service unreachable", errors.New("dial tcp"))
	})

	_, err := f.Submit(context.Background(), testUser(), sub)

	require.Error(t, err)
	assert.Equal(t, MsgSubmitFailed, f.State().Error)
}

func TestSubmit_RejectsWhileLoading(t *testing.T) {
	f := newTestForm(5)

	started := make(chan struct{})
	release := make(chan struct{})
	slow := &mockSlotSource{
		ProductSlotsFunc: func(ctx context.Context, productID int) (*domain.SlotAvailability, error) {
			close(started)
			<-release
			return &domain.SlotAvailability{}, nil
		},
	}
	done := make(chan error, 1)
	go func() { done <- f.LoadSlots(context.Background(), slow) }()
	<-started

	_, err := f.Submit(context.Background(), testUser(), SubmitterFunc(func(ctx context.Context, user domain.User, req domain.ReservationRequest) (int, error) {
		return 1, nil
	}))

	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok)

	close(release)
	require.NoError(t, <-done)
}

func TestFill_KeepsQuantityForCheck(t *testing.T) {
	f := newTestForm(3)
	require.NoError(t, f.LoadSlots(context.Background(), staticSlots(true, "10:00", "10:30")))

	f.Fill(9, "2026-10-20", "10:30")

	s := f.State()
	assert.Equal(t, 9, s.Quantity)
	assert.Equal(t, "10:30", s.Time)

	err := f.Check()
	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, validator.StockExceededMessage(3), ve.Message)
	assert.Equal(t, ve.Message, f.State().Error)
}

func TestFill_EmptyTimeIsNotPreselected(t *testing.T) {
	f := newTestForm(3)
	require.NoError(t, f.LoadSlots(context.Background(), staticSlots(true, "10:00", "10:30")))
	require.Equal(t, "10:00", f.State().Time)

	f.Fill(1, "2026-10-20", "")

	assert.Equal(t, "", f.State().Time)
	err := f.Check()
	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, validator.MsgSelectDateAndTime, ve.Message)
	assert.Equal(t, validator.MsgSelectDateAndTime, ve.Field("time"))
}

func TestFill_NormalizesTime(t *testing.T) {
	f := newTestForm(3)
	require.NoError(t, f.LoadSlots(context.Background(), staticSlots(true, "10:00", "10:30")))

	f.Fill(1, " 2026-10-20 ", "10:30:00")

	s := f.State()
	assert.Equal(t, "2026-10-20", s.Date)
	assert.Equal(t, "10:30", s.Time)
	assert.NoError(t, f.Check())
}
