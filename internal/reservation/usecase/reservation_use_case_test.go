package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reserva/internal/domain"
	apperrors "reserva/internal/errors"
	"reserva/internal/infrastructure/reservaapi"
)

func newReservationUseCase(gw ReservationGateway) *ReservationUseCase {
	return NewReservationUseCase(gw, func() time.Time { return testNow }, zap.NewNop())
}

func reservationAt(id int, status domain.ReservationStatus, at time.Time) *domain.Reservation {
	return &domain.Reservation{
		ID:          id,
		CompanyID:   3,
		CompanyName: "Club Norte",
		Status:      status,
		ScheduledAt: &at,
		Lines: []domain.ReservationLine{
			{ID: 1, ProductID: 7, ProductName: "Paddle court", Quantity: 2, UnitPrice: 20, Subtotal: 40},
			{ID: 2, ProductID: 8, ProductName: "Racket", Quantity: 1, UnitPrice: 5.5, Subtotal: 5.5},
		},
	}
}

func TestGet_AdvisoryFlags(t *testing.T) {
	ctx := context.Background()
	sess := reservaapi.NewSession()
	gw := new(mockGateway)
	gw.On("GetReservation", ctx, sess, 1).Return(reservationAt(1, domain.ReservationStatusPending, testNow.Add(time.Hour)), nil)
	gw.On("GetReservation", ctx, sess, 2).Return(reservationAt(2, domain.ReservationStatusConfirmed, testNow.Add(-time.Minute)), nil)

	uc := newReservationUseCase(gw)

	upcoming, err := uc.Get(ctx, sess, 1)
	require.NoError(t, err)
	assert.Equal(t, 45.5, upcoming.Reservation.Total)
	assert.Equal(t, "PENDING", upcoming.Reservation.Status)
	assert.False(t, upcoming.Reservation.Elapsed)
	assert.True(t, upcoming.Reservation.CanConfirm)
	assert.True(t, upcoming.Reservation.CanCancel)
	require.Len(t, upcoming.Reservation.Lines, 2)

	past, err := uc.Get(ctx, sess, 2)
	require.NoError(t, err)
	assert.True(t, past.Reservation.Elapsed)
	assert.False(t, past.Reservation.CanConfirm)
	assert.False(t, past.Reservation.CanCancel)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	sess := reservaapi.NewSession()
	gw := new(mockGateway)
	gw.On("ListReservations", ctx, sess).Return([]domain.Reservation{
		*reservationAt(1, domain.ReservationStatusCanceled, testNow.Add(time.Hour)),
	}, nil)

	resp, err := newReservationUseCase(gw).List(ctx, sess)
	require.NoError(t, err)

	require.Len(t, resp.Reservations, 1)
	assert.Equal(t, "CANCELED", resp.Reservations[0].Status)
	assert.False(t, resp.Reservations[0].CanCancel)
}

func TestConfirm_ElapsedIsRefusedLocally(t *testing.T) {
	ctx := context.Background()
	sess := reservaapi.NewSession()
	gw := new(mockGateway)
	gw.On("GetReservation", ctx, sess, 4).Return(reservationAt(4, domain.ReservationStatusPending, testNow.Add(-time.Hour)), nil)

	_, err := newReservationUseCase(gw).Confirm(ctx, sess, 4)

	ce, ok := apperrors.IsConflictError(err)
	require.True(t, ok)
	assert.Equal(t, MsgReservationElapsed, ce.Message)
	gw.AssertNotCalled(t, "ConfirmReservation", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirm_Forwards(t *testing.T) {
	ctx := context.Background()
	sess := reservaapi.NewSession()
	gw := new(mockGateway)
	gw.On("GetReservation", ctx, sess, 4).Return(reservationAt(4, domain.ReservationStatusPending, testNow.Add(time.Hour)), nil)
	gw.On("ConfirmReservation", ctx, sess, 4).Return("Reserva confirmada", nil)

	resp, err := newReservationUseCase(gw).Confirm(ctx, sess, 4)
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "Reserva confirmada", resp.Message)
	assert.Equal(t, 4, resp.ReservationID)
	gw.AssertExpectations(t)
}

func TestCancel_StatusDecidedByService(t *testing.T) {
	ctx := context.Background()
	sess := reservaapi.NewSession()
	gw := new(mockGateway)
	gw.On("GetReservation", ctx, sess, 6).Return(reservationAt(6, domain.ReservationStatusCanceled, testNow.Add(time.Hour)), nil)
	gw.On("CancelReservation", ctx, sess, 6).Return("", apperrors.NewSingleMessage(422, "already canceled"))

	_, err := newReservationUseCase(gw).Cancel(ctx, sess, 6)

	se, ok := apperrors.IsServerError(err)
	require.True(t, ok)
	assert.Equal(t, "already canceled", se.Message())
}

func TestCancel_NotFound(t *testing.T) {
	ctx := context.Background()
	sess := reservaapi.NewSession()
	gw := new(mockGateway)
	gw.On("GetReservation", ctx, sess, 9).Return(nil, apperrors.NewNotFoundError("reservation not found"))

	_, err := newReservationUseCase(gw).Cancel(ctx, sess, 9)

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}
