package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"reserva/internal/domain"
	"reserva/internal/infrastructure/reservaapi"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) ProductForReservation(ctx context.Context, productID int) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	p, _ := args.Get(0).(*domain.Product)
	return p, args.Error(1)
}

func (m *mockGateway) ProductSlots(ctx context.Context, productID int) (*domain.SlotAvailability, error) {
	args := m.Called(ctx, productID)
	s, _ := args.Get(0).(*domain.SlotAvailability)
	return s, args.Error(1)
}

func (m *mockGateway) CreateReservation(ctx context.Context, sess *reservaapi.Session, req domain.ReservationRequest) (int, error) {
	args := m.Called(ctx, sess, req)
	return args.Int(0), args.Error(1)
}

func (m *mockGateway) ListReservations(ctx context.Context, sess *reservaapi.Session) ([]domain.Reservation, error) {
	args := m.Called(ctx, sess)
	r, _ := args.Get(0).([]domain.Reservation)
	return r, args.Error(1)
}

func (m *mockGateway) GetReservation(ctx context.Context, sess *reservaapi.Session, id int) (*domain.Reservation, error) {
	args := m.Called(ctx, sess, id)
	r, _ := args.Get(0).(*domain.Reservation)
	return r, args.Error(1)
}

func (m *mockGateway) ConfirmReservation(ctx context.Context, sess *reservaapi.Session, id int) (string, error) {
	args := m.Called(ctx, sess, id)
	return args.String(0), args.Error(1)
}

func (m *mockGateway) CancelReservation(ctx context.Context, sess *reservaapi.Session, id int) (string, error) {
	args := m.Called(ctx, sess, id)
	return args.String(0), args.Error(1)
}
