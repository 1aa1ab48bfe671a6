package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"reserva/internal/commons"
	"reserva/internal/domain"
	"reserva/internal/dto"
	apperrors "reserva/internal/errors"
	"reserva/internal/infrastructure/reservaapi"
	"reserva/internal/reservation/form"
	"reserva/internal/reservation/validator"
)

type BookingGateway interface {
	ProductForReservation(ctx context.Context, productID int) (*domain.Product, error)
	ProductSlots(ctx context.Context, productID int) (*domain.SlotAvailability, error)
	CreateReservation(ctx context.Context, sess *reservaapi.Session, req domain.ReservationRequest) (int, error)
}

// BookingUseCase runs a submitted booking through a fresh form: the product
// and its slots are fetched, the client's values applied, and the same rules
// the browser enforces are checked again before anything is forwarded.
type BookingUseCase struct {
	gateway   BookingGateway
	validator *validator.Validator
	clock     func() time.Time
	logger    *zap.Logger
}

func NewBookingUseCase(gateway BookingGateway, v *validator.Validator, clock func() time.Time, logger *zap.Logger) *BookingUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &BookingUseCase{
		gateway:   gateway,
		validator: v,
		clock:     clock,
		logger:    logger,
	}
}

// Validate is a dry run. Rule violations are part of the response, not an
// error.
func (uc *BookingUseCase) Validate(ctx context.Context, req dto.ReservationRequest) (*dto.ValidateReservationResponse, error) {
	f, err := uc.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	checkErr := f.Check()
	state := f.State()
	resp := &dto.ValidateReservationResponse{
		Valid:              checkErr == nil,
		Date:               state.Date,
		Time:               state.Time,
		OfferedSlots:       state.OfferedSlots,
		HasTimeRestriction: state.HasTimeRestriction,
		MinDate:            state.MinDate,
		MaxDate:            state.MaxDate,
		AvailableStock:     state.Product.AvailableStock(),
		Subtotal:           state.Subtotal,
	}
	if resp.OfferedSlots == nil {
		resp.OfferedSlots = []string{}
	}

	if checkErr != nil {
		ve, ok := apperrors.IsValidationError(checkErr)
		if !ok {
			return nil, checkErr
		}
		resp.Message = ve.Message
		resp.Details = commons.Details(ve.Details)
	}
	return resp, nil
}

// Create validates and forwards the booking on behalf of user. user is nil
// when the session is anonymous.
func (uc *BookingUseCase) Create(ctx context.Context, sess *reservaapi.Session, user *domain.User, req dto.ReservationRequest) (*dto.CreateReservationResponse, error) {
	if user == nil {
		return nil, apperrors.NewUnauthorizedError(form.MsgLoginRequired)
	}

	f, err := uc.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	submit := form.SubmitterFunc(func(ctx context.Context, _ domain.User, r domain.ReservationRequest) (int, error) {
		return uc.gateway.CreateReservation(ctx, sess, r)
	})

	id, err := f.Submit(ctx, user, submit)
	if err != nil {
		uc.logger.Info("reservation not created",
			zap.Int("userId", user.ID),
			zap.Int("productId", req.ProductID),
			zap.String("reason", f.State().Error),
		)
		return nil, err
	}

	uc.logger.Info("reservation created",
		zap.Int("userId", user.ID),
		zap.Int("productId", req.ProductID),
		zap.Int("reservationId", id),
	)
	return &dto.CreateReservationResponse{
		Success:       true,
		ReservationID: id,
		Timestamp:     uc.clock().UTC(),
	}, nil
}

func (uc *BookingUseCase) prepare(ctx context.Context, req dto.ReservationRequest) (*form.Form, error) {
	if req.ProductID <= 0 {
		msg := "productId must be a positive integer"
		if req.ProductID == 0 {
			msg = "productId is required"
		}
		return nil, apperrors.NewValidationError(msg, apperrors.ValidationDetail{Field: "productId", Message: msg})
	}

	product, err := uc.gateway.ProductForReservation(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	f := form.New(uc.validator, *product, uc.clock)
	if err := f.LoadSlots(ctx, uc.gateway); err != nil && !errors.Is(err, form.ErrSuperseded) {
		uc.logger.Warn("slots unavailable, treating product as unrestricted",
			zap.Int("productId", req.ProductID),
			zap.Error(err),
		)
	}
	f.Fill(req.Quantity, req.Date, req.Time)
	return f, nil
}
