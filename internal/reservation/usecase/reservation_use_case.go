package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"reserva/internal/domain"
	"reserva/internal/dto"
	apperrors "reserva/internal/errors"
	"reserva/internal/infrastructure/reservaapi"
)

const MsgReservationElapsed = "the reservation date has already passed"

type ReservationGateway interface {
	ListReservations(ctx context.Context, sess *reservaapi.Session) ([]domain.Reservation, error)
	GetReservation(ctx context.Context, sess *reservaapi.Session, id int) (*domain.Reservation, error)
	ConfirmReservation(ctx context.Context, sess *reservaapi.Session, id int) (string, error)
	CancelReservation(ctx context.Context, sess *reservaapi.Session, id int) (string, error)
}

type ReservationUseCase struct {
	gateway ReservationGateway
	clock   func() time.Time
	logger  *zap.Logger
}

func NewReservationUseCase(gateway ReservationGateway, clock func() time.Time, logger *zap.Logger) *ReservationUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &ReservationUseCase{gateway: gateway, clock: clock, logger: logger}
}

func (uc *ReservationUseCase) List(ctx context.Context, sess *reservaapi.Session) (*dto.ReservationListResponse, error) {
	reservations, err := uc.gateway.ListReservations(ctx, sess)
	if err != nil {
		return nil, err
	}

	now := uc.clock()
	resp := &dto.ReservationListResponse{Reservations: make([]dto.ReservationDTO, 0, len(reservations))}
	for _, r := range reservations {
		resp.Reservations = append(resp.Reservations, ReservationToDTO(r, now))
	}
	return resp, nil
}

func (uc *ReservationUseCase) Get(ctx context.Context, sess *reservaapi.Session, id int) (*dto.ReservationResponse, error) {
	r, err := uc.gateway.GetReservation(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	return &dto.ReservationResponse{Reservation: ReservationToDTO(*r, uc.clock())}, nil
}

func (uc *ReservationUseCase) Confirm(ctx context.Context, sess *reservaapi.Session, id int) (*dto.ReservationActionResponse, error) {
	return uc.act(ctx, sess, id, domain.ActionConfirm)
}

func (uc *ReservationUseCase) Cancel(ctx context.Context, sess *reservaapi.Session, id int) (*dto.ReservationActionResponse, error) {
	return uc.act(ctx, sess, id, domain.ActionCancel)
}

// act refuses reservations whose scheduled time has passed and otherwise
// leaves the decision to the reservation service.
func (uc *ReservationUseCase) act(ctx context.Context, sess *reservaapi.Session, id int, action domain.ReservationAction) (*dto.ReservationActionResponse, error) {
	logger := uc.logger.With(zap.Int("reservationId", id), zap.String("action", string(action)))

	r, err := uc.gateway.GetReservation(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if r.HasElapsed(uc.clock()) {
		logger.Info("reservation action refused, date elapsed", zap.Timep("scheduledAt", r.ScheduledAt))
		return nil, apperrors.NewConflictError(MsgReservationElapsed)
	}

	var message string
	switch action {
	case domain.ActionConfirm:
		message, err = uc.gateway.ConfirmReservation(ctx, sess, id)
	default:
		message, err = uc.gateway.CancelReservation(ctx, sess, id)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("reservation action forwarded", zap.String("from", r.Status.String()))
	return &dto.ReservationActionResponse{
		Success:       true,
		Message:       message,
		ReservationID: id,
	}, nil
}

func ReservationToDTO(r domain.Reservation, now time.Time) dto.ReservationDTO {
	out := dto.ReservationDTO{
		ID:          r.ID,
		StatusID:    int(r.Status),
		Status:      r.Status.String(),
		CompanyID:   r.CompanyID,
		CompanyName: r.CompanyName,
		ScheduledAt: r.ScheduledAt,
		Lines:       make([]dto.ReservationLineDTO, 0, len(r.Lines)),
		Total:       r.Total(),
		Elapsed:     r.HasElapsed(now),
		CanConfirm:  r.CanConfirm(now),
		CanCancel:   r.CanCancel(now),
	}
	if !r.CreatedAt.IsZero() {
		created := r.CreatedAt
		out.CreatedAt = &created
	}
	for _, l := range r.Lines {
		out.Lines = append(out.Lines, dto.ReservationLineDTO{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
		})
	}
	return out
}
