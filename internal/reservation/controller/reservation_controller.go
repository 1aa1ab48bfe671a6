package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"reserva/internal/commons"
	"reserva/internal/domain"
	"reserva/internal/dto"
	apperrors "reserva/internal/errors"
	"reserva/internal/infrastructure/reservaapi"
	"reserva/internal/session"
)

type BookingUseCase interface {
	Validate(ctx context.Context, req dto.ReservationRequest) (*dto.ValidateReservationResponse, error)
	Create(ctx context.Context, sess *reservaapi.Session, user *domain.User, req dto.ReservationRequest) (*dto.CreateReservationResponse, error)
}

type ReservationUseCase interface {
	List(ctx context.Context, sess *reservaapi.Session) (*dto.ReservationListResponse, error)
	Get(ctx context.Context, sess *reservaapi.Session, id int) (*dto.ReservationResponse, error)
	Confirm(ctx context.Context, sess *reservaapi.Session, id int) (*dto.ReservationActionResponse, error)
	Cancel(ctx context.Context, sess *reservaapi.Session, id int) (*dto.ReservationActionResponse, error)
}

type ReservationController struct {
	booking      BookingUseCase
	reservations ReservationUseCase
	requireUser  func(http.Handler) http.Handler
	logger       *zap.Logger
}

// NewReservationController serves /reservations. requireUser guards every
// route except the dry-run validation.
func NewReservationController(booking BookingUseCase, reservations ReservationUseCase, requireUser func(http.Handler) http.Handler, logger *zap.Logger) *ReservationController {
	return &ReservationController{
		booking:      booking,
		reservations: reservations,
		requireUser:  requireUser,
		logger:       logger,
	}
}

func (c *ReservationController) Routes(r chi.Router) {
	r.Post("/validate", c.Validate)
	r.Group(func(r chi.Router) {
		r.Use(c.requireUser)
		r.Post("/", c.Create)
		r.Get("/", c.List)
		r.Get("/{id}", c.Get)
		r.Post("/{id}/confirm", c.Confirm)
		r.Post("/{id}/cancel", c.Cancel)
	})
}

func (c *ReservationController) Validate(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	req, ok := c.decode(w, r, traceID, logger)
	if !ok {
		return
	}

	resp, err := c.booking.Validate(r.Context(), req)
	if err != nil {
		commons.WriteError(w, logger.With(zap.Int("productId", req.ProductID)), traceID, err)
		return
	}
	resp.TraceID = traceID
	commons.WriteJSON(w, logger, http.StatusOK, resp)
}

func (c *ReservationController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	sess := session.From(r)

	req, ok := c.decode(w, r, traceID, logger)
	if !ok {
		return
	}

	resp, err := c.booking.Create(r.Context(), sess, session.UserFrom(r.Context()), req)
	session.WriteCookies(w, sess)
	if err != nil {
		commons.WriteError(w, logger.With(zap.Int("productId", req.ProductID)), traceID, err)
		return
	}
	resp.TraceID = traceID
	commons.WriteJSON(w, logger, http.StatusCreated, resp)
}

func (c *ReservationController) List(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	sess := session.From(r)

	resp, err := c.reservations.List(r.Context(), sess)
	session.WriteCookies(w, sess)
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}
	commons.WriteJSON(w, logger, http.StatusOK, resp)
}

func (c *ReservationController) Get(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	sess := session.From(r)

	id, err := commons.PositiveID(chi.URLParam(r, "id"), "id")
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}

	resp, err := c.reservations.Get(r.Context(), sess, id)
	session.WriteCookies(w, sess)
	if err != nil {
		commons.WriteError(w, logger.With(zap.Int("reservationId", id)), traceID, err)
		return
	}
	commons.WriteJSON(w, logger, http.StatusOK, resp)
}

func (c *ReservationController) Confirm(w http.ResponseWriter, r *http.Request) {
	c.act(w, r, c.reservations.Confirm)
}

func (c *ReservationController) Cancel(w http.ResponseWriter, r *http.Request) {
	c.act(w, r, c.reservations.Cancel)
}

type actionFunc func(ctx context.Context, sess *reservaapi.Session, id int) (*dto.ReservationActionResponse, error)

func (c *ReservationController) act(w http.ResponseWriter, r *http.Request, action actionFunc) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	sess := session.From(r)

	id, err := commons.PositiveID(chi.URLParam(r, "id"), "id")
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}

	resp, err := action(r.Context(), sess, id)
	session.WriteCookies(w, sess)
	if err != nil {
		commons.WriteError(w, logger.With(zap.Int("reservationId", id)), traceID, err)
		return
	}
	resp.TraceID = traceID
	commons.WriteJSON(w, logger, http.StatusOK, resp)
}

func (c *ReservationController) decode(w http.ResponseWriter, r *http.Request, traceID string, logger *zap.Logger) (dto.ReservationRequest, bool) {
	var req dto.ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteValidationError(w, logger, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return req, false
	}
	return req, true
}
