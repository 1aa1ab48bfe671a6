package session

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"reserva/internal/commons"
	"reserva/internal/domain"
	"reserva/internal/dto"
	apperrors "reserva/internal/errors"
	"reserva/internal/infrastructure/reservaapi"
)

type Gateway interface {
	UserResolver
	Login(ctx context.Context, sess *reservaapi.Session, creds reservaapi.Credentials) (*domain.User, error)
	Register(ctx context.Context, sess *reservaapi.Session, reg reservaapi.Registration) (*domain.User, error)
	Logout(ctx context.Context, sess *reservaapi.Session) error
}

type Controller struct {
	gateway Gateway
	logger  *zap.Logger
}

func NewController(gateway Gateway, logger *zap.Logger) *Controller {
	return &Controller{gateway: gateway, logger: logger}
}

func (c *Controller) Routes(r chi.Router) {
	r.Post("/login", c.Login)
	r.Post("/register", c.Register)
	r.Post("/logout", c.Logout)
	r.Get("/user", c.User)
}

func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	sess := From(r)

	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteValidationError(w, logger, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	var details []apperrors.ValidationDetail
	details = required(details, "email", req.Email)
	details = required(details, "password", req.Password)
	if len(details) > 0 {
		commons.WriteValidationError(w, logger, traceID, "validation failed", details...)
		return
	}

	user, err := c.gateway.Login(r.Context(), sess, reservaapi.Credentials{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	WriteCookies(w, sess)
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}

	logger.Info("user logged in", zap.Int("userId", user.ID))
	commons.WriteJSON(w, logger, http.StatusOK, dto.SessionResponse{User: userDTO(user)})
}

func (c *Controller) Register(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	sess := From(r)

	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteValidationError(w, logger, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	var details []apperrors.ValidationDetail
	details = required(details, "firstName", req.FirstName)
	details = required(details, "lastName", req.LastName)
	details = required(details, "email", req.Email)
	details = required(details, "password", req.Password)
	details = required(details, "passwordConfirmation", req.PasswordConfirmation)
	if len(details) > 0 {
		commons.WriteValidationError(w, logger, traceID, "validation failed", details...)
		return
	}

	user, err := c.gateway.Register(r.Context(), sess, reservaapi.Registration{
		FirstName:            strings.TrimSpace(req.FirstName),
		LastName:             strings.TrimSpace(req.LastName),
		Email:                strings.TrimSpace(req.Email),
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	WriteCookies(w, sess)
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}

	commons.WriteJSON(w, logger, http.StatusCreated, dto.SessionResponse{User: userDTO(user)})
}

func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	sess := From(r)

	err := c.gateway.Logout(r.Context(), sess)
	WriteCookies(w, sess)
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}
	commons.WriteJSON(w, logger, http.StatusOK, dto.SessionResponse{})
}

func (c *Controller) User(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	sess := From(r)

	user, err := c.gateway.CurrentUser(r.Context(), sess)
	WriteCookies(w, sess)
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}
	commons.WriteJSON(w, logger, http.StatusOK, dto.SessionResponse{User: userDTO(user)})
}

func required(details []apperrors.ValidationDetail, field, value string) []apperrors.ValidationDetail {
	if strings.TrimSpace(value) != "" {
		return details
	}
	return append(details, apperrors.ValidationDetail{Field: field, Message: field + " is required"})
}

func userDTO(u *domain.User) *dto.UserDTO {
	if u == nil {
		return nil
	}
	return &dto.UserDTO{ID: u.ID, Name: u.Name, Email: u.Email}
}
