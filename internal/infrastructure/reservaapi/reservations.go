package reservaapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"reserva/internal/domain"
	apperrors "reserva/internal/errors"
)

// CreateReservation books a single line and returns the new reservation id.
func (c *Client) CreateReservation(ctx context.Context, sess *Session, req domain.ReservationRequest) (int, error) {
	var res createReservationResponse
	in := newCreateReservationPayload(req)
	if err := c.call(ctx, sess, http.MethodPost, "/api/reservations", in, &res, "could not create the reservation"); err != nil {
		return 0, fmt.Errorf("creating reservation: %w", err)
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = "could not create the reservation"
		}
		return 0, apperrors.NewSingleMessage(http.StatusOK, msg)
	}
	return res.ReservationID, nil
}

// ListReservations accepts both {"reservations": [...]} and a bare array.
func (c *Client) ListReservations(ctx context.Context, sess *Session) ([]domain.Reservation, error) {
	var raw json.RawMessage
	if err := c.call(ctx, sess, http.MethodGet, "/api/reservations", nil, &raw, "reservations could not be loaded"); err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}

	var payload []reservationPayload
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return nil, apperrors.NewInternalError("decoding reservation list", err)
		}
	} else if len(trimmed) > 0 {
		var envelope reservationListEnvelope
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, apperrors.NewInternalError("decoding reservation list", err)
		}
		payload = envelope.Reservations
	}

	reservations := make([]domain.Reservation, 0, len(payload))
	for _, p := range payload {
		reservations = append(reservations, p.toDomain(c.loc))
	}
	return reservations, nil
}

func (c *Client) GetReservation(ctx context.Context, sess *Session, id int) (*domain.Reservation, error) {
	var envelope reservationEnvelope
	path := fmt.Sprintf("/api/reservations/%d", id)
	if err := c.call(ctx, sess, http.MethodGet, path, nil, &envelope, "reservation could not be loaded"); err != nil {
		return nil, fmt.Errorf("loading reservation %d: %w", id, reservationError(err))
	}
	if envelope.Reservation == nil {
		return nil, apperrors.NewNotFoundError("reservation not found")
	}

	r := envelope.Reservation.toDomain(c.loc)
	return &r, nil
}

// ConfirmReservation returns the service's confirmation message.
func (c *Client) ConfirmReservation(ctx context.Context, sess *Session, id int) (string, error) {
	return c.reservationAction(ctx, sess, id, domain.ActionConfirm, "could not confirm the reservation")
}

func (c *Client) CancelReservation(ctx context.Context, sess *Session, id int) (string, error) {
	return c.reservationAction(ctx, sess, id, domain.ActionCancel, "could not cancel the reservation")
}

func (c *Client) reservationAction(ctx context.Context, sess *Session, id int, action domain.ReservationAction, fallback string) (string, error) {
	var res actionResponse
	path := fmt.Sprintf("/api/reservations/%d/%s", id, action)
	if err := c.call(ctx, sess, http.MethodPost, path, nil, &res, fallback); err != nil {
		return "", fmt.Errorf("%s reservation %d: %w", action, id, reservationError(err))
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = fallback
		}
		return "", apperrors.NewSingleMessage(http.StatusOK, msg)
	}
	return res.Message, nil
}

func reservationError(err error) error {
	se, ok := apperrors.IsServerError(err)
	if !ok {
		return err
	}
	switch se.Status {
	case http.StatusNotFound:
		return apperrors.NewNotFoundError("reservation not found")
	case http.StatusForbidden:
		return apperrors.NewForbiddenError(se.Message())
	}
	return err
}
