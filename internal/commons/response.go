package commons

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"reserva/internal/dto"
	apperrors "reserva/internal/errors"
)

func WriteJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// WriteError reports err as a dto.ErrorResponse. Anything that classifies as
// a 5xx is logged at error level with its cause.
func WriteError(w http.ResponseWriter, logger *zap.Logger, traceID string, err error) {
	c := apperrors.Classify(err)
	if c.Status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.Int("status", c.Status), zap.String("code", c.Code), zap.Error(err))
	} else {
		logger.Info("request rejected", zap.Int("status", c.Status), zap.String("code", c.Code), zap.String("message", c.Message))
	}

	WriteJSON(w, logger, c.Status, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    c.Status,
		Code:      c.Code,
		Message:   c.Message,
		Details:   Details(c.Details),
		Timestamp: time.Now().UTC(),
	})
}

func WriteValidationError(w http.ResponseWriter, logger *zap.Logger, traceID, message string, details ...apperrors.ValidationDetail) {
	WriteError(w, logger, traceID, apperrors.NewValidationError(message, details...))
}

func Details(in []apperrors.ValidationDetail) []dto.Detail {
	if len(in) == 0 {
		return nil
	}
	out := make([]dto.Detail, len(in))
	for i, d := range in {
		out[i] = dto.Detail{Field: d.Field, Message: d.Message}
	}
	return out
}

// PositiveID reads a path parameter that must be a positive integer.
func PositiveID(raw, field string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		msg := field + " must be a positive integer"
		return 0, apperrors.NewValidationError("invalid "+field, apperrors.ValidationDetail{Field: field, Message: msg})
	}
	return id, nil
}
