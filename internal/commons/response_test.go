package commons

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reserva/internal/dto"
	apperrors "reserva/internal/errors"
)

func TestWriteError_ValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteValidationError(rec, zap.NewNop(), "trace-1", "validation failed",
		apperrors.ValidationDetail{Field: "quantity", Message: "quantity must be at least 1"},
	)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "trace-1", body.TraceID)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "quantity", body.Details[0].Field)
}

func TestWriteError_HidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, zap.NewNop(), "trace-2", fmt.Errorf("querying: %w", fmt.Errorf("dial tcp: refused")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "dial tcp")
}

func TestPositiveID(t *testing.T) {
	id, err := PositiveID("12", "productId")
	require.NoError(t, err)
	assert.Equal(t, 12, id)

	for _, raw := range []string{"", "0", "-3", "abc"} {
		_, err := PositiveID(raw, "productId")
		ve, ok := apperrors.IsValidationError(err)
		require.True(t, ok, raw)
		assert.Equal(t, "productId", ve.Details[0].Field)
	}
}
