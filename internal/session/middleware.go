package session

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"reserva/internal/commons"
	"reserva/internal/domain"
	"reserva/internal/infrastructure/reservaapi"
)

type UserResolver interface {
	CurrentUser(ctx context.Context, sess *reservaapi.Session) (*domain.User, error)
}

// Attach builds the session from the request cookies once, so every handler
// downstream shares it and its cookie updates.
func Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := reservaapi.SessionFromRequest(r)
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

// RequireUser resolves the logged-in user with the reservation service and
// answers 401 when there is none.
func RequireUser(users UserResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := From(r)

			user, err := users.CurrentUser(r.Context(), sess)
			if err != nil {
				traceID := uuid.New().String()
				WriteCookies(w, sess)
				commons.WriteError(w, logger.With(zap.String("traceId", traceID), zap.String("path", r.URL.Path)), traceID, err)
				return
			}

			ctx := WithSession(r.Context(), sess)
			ctx = WithUser(ctx, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
