// Package session carries the caller's reservation service session through
// the gateway and relays the cookies the service sets back to the browser.
package session

import (
	"context"
	"net/http"

	"reserva/internal/domain"
	"reserva/internal/infrastructure/reservaapi"
)

type contextKey int

const (
	sessionKey contextKey = iota
	userKey
)

func WithSession(ctx context.Context, sess *reservaapi.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// From returns the session attached by Attach or RequireUser, or one built
// from the request cookies when neither ran.
func From(r *http.Request) *reservaapi.Session {
	if sess, ok := r.Context().Value(sessionKey).(*reservaapi.Session); ok {
		return sess
	}
	return reservaapi.SessionFromRequest(r)
}

func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFrom is nil on routes that do not require a user.
func UserFrom(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userKey).(*domain.User)
	return user
}

// WriteCookies relays every cookie the service set or cleared during sess.
// The service's Domain attribute is dropped so the cookies bind to the
// gateway's host. Must run before the response header is written.
func WriteCookies(w http.ResponseWriter, sess *reservaapi.Session) {
	if sess == nil {
		return
	}

	updated := sess.Updated()
	last := make(map[string]int, len(updated))
	for i, c := range updated {
		last[c.Name] = i
	}

	for i, c := range updated {
		if last[c.Name] != i {
			continue
		}
		relayed := *c
		relayed.Domain = ""
		relayed.Raw = ""
		relayed.Unparsed = nil
		if relayed.Path == "" {
			relayed.Path = "/"
		}
		http.SetCookie(w, &relayed)
	}
}
