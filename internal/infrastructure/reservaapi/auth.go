package reservaapi

import (
	"context"
	"fmt"
	"net/http"

	"reserva/internal/domain"
	apperrors "reserva/internal/errors"
)

const loginFallback = "login failed"

type Credentials struct {
	Email    string
	Password string
}

type Registration struct {
	FirstName            string
	LastName             string
	Email                string
	Password             string
	PasswordConfirmation string
}

// CSRFCookie primes sess with the XSRF-TOKEN cookie the service requires on
// state-changing requests.
func (c *Client) CSRFCookie(ctx context.Context, sess *Session) error {
	if err := c.call(ctx, sess, http.MethodGet, "/sanctum/csrf-cookie", nil, nil, "session could not be started"); err != nil {
		return fmt.Errorf("fetching csrf cookie: %w", err)
	}
	return nil
}

// Login starts an authenticated session. Wrong credentials come back as a
// 401 ServerError, a stale XSRF token as 419.
func (c *Client) Login(ctx context.Context, sess *Session, creds Credentials) (*domain.User, error) {
	if err := c.CSRFCookie(ctx, sess); err != nil {
		return nil, err
	}

	var res authResponse
	in := loginPayload{Correo: creds.Email, Pass: creds.Password}
	if err := c.call(ctx, sess, http.MethodPost, "/api/login", in, &res, loginFallback); err != nil {
		return nil, fmt.Errorf("logging in: %w", loginError(err))
	}

	user := res.user()
	if user == nil {
		return nil, apperrors.NewInternalError("login response carried no user", nil)
	}
	return user, nil
}

// Register creates an account. The service may or may not log the new user
// in; the returned user is nil when it does not say.
func (c *Client) Register(ctx context.Context, sess *Session, reg Registration) (*domain.User, error) {
	if err := c.CSRFCookie(ctx, sess); err != nil {
		return nil, err
	}

	var res authResponse
	in := registerPayload{
		Nombre:           reg.FirstName,
		Apellido:         reg.LastName,
		Correo:           reg.Email,
		Pass:             reg.Password,
		PassConfirmation: reg.PasswordConfirmation,
	}
	if err := c.call(ctx, sess, http.MethodPost, "/api/register", in, &res, "registration failed"); err != nil {
		return nil, fmt.Errorf("registering: %w", err)
	}
	return res.user(), nil
}

func (c *Client) Logout(ctx context.Context, sess *Session) error {
	if err := c.call(ctx, sess, http.MethodPost, "/api/logout", nil, nil, "logout failed"); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	return nil
}

// CurrentUser returns the user behind sess, or an UnauthorizedError when the
// session is anonymous or expired.
func (c *Client) CurrentUser(ctx context.Context, sess *Session) (*domain.User, error) {
	var res userPayload
	if err := c.call(ctx, sess, http.MethodGet, "/api/user", nil, &res, "user could not be loaded"); err != nil {
		if se, ok := apperrors.IsServerError(err); ok && se.Unauthenticated() {
			return nil, apperrors.NewUnauthorizedError("not logged in")
		}
		return nil, fmt.Errorf("loading current user: %w", err)
	}
	if res.ID == 0 && res.Email == "" && res.Correo == "" {
		return nil, apperrors.NewUnauthorizedError("not logged in")
	}

	user := res.toDomain()
	return &user, nil
}

// loginError fills in a readable message when the service answered 401 or
// 419 without one.
func loginError(err error) error {
	se, ok := apperrors.IsServerError(err)
	if !ok || se.Kind != apperrors.SingleMessage || se.Text != loginFallback {
		return err
	}
	switch se.Status {
	case http.StatusUnauthorized:
		return apperrors.NewSingleMessage(se.Status, "invalid email or password")
	case 419:
		return apperrors.NewSingleMessage(se.Status, "session expired, reload and try again")
	}
	return err
}
