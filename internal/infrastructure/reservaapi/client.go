// Package reservaapi talks to the remote reservation service, the system of
// record for companies, products, users and reservations. Public catalog
// calls need no session; everything else runs on behalf of a Session.
package reservaapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"reserva/internal/config"
	apperrors "reserva/internal/errors"
)

const maxBodyBytes = 1 << 20

type Client struct {
	baseURL *url.URL
	hc      *http.Client
	loc     *time.Location
	logger  *zap.Logger
	now     func() time.Time
}

// New builds a client for cfg.BaseURL. loc is the zone the service writes
// its local date-times in.
func New(cfg config.UpstreamConfig, loc *time.Location, logger *zap.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing reservation service url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("reservation service url must be http or https, got %q", cfg.BaseURL)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Client{
		baseURL: base,
		hc: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		loc:    loc,
		logger: logger,
		now:    time.Now,
	}, nil
}

// call sends in as JSON (when non-nil), decodes a 2xx body into out (when
// non-nil) and turns any other status into a *errors.ServerError whose
// message falls back to fallback.
func (c *Client) call(ctx context.Context, sess *Session, method, path string, in, out any, fallback string) error {
	status, body, err := c.do(ctx, sess, method, path, in)
	if err != nil {
		return err
	}

	if status >= http.StatusBadRequest {
		se := apperrors.DecodeServerError(status, body, fallback)
		c.logger.Debug("reservation service rejected request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.String("kind", se.Kind.String()),
			zap.String("message", se.Message()),
		)
		return se
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.NewInternalError("decoding reservation service response", fmt.Errorf("%s %s: %w", method, path, err))
	}
	return nil
}

func (c *Client) do(ctx context.Context, sess *Session, method, path string, in any) (int, []byte, error) {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return 0, nil, fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return 0, nil, fmt.Errorf("building %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess != nil {
		sess.apply(req)
	}

	start := time.Now()
	res, err := c.hc.Do(req)
	if err != nil {
		c.logger.Warn("reservation service unreachable",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return 0, nil, apperrors.NewInternalError(apperrors.MsgUpstreamUnreachable, err)
	}
	defer res.Body.Close()

	if sess != nil {
		sess.absorb(res.Cookies(), c.now())
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return res.StatusCode, nil, apperrors.NewInternalError("reading reservation service response", err)
	}

	c.logger.Debug("reservation service call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", res.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return res.StatusCode, body, nil
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + path
}
