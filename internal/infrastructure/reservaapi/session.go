package reservaapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	xsrfCookieName = "XSRF-TOKEN"
	xsrfHeaderName = "X-XSRF-TOKEN"
)

// Session is the caller's opaque identity at the reservation service: the
// cookies it issued, including the XSRF token cookie. It belongs to a single
// request or CLI invocation and is not safe for concurrent use.
type Session struct {
	cookies []*http.Cookie
	updated []*http.Cookie
}

func NewSession(cookies ...*http.Cookie) *Session {
	s := &Session{}
	for _, c := range cookies {
		s.set(c)
	}
	return s
}

// SessionFromRequest forwards every cookie the browser sent.
func SessionFromRequest(r *http.Request) *Session {
	return NewSession(r.Cookies()...)
}

// ParseSession reads a Cookie header line such as "a=1; b=2".
func ParseSession(header string) (*Session, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return NewSession(), nil
	}
	cookies, err := http.ParseCookie(header)
	if err != nil {
		return nil, fmt.Errorf("parsing session cookies: %w", err)
	}
	return NewSession(cookies...), nil
}

func (s *Session) Cookies() []*http.Cookie {
	return append([]*http.Cookie(nil), s.cookies...)
}

// Updated lists the cookies the service set or cleared during this session,
// in the order received, so they can be relayed back to the browser.
func (s *Session) Updated() []*http.Cookie {
	return append([]*http.Cookie(nil), s.updated...)
}

// Header renders the cookies as a Cookie header line.
func (s *Session) Header() string {
	parts := make([]string, 0, len(s.cookies))
	for _, c := range s.cookies {
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}

// XSRFToken is the decoded XSRF-TOKEN cookie, sent back as X-XSRF-TOKEN.
func (s *Session) XSRFToken() string {
	for _, c := range s.cookies {
		if c.Name != xsrfCookieName {
			continue
		}
		token, err := url.QueryUnescape(c.Value)
		if err != nil {
			return c.Value
		}
		return token
	}
	return ""
}

func (s *Session) HasCookies() bool {
	return len(s.cookies) > 0
}

func (s *Session) apply(req *http.Request) {
	for _, c := range s.cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	if token := s.XSRFToken(); token != "" {
		req.Header.Set(xsrfHeaderName, token)
	}
}

func (s *Session) absorb(cookies []*http.Cookie, now time.Time) {
	for _, c := range cookies {
		s.updated = append(s.updated, c)
		if c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(now)) {
			s.remove(c.Name)
			continue
		}
		s.set(c)
	}
}

func (s *Session) set(c *http.Cookie) {
	for i, existing := range s.cookies {
		if existing.Name == c.Name {
			s.cookies[i] = c
			return
		}
	}
	s.cookies = append(s.cookies, c)
}

func (s *Session) remove(name string) {
	kept := s.cookies[:0]
	for _, c := range s.cookies {
		if c.Name != name {
			kept = append(kept, c)
		}
	}
	s.cookies = kept
}
