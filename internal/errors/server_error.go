package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
)

// ServerErrorKind tells which of the two payload shapes the reservation
// service answered with.
type ServerErrorKind int

const (
	SingleMessage ServerErrorKind = iota
	FieldErrors
)

func (k ServerErrorKind) String() string {
	if k == FieldErrors {
		return "FIELD_ERRORS"
	}
	return "SINGLE_MESSAGE"
}

type FieldError struct {
	Field    string   `json:"field"`
	Messages []string `json:"messages"`
}

// ServerError is a request rejected by the reservation service. Exactly one
// of Text (SingleMessage) or Fields (FieldErrors) is meaningful. Fields keep
// the order in which the service sent them.
type ServerError struct {
	Status int
	Kind   ServerErrorKind
	Text   string
	Fields []FieldError
}

func NewSingleMessage(status int, message string) *ServerError {
	return &ServerError{Status: status, Kind: SingleMessage, Text: message}
}

func NewFieldErrors(status int, fields ...FieldError) *ServerError {
	return &ServerError{Status: status, Kind: FieldErrors, Fields: fields}
}

// Message is the one line shown to the user: the single message, or the first
// message of the first field that has any.
func (e *ServerError) Message() string {
	if e.Kind == SingleMessage {
		return e.Text
	}
	for _, f := range e.Fields {
		if len(f.Messages) > 0 {
			return f.Messages[0]
		}
	}
	return ""
}

// All flattens every message in field order.
func (e *ServerError) All() []string {
	if e.Kind == SingleMessage {
		if e.Text == "" {
			return nil
		}
		return []string{e.Text}
	}
	var out []string
	for _, f := range e.Fields {
		out = append(out, f.Messages...)
	}
	return out
}

// Unauthenticated is true for the service's "no session" (401) and
// "session expired" (419) answers.
func (e *ServerError) Unauthenticated() bool {
	return e.Status == 401 || e.Status == 419
}

func (e *ServerError) Error() string {
	return e.Message()
}

func IsServerError(err error) (*ServerError, bool) {
	var se *ServerError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// DecodeServerError turns an error body into a ServerError. A "message" field
// wins over an "errors" map; "error" is the last resort before fallback.
func DecodeServerError(status int, body []byte, fallback string) *ServerError {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return NewSingleMessage(status, fallback)
	}

	if msg := rawString(envelope["message"]); msg != "" {
		return NewSingleMessage(status, msg)
	}

	if raw, ok := envelope["errors"]; ok {
		fields, err := decodeFieldErrors(raw)
		if err == nil && len(fields) > 0 {
			return NewFieldErrors(status, fields...)
		}
	}

	if msg := rawString(envelope["error"]); msg != "" {
		return NewSingleMessage(status, msg)
	}

	return NewSingleMessage(status, fallback)
}

func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// decodeFieldErrors walks the object token by token; a map would lose the
// order the first-message rule depends on.
func decodeFieldErrors(raw json.RawMessage) ([]FieldError, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading errors object: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("errors payload is not an object")
	}

	var fields []FieldError
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading field name: %w", err)
		}
		key, _ := keyTok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("reading messages for %s: %w", key, err)
		}

		fields = append(fields, FieldError{Field: key, Messages: decodeMessages(value)})
	}

	return fields, nil
}

func decodeMessages(raw json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	if s := rawString(raw); s != "" {
		return []string{s}
	}
	return nil
}
