package dto

import "time"

type ErrorResponse struct {
	TraceID   string    `json:"traceId"`
	Status    int       `json:"status"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   []Detail  `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
