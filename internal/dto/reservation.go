package dto

import "time"

// ReservationRequest is the booking form as the browser submits it.
type ReservationRequest struct {
	ProductID int    `json:"productId"`
	Quantity  int    `json:"quantity"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

type ValidateReservationResponse struct {
	TraceID            string   `json:"traceId"`
	Valid              bool     `json:"valid"`
	Message            string   `json:"message,omitempty"`
	Details            []Detail `json:"details,omitempty"`
	Date               string   `json:"date"`
	Time               string   `json:"time"`
	OfferedSlots       []string `json:"offeredSlots"`
	HasTimeRestriction bool     `json:"hasTimeRestriction"`
	MinDate            string   `json:"minDate"`
	MaxDate            string   `json:"maxDate"`
	AvailableStock     int      `json:"availableStock"`
	Subtotal           float64  `json:"subtotal"`
}

type Detail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type CreateReservationResponse struct {
	TraceID       string    `json:"traceId"`
	Success       bool      `json:"success"`
	ReservationID int       `json:"reservationId"`
	Timestamp     time.Time `json:"timestamp"`
}

type ReservationLineDTO struct {
	ID          int     `json:"id"`
	ProductID   int     `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Subtotal    float64 `json:"subtotal"`
}

type ReservationDTO struct {
	ID          int                  `json:"id"`
	StatusID    int                  `json:"statusId"`
	Status      string               `json:"status"`
	CompanyID   int                  `json:"companyId"`
	CompanyName string               `json:"companyName"`
	ScheduledAt *time.Time           `json:"scheduledAt"`
	CreatedAt   *time.Time           `json:"createdAt,omitempty"`
	Lines       []ReservationLineDTO `json:"lines"`
	Total       float64              `json:"total"`
	Elapsed     bool                 `json:"elapsed"`
	CanConfirm  bool                 `json:"canConfirm"`
	CanCancel   bool                 `json:"canCancel"`
}

type ReservationListResponse struct {
	Reservations []ReservationDTO `json:"reservations"`
}

type ReservationResponse struct {
	Reservation ReservationDTO `json:"reservation"`
}

type ReservationActionResponse struct {
	TraceID       string `json:"traceId"`
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ReservationID int    `json:"reservationId"`
}
