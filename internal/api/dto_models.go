package api

import (
	"clubhub-backend-go/internal/auth"
	"clubhub-backend-go/internal/middleware"
	"clubhub-backend-go/internal/models"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse = middleware.ErrorResponse

// SessionResponse describes the session produced by an auth endpoint.
type SessionResponse struct {
	State   string          `json:"state"`
	User    *auth.Principal `json:"user,omitempty"`
	Profile *models.User    `json:"profile,omitempty"`
}

func sessionResponse(snap auth.Snapshot) SessionResponse {
	return SessionResponse{State: snap.State.String(), User: snap.Principal, Profile: snap.Profile}
}

// BulkPaymentResponse lists the IDs of the payments created by a bulk charge.
type BulkPaymentResponse struct {
	PaymentIDs []string `json:"paymentIds"`
	Count      int      `json:"count"`
}

// ListResponse wraps a page of results. NextStartAfter is set when the page
// is full and another may follow.
type ListResponse[T any] struct {
	Items          []T    `json:"items"`
	NextStartAfter string `json:"nextStartAfter,omitempty"`
}
