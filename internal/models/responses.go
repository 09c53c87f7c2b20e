package models

import (
	"encoding/json"
	"net/http"
	"time"
)

type APIResponse struct {
	Status    string      `json:"status"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"-"`
}

func (r *APIResponse) MarshalJSON() ([]byte, error) {
	type Alias APIResponse
	return json.Marshal(&struct {
		*Alias
		Timestamp string `json:"timestamp"`
	}{
		Alias:     (*Alias)(r),
		Timestamp: r.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
	})
}

func NewSuccessResponse(message string, data interface{}) *APIResponse {
	return &APIResponse{
		Status:    "success",
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

func NewErrorResponse(message string) *APIResponse {
	return &APIResponse{
		Status:    "error",
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

func NewWaitingResponse(message string) *APIResponse {
	return &APIResponse{
		Status:    "waiting",
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

func RespondWithJSON(w http.ResponseWriter, statusCode int, response *APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// Remote service payloads.

type AuthStatus struct {
	Configured bool `json:"configured"`
}

type ConnectionStatus struct {
	IsReady bool   `json:"isReady"`
	Status  string `json:"status,omitempty"`
}

// Status values reported by GET /status.
const (
	ConnStatusQRReady = "qr_ready"
	ConnStatusReady   = "ready"
)

type QRCodeResponse struct {
	QRCode string `json:"qrCode"`
}

type SetupResponse struct {
	Token string `json:"token"`
}

type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type ImportResult struct {
	Imported []Contact    `json:"imported"`
	Errors   []ImportIssue `json:"errors,omitempty"`
}

type ImportIssue struct {
	Line   int    `json:"line"`
	Row    string `json:"row"`
	Reason string `json:"reason"`
}

type SendResult struct {
	Contact Contact `json:"contact"`
	// Link is set in browser integration mode: the message is opened by the
	// user instead of dispatched by the remote service.
	Link string `json:"link,omitempty"`
}
