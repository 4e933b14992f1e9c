package http

import (
	"order-console/internal/domain"
	"order-console/internal/orderview"
)

type IntentRequest struct {
	Type  orderview.IntentType `json:"type" binding:"required"`
	Value string               `json:"value"`
}

type UpdateStatusRequest struct {
	Status       domain.PaymentStatus `json:"status"`
	CancelReason string               `json:"cancelReason"`
}

// ViewResponse is the body of every endpoint that returns the order view,
// including rejected intents and transient failures.
type ViewResponse struct {
	View         *orderview.View `json:"view,omitempty"`
	Notification string          `json:"notification,omitempty"`
	Error        string          `json:"error,omitempty"`
	Redirect     string          `json:"redirect,omitempty"`
}

type ExportsResponse struct {
	Records []domain.ExportRecord `json:"records"`
}
