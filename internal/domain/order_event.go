package domain

import "time"

type OrderStatusUpdatedEvent struct {
	OrderID      string        `json:"orderId"`
	Status       PaymentStatus `json:"status"`
	CancelReason string        `json:"cancelReason,omitempty"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

type OrdersExportedEvent struct {
	Kind      ExportKind `json:"kind"`
	FileName  string     `json:"fileName"`
	Rows      int        `json:"rows"`
	SessionID string     `json:"sessionId"`
	CreatedAt time.Time  `json:"createdAt"`
}
