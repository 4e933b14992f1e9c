package repository

import (
	"context"

	"order-console/internal/domain"
)

// ExportRepository is the write-once journal of produced export artifacts.
type ExportRepository interface {
	Save(ctx context.Context, rec *domain.ExportRecord) error
	// ListRecent returns the newest records first. An empty sessionID lists
	// every session.
	ListRecent(ctx context.Context, sessionID string, limit int) ([]domain.ExportRecord, error)
}
