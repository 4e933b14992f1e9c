package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"order-console/internal/domain"
	"order-console/internal/repository"
)

const maxListLimit = 200

type exportRepo struct {
	db *gorm.DB
}

func NewExportRepository(db *gorm.DB) repository.ExportRepository {
	return &exportRepo{db: db}
}

func (r *exportRepo) Save(ctx context.Context, rec *domain.ExportRecord) error {
	result := r.db.WithContext(ctx).Create(rec)
	if result.Error != nil {
		return fmt.Errorf("export journal: save: %w", result.Error)
	}
	if rec.ID == 0 {
		return errors.New("export journal: record saved without an id")
	}
	return nil
}

func (r *exportRepo) ListRecent(ctx context.Context, sessionID string, limit int) ([]domain.ExportRecord, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	q := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(limit)
	if sessionID != "" {
		q = q.Where("session_id = ?", sessionID)
	}
	out := []domain.ExportRecord{}
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("export journal: list: %w", err)
	}
	return out, nil
}
