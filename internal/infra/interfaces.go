package infra

import (
	"context"

	"order-console/internal/domain"
)

// OrderSource is the remote order service. token is the operator's bearer
// credential.
type OrderSource interface {
	FetchOrders(ctx context.Context, token string, params domain.FetchParams) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, token string, update domain.StatusUpdate) error
}

var _ OrderSource = (*OrderClient)(nil)

// SnapshotCache holds recently fetched raw collections keyed by operator and
// fetch parameters.
type SnapshotCache interface {
	Get(ctx context.Context, token string, params domain.FetchParams) ([]*domain.Order, bool, error)
	Set(ctx context.Context, token string, params domain.FetchParams, orders []*domain.Order) error
	Invalidate(ctx context.Context) error
}
