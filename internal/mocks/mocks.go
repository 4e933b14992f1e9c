package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"order-console/internal/domain"
)

type MockOrderSource struct {
	mock.Mock
}

type MockSnapshotCache struct {
	mock.Mock
}

type MockPublisher struct {
	mock.Mock
}

type MockExportRepository struct {
	mock.Mock
}

func (m *MockOrderSource) FetchOrders(ctx context.Context, token string, params domain.FetchParams) ([]*domain.Order, error) {
	args := m.Called(ctx, token, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Order), args.Error(1)
}

func (m *MockOrderSource) UpdateStatus(ctx context.Context, token string, update domain.StatusUpdate) error {
	args := m.Called(ctx, token, update)
	return args.Error(0)
}

func (m *MockSnapshotCache) Get(ctx context.Context, token string, params domain.FetchParams) ([]*domain.Order, bool, error) {
	args := m.Called(ctx, token, params)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Order), args.Bool(1), args.Error(2)
}

func (m *MockSnapshotCache) Set(ctx context.Context, token string, params domain.FetchParams, orders []*domain.Order) error {
	args := m.Called(ctx, token, params, orders)
	return args.Error(0)
}

func (m *MockSnapshotCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, message any) error {
	args := m.Called(ctx, topic, message)
	return args.Error(0)
}

func (m *MockExportRepository) Save(ctx context.Context, rec *domain.ExportRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockExportRepository) ListRecent(ctx context.Context, sessionID string, limit int) ([]domain.ExportRecord, error) {
	args := m.Called(ctx, sessionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExportRecord), args.Error(1)
}
