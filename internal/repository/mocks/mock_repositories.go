package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kitloop/internal/model"
	"kitloop/internal/repository"
)

type MockProviderAccessRepository struct {
	mock.Mock
}

func (m *MockProviderAccessRepository) HasAccess(ctx context.Context, providerID, userID string) (bool, error) {
	args := m.Called(ctx, providerID, userID)
	return args.Bool(0), args.Error(1)
}

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) BelongsToProvider(ctx context.Context, reservationID, providerID string) (bool, error) {
	args := m.Called(ctx, reservationID, providerID)
	return args.Bool(0), args.Error(1)
}

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, rec *model.AuditRecord) (*model.AuditRecord, error) {
	args := m.Called(ctx, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuditRecord), args.Error(1)
}

func (m *MockAuditRepository) ListByProvider(ctx context.Context, providerID string, pq repository.PageQuery) (*repository.PageResult[model.AuditRecord], error) {
	args := m.Called(ctx, providerID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.AuditRecord]), args.Error(1)
}
