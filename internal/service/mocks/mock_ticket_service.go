package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kitloop/internal/model"
	"kitloop/internal/service"
)

type MockTicketService struct {
	mock.Mock
}

func (m *MockTicketService) Issue(ctx context.Context, userID string, req *model.TicketRequest) (*model.UploadTicket, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UploadTicket), args.Error(1)
}

func (m *MockTicketService) ListAudit(ctx context.Context, userID, providerID string, limit, offset int) (*service.AuditListResult, error) {
	args := m.Called(ctx, userID, providerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuditListResult), args.Error(1)
}
