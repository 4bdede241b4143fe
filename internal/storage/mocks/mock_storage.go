package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"kitloop/internal/storage"
)

type MockSigner struct {
	mock.Mock
}

func (m *MockSigner) PresignUpload(ctx context.Context, bucket, key string, expiry time.Duration) (storage.SignedUpload, error) {
	args := m.Called(ctx, bucket, key, expiry)
	if f, ok := args.Get(0).(func(context.Context, string, string, time.Duration) storage.SignedUpload); ok {
		return f(ctx, bucket, key, expiry), args.Error(1)
	}
	return args.Get(0).(storage.SignedUpload), args.Error(1)
}
