//go:build !production

package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/kash-scorekeeper/internal/server/storage"
)

// MockStore 实现 storage.Store 的 mock
type MockStore struct {
	mock.Mock
}

func (m *MockStore) SaveGame(ctx context.Context, data *storage.GameData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockStore) LoadGame(ctx context.Context, id string) (*storage.GameData, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.GameData), args.Error(1)
}

func (m *MockStore) DeleteGame(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) GetAllGameIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
