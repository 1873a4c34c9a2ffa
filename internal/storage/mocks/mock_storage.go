package mocks

import (
	"context"
	"io"

	"photogallery/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Path(name string) string {
	args := m.Called(name)
	return args.String(0)
}

func (m *MockStorage) Exists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) Create(ctx context.Context, name string, r io.Reader) (string, int64, error) {
	args := m.Called(ctx, name, r)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) Remove(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockStorage) Rename(ctx context.Context, oldName, newName string) (string, error) {
	args := m.Called(ctx, oldName, newName)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Size(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) Open(ctx context.Context, name string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, storage.ObjectInfo{}, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
}
