package mocks

import (
	"context"
	"io"

	"photogallery/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockPhotoService struct {
	mock.Mock
}

func (m *MockPhotoService) Upload(ctx context.Context, filename string, r io.Reader) (*model.Photo, error) {
	args := m.Called(ctx, filename, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Photo), args.Error(1)
}

func (m *MockPhotoService) List(ctx context.Context, order string) ([]model.Photo, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Photo), args.Error(1)
}

func (m *MockPhotoService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPhotoService) Rename(ctx context.Context, id int64, newName string) (*model.Photo, error) {
	args := m.Called(ctx, id, newName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Photo), args.Error(1)
}
