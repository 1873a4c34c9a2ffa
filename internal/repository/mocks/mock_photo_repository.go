package mocks

import (
	"context"

	"photogallery/internal/model"
	"photogallery/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockPhotoRepository struct {
	mock.Mock
}

func (m *MockPhotoRepository) Create(ctx context.Context, photo *model.Photo) (*model.Photo, error) {
	args := m.Called(ctx, photo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Photo), args.Error(1)
}

func (m *MockPhotoRepository) FindByID(ctx context.Context, id int64) (*model.Photo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Photo), args.Error(1)
}

func (m *MockPhotoRepository) List(ctx context.Context, order repository.SortOrder) ([]model.Photo, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Photo), args.Error(1)
}

func (m *MockPhotoRepository) Update(ctx context.Context, photo *model.Photo) error {
	args := m.Called(ctx, photo)
	return args.Error(0)
}

func (m *MockPhotoRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
