package repository

import (
	"context"
	"errors"

	"photogallery/internal/model"
)

// ErrDuplicateFilename is returned when an insert or update collides with the
// unique filename constraint.
var ErrDuplicateFilename = errors.New("filename already exists")

// SortOrder selects the ordering of List.
type SortOrder string

const (
	// SortByName orders by filename ascending.
	SortByName SortOrder = "name"
	// SortByDate orders by upload time, newest first.
	SortByDate SortOrder = "date"
	// SortBySize is applied by the caller from the file store; rows come back in id order.
	SortBySize SortOrder = "size"
)

// Valid reports whether o is one of the known orders.
func (o SortOrder) Valid() bool {
	switch o {
	case SortByName, SortByDate, SortBySize:
		return true
	}
	return false
}

// PhotoRepository defines data access for photos using SQL queries only.
type PhotoRepository interface {
	// Create inserts a new photo and returns it with the id and uploaded_at set by the database.
	Create(ctx context.Context, photo *model.Photo) (*model.Photo, error)

	// FindByID returns a photo by its ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id int64) (*model.Photo, error)

	// List returns every photo in the given order.
	List(ctx context.Context, order SortOrder) ([]model.Photo, error)

	// Update persists filename and filepath of an existing photo.
	Update(ctx context.Context, photo *model.Photo) error

	// Delete removes a photo by ID. It returns nil if the row did not exist.
	Delete(ctx context.Context, id int64) error
}
