package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"photogallery/internal/model"
	"photogallery/internal/queue"
	"photogallery/internal/repository"
	"photogallery/internal/storage"
)

var (
	ErrConflict        = errors.New("file already exists")
	ErrNotFound        = errors.New("photo not found")
	ErrInvalidOrder    = errors.New("invalid order_by value")
	ErrInvalidFilename = errors.New("invalid file name")
	ErrReaderNil       = errors.New("reader is nil")
)

var tracer = otel.Tracer("photogallery/internal/service")

// PhotoService defines the gallery use cases.
type PhotoService interface {
	// Upload stores the content under filename, records it and queues it for processing.
	Upload(ctx context.Context, filename string, r io.Reader) (*model.Photo, error)

	// List returns every photo ordered by "name", "size" or "date" ("" means "date").
	List(ctx context.Context, order string) ([]model.Photo, error)

	// Delete removes the stored file (if any) and then the record.
	Delete(ctx context.Context, id int64) error

	// Rename moves the stored file to newName and then updates the record.
	Rename(ctx context.Context, id int64, newName string) (*model.Photo, error)
}

type photoService struct {
	store      storage.Storage
	repo       repository.PhotoRepository
	dispatcher queue.Dispatcher
}

// NewPhotoService constructs a new PhotoService.
func NewPhotoService(store storage.Storage, repo repository.PhotoRepository, dispatcher queue.Dispatcher) PhotoService {
	return &photoService{store: store, repo: repo, dispatcher: dispatcher}
}

func (s *photoService) Upload(ctx context.Context, filename string, r io.Reader) (_ *model.Photo, err error) {
	ctx, span := tracer.Start(ctx, "PhotoService.Upload", trace.WithAttributes(attribute.String("photo.filename", filename)))
	defer func() { endSpan(span, err) }()

	if r == nil {
		return nil, ErrReaderNil
	}
	if storage.ValidateName(filename) != nil {
		return nil, ErrInvalidFilename
	}

	exists, err := s.store.Exists(ctx, filename)
	if err != nil {
		return nil, fmt.Errorf("check file: %w", err)
	}
	if exists {
		return nil, ErrConflict
	}

	path, _, err := s.store.Create(ctx, filename, r)
	if err != nil {
		if errors.Is(err, storage.ErrExists) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("write file: %w", err)
	}

	stored, err := s.repo.Create(ctx, &model.Photo{Filename: filename, FilePath: path})
	if err != nil {
		// Rollback: the file was created by this call, drop it
		if delErr := s.store.Remove(ctx, filename); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		if errors.Is(err, repository.ErrDuplicateFilename) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	// The row is committed; a failed hand-off still fails the request.
	if err := s.dispatcher.Enqueue(ctx, stored.FilePath); err != nil {
		return nil, fmt.Errorf("enqueue processing: %w", err)
	}
	return stored, nil
}

func (s *photoService) List(ctx context.Context, order string) (_ []model.Photo, err error) {
	ctx, span := tracer.Start(ctx, "PhotoService.List", trace.WithAttributes(attribute.String("photo.order_by", order)))
	defer func() { endSpan(span, err) }()

	so := repository.SortOrder(order)
	if order == "" {
		so = repository.SortByDate
	}
	if !so.Valid() {
		return nil, ErrInvalidOrder
	}

	photos, err := s.repo.List(ctx, so)
	if err != nil {
		return nil, err
	}
	if so != repository.SortBySize {
		return photos, nil
	}

	// Size is read from the file store at request time, not from the database.
	sizes := make(map[int64]int64, len(photos))
	for _, p := range photos {
		n, err := s.store.Size(ctx, p.Filename)
		if err != nil {
			return nil, fmt.Errorf("size of %s: %w", p.Filename, err)
		}
		sizes[p.ID] = n
	}
	sort.SliceStable(photos, func(i, j int) bool {
		return sizes[photos[i].ID] < sizes[photos[j].ID]
	})
	return photos, nil
}

func (s *photoService) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := tracer.Start(ctx, "PhotoService.Delete", trace.WithAttributes(attribute.Int64("photo.id", id)))
	defer func() { endSpan(span, err) }()

	photo, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Remove(ctx, photo.Filename); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

func (s *photoService) Rename(ctx context.Context, id int64, newName string) (_ *model.Photo, err error) {
	ctx, span := tracer.Start(ctx, "PhotoService.Rename", trace.WithAttributes(
		attribute.Int64("photo.id", id),
		attribute.String("photo.new_name", newName),
	))
	defer func() { endSpan(span, err) }()

	if storage.ValidateName(newName) != nil {
		return nil, ErrInvalidFilename
	}

	photo, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.store.Exists(ctx, newName)
	if err != nil {
		return nil, fmt.Errorf("check file: %w", err)
	}
	if exists {
		return nil, ErrConflict
	}

	path, err := s.store.Rename(ctx, photo.Filename, newName)
	if err != nil {
		if errors.Is(err, storage.ErrExists) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("rename file: %w", err)
	}

	// No rollback of the file rename if the update fails.
	photo.Filename = newName
	photo.FilePath = path
	if err := s.repo.Update(ctx, photo); err != nil {
		if errors.Is(err, repository.ErrDuplicateFilename) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("update record: %w", err)
	}
	return photo, nil
}

func (s *photoService) find(ctx context.Context, id int64) (*model.Photo, error) {
	photo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return photo, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
