package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"photogallery/internal/database"
	"photogallery/internal/model"
	"photogallery/internal/repository"
)

const uniqueViolation = "23505"

const selectPhotos = `SELECT id, filename, filepath, uploaded_at FROM photos`

// name and date are sorted by the database; size rows are sorted by the caller.
var orderClauses = map[repository.SortOrder]string{
	repository.SortByName: ` ORDER BY filename ASC`,
	repository.SortByDate: ` ORDER BY uploaded_at DESC, id DESC`,
	repository.SortBySize: ` ORDER BY id ASC`,
}

// PhotoPostgres is a PostgreSQL implementation of repository.PhotoRepository.
// Statements run on the request session when one is bound to the context.
type PhotoPostgres struct {
	db database.Executor
}

// NewPhotoPostgres creates a new PhotoPostgres repository.
func NewPhotoPostgres(db database.Executor) *PhotoPostgres {
	return &PhotoPostgres{db: db}
}

var _ repository.PhotoRepository = (*PhotoPostgres)(nil)

func (r *PhotoPostgres) exec(ctx context.Context) database.Executor {
	return database.ExecutorFrom(ctx, r.db)
}

// Create inserts a new photo row and returns the stored record.
func (r *PhotoPostgres) Create(ctx context.Context, photo *model.Photo) (*model.Photo, error) {
	const q = `
		INSERT INTO photos (filename, filepath)
		VALUES ($1, $2)
		RETURNING id, filename, filepath, uploaded_at
	`
	row := r.exec(ctx).QueryRowContext(ctx, q, photo.Filename, photo.FilePath)
	var out model.Photo
	if err := row.Scan(&out.ID, &out.Filename, &out.FilePath, &out.UploadedAt); err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

// FindByID fetches a single photo by its ID.
func (r *PhotoPostgres) FindByID(ctx context.Context, id int64) (*model.Photo, error) {
	const q = selectPhotos + ` WHERE id = $1`
	var p model.Photo
	if err := r.exec(ctx).QueryRowContext(ctx, q, id).Scan(&p.ID, &p.Filename, &p.FilePath, &p.UploadedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns every photo in the requested order.
func (r *PhotoPostgres) List(ctx context.Context, order repository.SortOrder) ([]model.Photo, error) {
	clause, ok := orderClauses[order]
	if !ok {
		return nil, fmt.Errorf("unsupported sort order %q", order)
	}

	rows, err := r.exec(ctx).QueryContext(ctx, selectPhotos+clause)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Photo, 0)
	for rows.Next() {
		var p model.Photo
		if err := rows.Scan(&p.ID, &p.Filename, &p.FilePath, &p.UploadedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update writes the mutable fields of a photo. A missing row yields sql.ErrNoRows.
func (r *PhotoPostgres) Update(ctx context.Context, photo *model.Photo) error {
	const q = `UPDATE photos SET filename = $1, filepath = $2 WHERE id = $3`
	res, err := r.exec(ctx).ExecContext(ctx, q, photo.Filename, photo.FilePath, photo.ID)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a photo by ID. It does not return an error if the row does not exist.
func (r *PhotoPostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM photos WHERE id = $1`
	_, err := r.exec(ctx).ExecContext(ctx, q, id)
	return err
}

func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrDuplicateFilename, pgErr.ConstraintName)
	}
	return err
}
