package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"photogallery/internal/database"
	"photogallery/internal/model"
	"photogallery/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var photoColumns = []string{"id", "filename", "filepath", "uploaded_at"}

func TestPhotoPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPhotoPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO photos").
			WithArgs("cat.png", "/uploads/cat.png").
			WillReturnRows(sqlmock.NewRows(photoColumns).AddRow(1, "cat.png", "/uploads/cat.png", now))

		got, err := repo.Create(ctx, &model.Photo{Filename: "cat.png", FilePath: "/uploads/cat.png"})

		assert.NoError(t, err)
		assert.Equal(t, int64(1), got.ID)
		assert.Equal(t, now, got.UploadedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO photos").
			WithArgs("cat.png", "/uploads/cat.png").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "photos_filename_key"})

		got, err := repo.Create(ctx, &model.Photo{Filename: "cat.png", FilePath: "/uploads/cat.png"})

		assert.ErrorIs(t, err, repository.ErrDuplicateFilename)
		assert.Nil(t, got)
	})
}

func TestPhotoPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPhotoPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM photos WHERE id = ?").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(photoColumns).AddRow(7, "dog.jpg", "/uploads/dog.jpg", time.Now()))

		p, err := repo.FindByID(ctx, 7)

		assert.NoError(t, err)
		assert.Equal(t, "dog.jpg", p.Filename)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM photos WHERE id = ?").
			WithArgs(int64(8)).
			WillReturnError(sql.ErrNoRows)

		p, err := repo.FindByID(ctx, 8)

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, p)
	})
}

func TestPhotoPostgres_List(t *testing.T) {
	tests := []struct {
		order   repository.SortOrder
		pattern string
	}{
		{repository.SortByName, `SELECT (.+) FROM photos ORDER BY filename ASC`},
		{repository.SortByDate, `SELECT (.+) FROM photos ORDER BY uploaded_at DESC, id DESC`},
		{repository.SortBySize, `SELECT (.+) FROM photos ORDER BY id ASC`},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(tt.pattern).
				WillReturnRows(sqlmock.NewRows(photoColumns).
					AddRow(1, "a.png", "/uploads/a.png", time.Now()).
					AddRow(2, "b.png", "/uploads/b.png", time.Now()))

			items, err := NewPhotoPostgres(db).List(context.Background(), tt.order)

			assert.NoError(t, err)
			assert.Len(t, items, 2)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("empty result is an empty slice", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT (.+) FROM photos").WillReturnRows(sqlmock.NewRows(photoColumns))

		items, err := NewPhotoPostgres(db).List(context.Background(), repository.SortByDate)

		assert.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("unknown order", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		_, err = NewPhotoPostgres(db).List(context.Background(), "color")
		assert.Error(t, err)
	})
}

func TestPhotoPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPhotoPostgres(db)
	ctx := context.Background()
	photo := &model.Photo{ID: 1, Filename: "kitten.png", FilePath: "/uploads/kitten.png"}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("UPDATE photos SET filename = (.+), filepath = (.+) WHERE id = (.+)").
			WithArgs("kitten.png", "/uploads/kitten.png", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(ctx, photo))
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectExec("UPDATE photos").
			WithArgs("kitten.png", "/uploads/kitten.png", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Update(ctx, photo), sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPhotoPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM photos WHERE id = ?").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewPhotoPostgres(db).Delete(context.Background(), 3)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPhotoPostgres_UsesRequestSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	conn, err := db.Conn(ctx)
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectExec("DELETE FROM photos WHERE id = ?").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPhotoPostgres(db)
	assert.NoError(t, repo.Delete(database.WithSession(ctx, conn), 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}
