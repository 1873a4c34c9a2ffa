package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"photogallery/internal/http/middleware"
	"photogallery/internal/service"
	"photogallery/internal/storage"
)

// rooted is implemented by stores that keep files in a local directory.
type rooted interface {
	Root() string
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// With a nil db the readiness probe is not mounted and API routes run
// without a per-request session.
func RegisterRoutes(app *fiber.App, db *sql.DB, photoSvc service.PhotoService, store storage.Storage) {
	if db != nil {
		app.Get("/health", HealthCheck(db))
	}
	app.Get("/healthz", LivenessProbe())

	switch s := store.(type) {
	case nil:
	case rooted:
		app.Static("/uploads", s.Root(), fiber.Static{ByteRange: true})
	default:
		app.Get(UploadsPrefix+":name", ServeUpload(store))
	}

	api := func(h fiber.Handler) []fiber.Handler {
		if db == nil {
			return []fiber.Handler{h}
		}
		return []fiber.Handler{middleware.Session(db), h}
	}

	app.Post("/upload/", api(UploadPhoto(photoSvc))...)
	app.Get("/photos/", api(ListPhotos(photoSvc))...)
	app.Delete("/photos/:id", api(DeletePhoto(photoSvc))...)
	app.Put("/photos/:id", api(RenamePhoto(photoSvc))...)
}
