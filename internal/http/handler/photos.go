package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"photogallery/internal/model"
	"photogallery/internal/service"
	"photogallery/internal/storage"
)

// UploadsPrefix is the public URL prefix of stored originals.
const UploadsPrefix = "/uploads/"

type uploadResponse struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

type photoItem struct {
	ID           int64  `json:"id"`
	Filename     string `json:"filename"`
	ThumbnailURL string `json:"thumbnail_url"`
	FullURL      string `json:"full_url"`
}

type deleteResponse struct {
	Status string `json:"status"`
}

type renameResponse struct {
	Status  string `json:"status"`
	NewName string `json:"new_name"`
}

func publicURL(filename string) string {
	return UploadsPrefix + filename
}

func toItems(photos []model.Photo) []photoItem {
	items := make([]photoItem, 0, len(photos))
	for _, p := range photos {
		u := publicURL(p.Filename)
		items = append(items, photoItem{ID: p.ID, Filename: p.Filename, ThumbnailURL: u, FullURL: u})
	}
	return items
}

func photoID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	return id, err == nil
}

// UploadPhoto stores a multipart upload (field name: file).
//
//	@Summary	Upload a photo
//	@Tags		photos
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		file	formData	file	true	"image file"
//	@Success	200		{object}	uploadResponse
//	@Failure	400		{object}	errorPayload
//	@Router		/upload/ [post]
func UploadPhoto(svc service.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "File is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "Cannot open uploaded file")
		}
		defer f.Close()

		photo, err := svc.Upload(c.UserContext(), fh.Filename, f)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(uploadResponse{
			ID:       photo.ID,
			Filename: photo.Filename,
			URL:      publicURL(photo.Filename),
		})
	}
}

// ListPhotos lists every photo.
//
//	@Summary	List photos
//	@Tags		photos
//	@Produce	json
//	@Param		order_by	query		string	false	"name, size or date"	default(date)
//	@Success	200			{array}		photoItem
//	@Failure	400			{object}	errorPayload
//	@Router		/photos/ [get]
func ListPhotos(svc service.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		photos, err := svc.List(c.UserContext(), utils.CopyString(c.Query("order_by", "date")))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(toItems(photos))
	}
}

// DeletePhoto removes the stored file and the record.
//
//	@Summary	Delete a photo
//	@Tags		photos
//	@Produce	json
//	@Param		id	path		int	true	"photo id"
//	@Success	200	{object}	deleteResponse
//	@Failure	400	{object}	errorPayload
//	@Failure	404	{object}	errorPayload
//	@Router		/photos/{id} [delete]
func DeletePhoto(svc service.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := photoID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "Invalid photo id")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(deleteResponse{Status: "deleted"})
	}
}

// RenamePhoto renames the stored file and the record. new_name is read from
// the query string first, then from the form body.
//
//	@Summary	Rename a photo
//	@Tags		photos
//	@Produce	json
//	@Param		id			path		int		true	"photo id"
//	@Param		new_name	query		string	true	"new file name"
//	@Success	200			{object}	renameResponse
//	@Failure	400			{object}	errorPayload
//	@Failure	404			{object}	errorPayload
//	@Router		/photos/{id} [put]
func RenamePhoto(svc service.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := photoID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "Invalid photo id")
		}
		// Query and form values alias the request buffer; the name outlives
		// the request in span attributes.
		newName := utils.CopyString(c.Query("new_name"))
		if newName == "" {
			newName = utils.CopyString(c.FormValue("new_name"))
		}
		if newName == "" {
			return writeError(c, fiber.StatusBadRequest, "new_name is required")
		}

		photo, err := svc.Rename(c.UserContext(), id, newName)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(renameResponse{Status: "renamed", NewName: photo.Filename})
	}
}

// ServeUpload streams a stored original for backends without a local root.
func ServeUpload(store storage.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, info, err := store.Open(c.UserContext(), utils.CopyString(c.Params("name")))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
				return writeError(c, fiber.StatusNotFound, "Not found")
			}
			return err
		}
		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		}
		return c.SendStream(rc, int(info.Size))
	}
}
