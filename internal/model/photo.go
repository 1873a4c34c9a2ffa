package model

import "time"

// Photo is one uploaded image. Filename is unique and doubles as the leaf
// name in the file store; FilePath is where the file store keeps it.
type Photo struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	FilePath   string    `json:"filepath"`
	UploadedAt time.Time `json:"uploaded_at"`
}
