package queue

import (
	"context"

	"photogallery/internal/logging"
)

// Dispatcher hands a stored file path to the background worker. The message
// is the path itself, with no envelope.
type Dispatcher interface {
	Enqueue(ctx context.Context, filePath string) error
}

// Consumer pulls messages one at a time and passes each path to h until ctx is done.
type Consumer interface {
	Run(ctx context.Context, h Handler) error
}

// Handler processes one dequeued file path.
type Handler func(ctx context.Context, filePath string) (Result, error)

// Result is what a processed task reports back.
type Result struct {
	FilePath string `json:"file_path"`
	Status   string `json:"status"`
}

// ProcessImage is the placeholder image task: it logs the path and reports ok.
// Captioning and tagging will replace the body without changing the message contract.
func ProcessImage(logger *logging.Logger) Handler {
	return func(_ context.Context, filePath string) (Result, error) {
		logger.Log(map[string]any{
			"component": "worker",
			"event":     "process_image",
			"status":    "success",
			"file_path": filePath,
		})
		return Result{FilePath: filePath, Status: "ok"}, nil
	}
}
