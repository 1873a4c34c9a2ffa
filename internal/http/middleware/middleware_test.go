package middleware

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"photogallery/internal/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		rid := c.Locals(RequestIDLocalKey)
		assert.Equal(t, rid, RequestIDFromContext(c.UserContext()))
		return c.SendString(rid.(string))
	})

	t.Run("should generate new request id if not present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, ridHeader)

		// Check if it's readable in handler (from response body)
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, ridHeader, buf.String())
	})

	t.Run("should preserve existing request id", func(t *testing.T) {
		existingID := "test-id-123"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, existingID)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, existingID, resp.Header.Get(RequestIDHeader))

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, existingID, buf.String())
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	loc := time.UTC

	// Logger usually depends on RequestID for request_id field
	app.Use(RequestID())
	app.Use(LoggerWithWriter(&buf, loc))

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	// Verify log output
	var logData map[string]any
	err := json.Unmarshal(buf.Bytes(), &logData)
	assert.NoError(t, err)

	assert.NotEmpty(t, logData["request_id"])
	assert.Equal(t, "GET", logData["method"])
	assert.Equal(t, "/test", logData["path"])
	assert.Equal(t, float64(fiber.StatusAccepted), logData["status"])
	assert.NotNil(t, logData["latency"])
	assert.NotEmpty(t, logData["ts"])
}

func TestLogger_HandlerError(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(RequestID())
	app.Use(LoggerWithWriter(&buf, time.UTC))

	app.Get("/photos/:id", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "photo not found")
	})

	resp, _ := app.Test(httptest.NewRequest("GET", "/photos/9", nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var logData map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logData))
	assert.Equal(t, float64(fiber.StatusNotFound), logData["status"])
	assert.Equal(t, "photo not found", logData["error"])
	assert.Equal(t, "info", logData["level"])
}

func TestLogger_ServerErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(LoggerWithWriter(&buf, time.UTC))
	app.Get("/upload", func(c *fiber.Ctx) error {
		return errors.New("enqueue processing: broker down")
	})

	resp, _ := app.Test(httptest.NewRequest("GET", "/upload", nil))
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var logData map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logData))
	assert.Equal(t, "error", logData["level"])
	assert.Equal(t, float64(500), logData["status"])
}

func TestSession(t *testing.T) {
	t.Run("binds a connection to the request", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		app := fiber.New()
		app.Use(Session(db))
		app.Get("/test", func(c *fiber.Ctx) error {
			_, ok := database.ExecutorFrom(c.UserContext(), db).(*sql.Conn)
			assert.True(t, ok)
			return c.SendStatus(fiber.StatusOK)
		})

		resp, _ := app.Test(httptest.NewRequest("GET", "/test", nil))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, 0, db.Stats().InUse)
	})

	t.Run("unavailable database", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		db.Close()

		app := fiber.New()
		app.Use(Session(db))
		app.Get("/test", func(c *fiber.Ctx) error {
			t.Error("handler must not run without a session")
			return nil
		})

		resp, _ := app.Test(httptest.NewRequest("GET", "/test", nil))
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	})
}
