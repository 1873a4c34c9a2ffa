package middleware

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"photogallery/internal/database"
)

// Session checks out one connection for the request and releases it when the
// request finishes, whatever the outcome.
func Session(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		conn, err := db.Conn(c.UserContext())
		if err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "database unavailable")
		}
		defer conn.Close()

		c.SetUserContext(database.WithSession(c.UserContext(), conn))
		return c.Next()
	}
}
