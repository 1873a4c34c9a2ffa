package database

import (
	"context"
	"database/sql"
)

// Executor is the subset of *sql.DB and *sql.Conn used by repositories.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sessionKey struct{}

// WithSession returns a context carrying a request scoped connection.
func WithSession(ctx context.Context, conn *sql.Conn) context.Context {
	return context.WithValue(ctx, sessionKey{}, conn)
}

// ExecutorFrom returns the session bound to ctx, or fallback when the caller
// runs outside a request.
func ExecutorFrom(ctx context.Context, fallback Executor) Executor {
	if conn, ok := ctx.Value(sessionKey{}).(*sql.Conn); ok && conn != nil {
		return conn
	}
	return fallback
}
