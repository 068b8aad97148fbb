// Package pgdb bootstraps the PostgreSQL layer: a pgx/v5 connection pool
// with startup retries, goose schema migrations routed through slog, and a
// health check closure for readiness reporting.
//
// Configuration comes from environment variables via the Config struct.
// The notification storage in pkg/notification runs on the pool this
// package opens; when no connection string is configured the service falls
// back to in-memory storage instead.
package pgdb
