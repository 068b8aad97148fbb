package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage implements Storage on a pgx connection pool.
// The schema is created by the migrations shipped under migrations/.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage creates a Postgres-backed notification store.
func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

const notificationColumns = `id, recipient_id, channel, status, title, body, priority,
	metadata, scheduled_at, sent_at, delivered_at, failed_at, failure_reason,
	retry_count, max_retries, created_at, updated_at`

// Create implements Storage.
func (ps *PostgresStorage) Create(ctx context.Context, n *Notification) error {
	metadata, err := json.Marshal(n.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = ps.pool.Exec(ctx, `
		INSERT INTO notifications (`+notificationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		n.ID, n.RecipientID, string(n.Channel), string(n.Status), n.Title, n.Body, int(n.Priority),
		metadata, n.ScheduledAt, n.SentAt, n.DeliveredAt, n.FailedAt, n.FailureReason,
		n.RetryCount, n.MaxRetries, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// GetByID implements Storage.
func (ps *PostgresStorage) GetByID(ctx context.Context, id uuid.UUID) (*Notification, error) {
	row := ps.pool.QueryRow(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE id = $1`, id)

	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select notification: %w", err)
	}
	return n, nil
}

// Update implements Storage. Last writer wins; transition legality is
// validated on the entity before the caller commits.
func (ps *PostgresStorage) Update(ctx context.Context, n *Notification) error {
	metadata, err := json.Marshal(n.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	tag, err := ps.pool.Exec(ctx, `
		UPDATE notifications
		SET status = $2, metadata = $3, scheduled_at = $4, sent_at = $5,
			delivered_at = $6, failed_at = $7, failure_reason = $8,
			retry_count = $9, updated_at = $10
		WHERE id = $1`,
		n.ID, string(n.Status), metadata, n.ScheduledAt, n.SentAt,
		n.DeliveredAt, n.FailedAt, n.FailureReason,
		n.RetryCount, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByRecipient implements Storage.
func (ps *PostgresStorage) ListByRecipient(ctx context.Context, recipientID string, f Filter) ([]*Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE recipient_id = $1`
	args := []any{recipientID}

	if f.Status != "" {
		args = append(args, string(f.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.Channel != "" {
		args = append(args, string(f.Channel))
		query += fmt.Sprintf(" AND channel = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := ps.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var result []*Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

// Stats implements Storage with a single aggregate query.
func (ps *PostgresStorage) Stats(ctx context.Context, since time.Time) (Stats, error) {
	rows, err := ps.pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM notifications
		WHERE created_at >= $1
		GROUP BY status`, since)
	if err != nil {
		return Stats{}, fmt.Errorf("aggregate stats: %w", err)
	}
	defer rows.Close()

	var s Stats
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Stats{}, fmt.Errorf("scan stats: %w", err)
		}
		switch Status(status) {
		case StatusPending:
			s.Pending = count
		case StatusSent:
			s.Sent = count
		case StatusDelivered:
			s.Delivered = count
		case StatusFailed:
			s.Failed = count
		case StatusCancelled:
			s.Cancelled = count
		}
	}
	return s, rows.Err()
}

func scanNotification(row pgx.Row) (*Notification, error) {
	var (
		n        Notification
		channel  string
		status   string
		priority int
		metadata []byte
	)
	err := row.Scan(
		&n.ID, &n.RecipientID, &channel, &status, &n.Title, &n.Body, &priority,
		&metadata, &n.ScheduledAt, &n.SentAt, &n.DeliveredAt, &n.FailedAt, &n.FailureReason,
		&n.RetryCount, &n.MaxRetries, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	n.Channel = Channel(channel)
	n.Status = Status(status)
	n.Priority = Priority(priority)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return &n, nil
}
