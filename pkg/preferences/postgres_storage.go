package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/findly-now/fn-notifications/pkg/notification"
)

// PostgresStorage implements Storage on a pgx connection pool.
// The schema is created by the migrations shipped under migrations/.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage creates a Postgres-backed preferences store.
func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

// Get implements Storage.
func (ps *PostgresStorage) Get(ctx context.Context, userID string) (*UserPreferences, error) {
	row := ps.pool.QueryRow(ctx, `
		SELECT user_id, global_enabled, email, phone, timezone, language, channels, updated_at
		FROM user_preferences
		WHERE user_id = $1`, userID)

	var (
		prefs    UserPreferences
		channels []byte
	)
	err := row.Scan(&prefs.UserID, &prefs.GlobalEnabled, &prefs.Email, &prefs.Phone,
		&prefs.Timezone, &prefs.Language, &channels, &prefs.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select preferences: %w", err)
	}

	prefs.Channels = make(map[notification.Channel]ChannelSettings)
	if err := json.Unmarshal(channels, &prefs.Channels); err != nil {
		return nil, fmt.Errorf("unmarshal channel settings: %w", err)
	}
	return &prefs, nil
}

// Save implements Storage with an upsert keyed by user id.
func (ps *PostgresStorage) Save(ctx context.Context, prefs *UserPreferences) error {
	channels, err := json.Marshal(prefs.Channels)
	if err != nil {
		return fmt.Errorf("marshal channel settings: %w", err)
	}

	_, err = ps.pool.Exec(ctx, `
		INSERT INTO user_preferences (user_id, global_enabled, email, phone, timezone, language, channels, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			global_enabled = EXCLUDED.global_enabled,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			timezone = EXCLUDED.timezone,
			language = EXCLUDED.language,
			channels = EXCLUDED.channels,
			updated_at = EXCLUDED.updated_at`,
		prefs.UserID, prefs.GlobalEnabled, prefs.Email, prefs.Phone,
		prefs.Timezone, prefs.Language, channels, prefs.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert preferences: %w", err)
	}
	return nil
}
