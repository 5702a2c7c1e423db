package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SessionSchema creates the table used by SQLStore.
const SessionSchema = `CREATE TABLE IF NOT EXISTS client_sessions (
	profile    TEXT PRIMARY KEY,
	token      TEXT NOT NULL,
	user_id    TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// SQLStore keeps one row per profile in Postgres.
type SQLStore struct {
	db      *sqlx.DB
	profile string
}

func NewSQLStore(db *sqlx.DB, profile string) *SQLStore {
	if profile == "" {
		profile = "default"
	}
	return &SQLStore{db: db, profile: profile}
}

// EnsureSchema creates the sessions table if it does not exist.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, SessionSchema); err != nil {
		return fmt.Errorf("create client_sessions: %w", err)
	}
	return nil
}

func (s *SQLStore) Load(ctx context.Context) (Credentials, error) {
	query := `SELECT token, user_id FROM client_sessions WHERE profile = $1`

	var creds Credentials
	err := s.db.GetContext(ctx, &creds, query, s.profile)
	if errors.Is(err, sql.ErrNoRows) {
		return Credentials{}, ErrNoSession
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("select session: %w", err)
	}
	return creds, nil
}

func (s *SQLStore) Save(ctx context.Context, creds Credentials) error {
	query := `
		INSERT INTO client_sessions (profile, token, user_id, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (profile) DO UPDATE
		SET token = EXCLUDED.token, user_id = EXCLUDED.user_id, updated_at = now()`

	if _, err := s.db.ExecContext(ctx, query, s.profile, creds.Token, creds.UserID); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *SQLStore) Clear(ctx context.Context) error {
	query := `DELETE FROM client_sessions WHERE profile = $1`
	if _, err := s.db.ExecContext(ctx, query, s.profile); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
