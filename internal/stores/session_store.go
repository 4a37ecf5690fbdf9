package stores

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"bookmark-server/internal/interfaces"
	"bookmark-server/internal/schemas"
)

const (
	queryUpsertRefreshToken = "INSERT INTO bookmark_schema.refresh_tokens (user_id, token, created_at) VALUES ($1, $2, $3) " +
		"ON CONFLICT (user_id) DO UPDATE SET token = EXCLUDED.token, created_at = EXCLUDED.created_at"
	queryRefreshTokenByUser = "SELECT token FROM bookmark_schema.refresh_tokens WHERE user_id = $1"
)

// SessionStore keeps the single active refresh token per user. Saving a new
// one displaces whatever was stored before, so stale tokens stop working.
type SessionStore interface {
	Save(ctx context.Context, q interfaces.Querier, token schemas.RefreshToken) error
	Get(ctx context.Context, q interfaces.Querier, userId uuid.UUID) (string, error)
}

type sessionStore struct{}

// NewSessionStore returns the pgx-backed SessionStore.
func NewSessionStore() SessionStore {
	return &sessionStore{}
}

func (ss *sessionStore) Save(ctx context.Context, q interfaces.Querier, token schemas.RefreshToken) error {
	_, err := q.Exec(ctx, queryUpsertRefreshToken, token.UserID, token.Token, token.CreatedAt)
	return err
}

func (ss *sessionStore) Get(ctx context.Context, q interfaces.Querier, userId uuid.UUID) (string, error) {
	var token string
	err := q.QueryRow(ctx, queryRefreshTokenByUser, userId).Scan(&token)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	return token, nil
}
