package stores

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"bookmark-server/internal/interfaces"
	"bookmark-server/internal/schemas"
)

const (
	queryUpsertVerification = "INSERT INTO bookmark_schema.email_verifications (email, code, expires_at, verified) VALUES ($1, $2, $3, FALSE) " +
		"ON CONFLICT (email) DO UPDATE SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at, verified = FALSE"
	queryVerificationByEmail = "SELECT code, expires_at, verified FROM bookmark_schema.email_verifications WHERE email = $1"
	queryMarkVerified        = "UPDATE bookmark_schema.email_verifications SET verified = TRUE WHERE email = $1"
	queryDeleteVerification  = "DELETE FROM bookmark_schema.email_verifications WHERE email = $1"
)

// VerificationStore holds the pending email verification per address. Each
// address has at most one record; requesting a new code replaces the old one
// and resets the verified flag.
type VerificationStore interface {
	Save(ctx context.Context, q interfaces.Querier, verification schemas.EmailVerification) error
	Get(ctx context.Context, q interfaces.Querier, email string) (schemas.EmailVerification, error)
	MarkVerified(ctx context.Context, q interfaces.Querier, email string) error
	Consume(ctx context.Context, q interfaces.Querier, email string) error
}

type verificationStore struct{}

// NewVerificationStore returns the pgx-backed VerificationStore.
func NewVerificationStore() VerificationStore {
	return &verificationStore{}
}

func (vs *verificationStore) Save(ctx context.Context, q interfaces.Querier, verification schemas.EmailVerification) error {
	_, err := q.Exec(ctx, queryUpsertVerification, verification.Email, verification.Code, verification.ExpiresAt)
	return err
}

func (vs *verificationStore) Get(ctx context.Context, q interfaces.Querier, email string) (schemas.EmailVerification, error) {
	verification := schemas.EmailVerification{Email: email}
	err := q.QueryRow(ctx, queryVerificationByEmail, email).
		Scan(&verification.Code, &verification.ExpiresAt, &verification.Verified)
	if errors.Is(err, pgx.ErrNoRows) {
		return schemas.EmailVerification{}, ErrNotFound
	}
	if err != nil {
		return schemas.EmailVerification{}, err
	}

	return verification, nil
}

func (vs *verificationStore) MarkVerified(ctx context.Context, q interfaces.Querier, email string) error {
	_, err := q.Exec(ctx, queryMarkVerified, email)
	return err
}

func (vs *verificationStore) Consume(ctx context.Context, q interfaces.Querier, email string) error {
	_, err := q.Exec(ctx, queryDeleteVerification, email)
	return err
}
