package stores

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookmark-server/internal/schemas"
)

func TestSaveReplacesPendingVerification(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewVerificationStore()

	verification := schemas.EmailVerification{
		Email:     "test@example.com",
		Code:      "123456",
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}

	poolMock.ExpectExec(queryUpsertVerification).
		WithArgs(verification.Email, verification.Code, verification.ExpiresAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := store.Save(context.Background(), poolMock, verification)
	require.NoError(t, err)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestGetMissingVerificationFails(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewVerificationStore()

	poolMock.ExpectQuery(queryVerificationByEmail).
		WithArgs("unknown@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"code", "expires_at", "verified"}))

	_, err := store.Get(context.Background(), poolMock, "unknown@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestGetReturnsPendingVerification(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewVerificationStore()

	expiresAt := time.Now().Add(5 * time.Minute)

	poolMock.ExpectQuery(queryVerificationByEmail).
		WithArgs("test@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"code", "expires_at", "verified"}).
			AddRow("123456", expiresAt, true))

	verification, err := store.Get(context.Background(), poolMock, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", verification.Code)
	assert.True(t, verification.Verified)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestConsumeDeletesRecord(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewVerificationStore()

	poolMock.ExpectExec(queryDeleteVerification).
		WithArgs("test@example.com").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := store.Consume(context.Background(), poolMock, "test@example.com")
	require.NoError(t, err)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}
