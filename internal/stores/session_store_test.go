package stores

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookmark-server/internal/schemas"
)

func TestSaveDisplacesPreviousSession(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewSessionStore()

	session := schemas.RefreshToken{
		UserID:    uuid.New(),
		Token:     "new-refresh-token",
		CreatedAt: time.Now(),
	}

	poolMock.ExpectExec(queryUpsertRefreshToken).
		WithArgs(session.UserID, session.Token, session.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := store.Save(context.Background(), poolMock, session)
	require.NoError(t, err)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestGetMissingSessionFails(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewSessionStore()

	userId := uuid.New()

	poolMock.ExpectQuery(queryRefreshTokenByUser).
		WithArgs(userId).
		WillReturnRows(pgxmock.NewRows([]string{"token"}))

	_, err := store.Get(context.Background(), poolMock, userId)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestGetReturnsStoredToken(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewSessionStore()

	userId := uuid.New()

	poolMock.ExpectQuery(queryRefreshTokenByUser).
		WithArgs(userId).
		WillReturnRows(pgxmock.NewRows([]string{"token"}).AddRow("stored-refresh-token"))

	token, err := store.Get(context.Background(), poolMock, userId)
	require.NoError(t, err)
	assert.Equal(t, "stored-refresh-token", token)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}
