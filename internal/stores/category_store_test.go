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

func TestDeleteCategoryRemovesShareToken(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewCategoryStore()

	ownerId := uuid.New()
	categoryId := uuid.New()

	poolMock.ExpectExec(queryDeleteCategory).
		WithArgs(categoryId, ownerId).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	poolMock.ExpectExec(queryDeleteShareToken).
		WithArgs(categoryId).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := store.Delete(context.Background(), poolMock, ownerId, categoryId)
	require.NoError(t, err)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestDeleteUnknownCategoryFails(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewCategoryStore()

	poolMock.ExpectExec(queryDeleteCategory).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := store.Delete(context.Background(), poolMock, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestGetShareTokenMissing(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewCategoryStore()

	categoryId := uuid.New()

	poolMock.ExpectQuery(queryShareTokenByCategory).
		WithArgs(categoryId).
		WillReturnRows(pgxmock.NewRows([]string{"token"}))

	_, err := store.GetShareToken(context.Background(), poolMock, categoryId)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestGetByShareTokenResolvesOwnersCategory(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewCategoryStore()

	ownerId := uuid.New()
	categoryId := uuid.New()
	tagId := uuid.New()

	poolMock.ExpectQuery(queryCategoryByShareToken).
		WithArgs("a1b2c3d4e5f6g7h8").
		WillReturnRows(pgxmock.NewRows([]string{"category_id", "user_id", "title", "tag_ids", "is_public", "created_at"}).
			AddRow(categoryId, ownerId, "Reading list", []uuid.UUID{tagId}, false, time.Now()))

	category, err := store.GetByShareToken(context.Background(), poolMock, "a1b2c3d4e5f6g7h8")
	require.NoError(t, err)
	assert.Equal(t, categoryId, category.ID)
	assert.Equal(t, ownerId, category.UserID)
	assert.Equal(t, []uuid.UUID{tagId}, category.TagIDs)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestPublicTagIdsCollectsUnion(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewCategoryStore()

	firstTag := uuid.New()
	secondTag := uuid.New()

	poolMock.ExpectQuery(queryPublicTagIds).
		WillReturnRows(pgxmock.NewRows([]string{"unnest"}).
			AddRow(firstTag).
			AddRow(secondTag))

	tagIds, err := store.PublicTagIds(context.Background(), poolMock)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{firstTag, secondTag}, tagIds)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestToggleVisibilityReturnsNewState(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewCategoryStore()

	ownerId := uuid.New()
	categoryId := uuid.New()

	poolMock.ExpectQuery(queryToggleCategoryVisibility).
		WithArgs(categoryId, ownerId).
		WillReturnRows(pgxmock.NewRows([]string{"is_public"}).AddRow(true))

	isPublic, err := store.ToggleVisibility(context.Background(), poolMock, ownerId, categoryId)
	require.NoError(t, err)
	assert.True(t, isPublic)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestSaveShareTokenInsertsRow(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewCategoryStore()

	token := schemas.ShareToken{
		Token:      "a1b2c3d4e5f6g7h8",
		CategoryID: uuid.New(),
		CreatedAt:  time.Now(),
	}

	poolMock.ExpectExec(queryInsertShareToken).
		WithArgs(token.Token, token.CategoryID, token.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := store.SaveShareToken(context.Background(), poolMock, token)
	require.NoError(t, err)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}
