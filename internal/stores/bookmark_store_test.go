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

func TestListByTagIdsEmptySetMatchesNothing(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewBookmarkStore()

	bookmarks, err := store.ListByTagIds(context.Background(), poolMock, uuid.New(), nil)
	require.NoError(t, err)
	assert.Empty(t, bookmarks)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestListByTagIdsReturnsNewestFirst(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewBookmarkStore()

	ownerId := uuid.New()
	tagId := uuid.New()
	newer := uuid.New()
	older := uuid.New()
	now := time.Now()

	poolMock.ExpectQuery(queryBookmarksByTagIds).
		WithArgs(ownerId, []uuid.UUID{tagId}).
		WillReturnRows(pgxmock.NewRows([]string{"bookmark_id", "url", "title", "description", "favorite", "tag_ids", "created_at"}).
			AddRow(newer, "https://go.dev", "Go", "", false, []uuid.UUID{tagId}, now).
			AddRow(older, "https://pkg.go.dev", "Packages", "", true, []uuid.UUID{tagId}, now.Add(-time.Hour)))

	bookmarks, err := store.ListByTagIds(context.Background(), poolMock, ownerId, []uuid.UUID{tagId})
	require.NoError(t, err)
	require.Len(t, bookmarks, 2)
	assert.Equal(t, newer, bookmarks[0].ID)
	assert.Equal(t, older, bookmarks[1].ID)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestSearchPublicEmptyTagUnionMatchesNothing(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewBookmarkStore()

	bookmarks, err := store.SearchPublic(context.Background(), poolMock, nil, "golang")
	require.NoError(t, err)
	assert.Empty(t, bookmarks)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestSearchPublicQueriesAcrossUsers(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewBookmarkStore()

	tagId := uuid.New()
	bookmarkId := uuid.New()

	poolMock.ExpectQuery(queryPublicBookmarkSearch).
		WithArgs([]uuid.UUID{tagId}, "go").
		WillReturnRows(pgxmock.NewRows([]string{"bookmark_id", "url", "title", "description", "favorite", "tag_ids", "created_at"}).
			AddRow(bookmarkId, "https://go.dev", "The Go Programming Language", "", false, []uuid.UUID{tagId}, time.Now()))

	bookmarks, err := store.SearchPublic(context.Background(), poolMock, []uuid.UUID{tagId}, "go")
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, bookmarkId, bookmarks[0].ID)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestGetByIdUnknownBookmarkFails(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewBookmarkStore()

	ownerId := uuid.New()
	bookmarkId := uuid.New()

	poolMock.ExpectQuery(queryBookmarkById).
		WithArgs(bookmarkId, ownerId).
		WillReturnRows(pgxmock.NewRows([]string{"bookmark_id", "url", "title", "description", "favorite", "tag_ids", "created_at"}))

	_, err := store.GetById(context.Background(), poolMock, ownerId, bookmarkId)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestToggleFavoriteReturnsNewState(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewBookmarkStore()

	ownerId := uuid.New()
	bookmarkId := uuid.New()

	poolMock.ExpectQuery(queryToggleFavorite).
		WithArgs(bookmarkId, ownerId).
		WillReturnRows(pgxmock.NewRows([]string{"favorite"}).AddRow(true))

	favorite, err := store.ToggleFavorite(context.Background(), poolMock, ownerId, bookmarkId)
	require.NoError(t, err)
	assert.True(t, favorite)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestUpdateUnknownBookmarkFails(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewBookmarkStore()

	bookmark := schemas.Bookmark{
		ID:     uuid.New(),
		UserID: uuid.New(),
		URL:    "https://go.dev",
		Title:  "Go",
		TagIDs: []uuid.UUID{},
	}

	poolMock.ExpectExec(queryUpdateBookmark).
		WithArgs(bookmark.URL, bookmark.Title, bookmark.Description, bookmark.Favorite,
			bookmark.TagIDs, bookmark.ID, bookmark.UserID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := store.Update(context.Background(), poolMock, bookmark)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestDeleteRemovesOwnBookmarkOnly(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewBookmarkStore()

	ownerId := uuid.New()
	bookmarkId := uuid.New()

	poolMock.ExpectExec(queryDeleteBookmark).
		WithArgs(bookmarkId, ownerId).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := store.Delete(context.Background(), poolMock, ownerId, bookmarkId)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}
