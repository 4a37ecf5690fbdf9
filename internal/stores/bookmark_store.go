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
	queryInsertBookmark = "INSERT INTO bookmark_schema.bookmarks (bookmark_id, user_id, url, title, description, favorite, tag_ids, created_at) " +
		"VALUES ($1, $2, $3, $4, $5, $6, $7, $8)"
	queryBookmarksByUser = "SELECT bookmark_id, url, title, description, favorite, tag_ids, created_at FROM bookmark_schema.bookmarks " +
		"WHERE user_id = $1 ORDER BY created_at DESC"
	queryBookmarkById = "SELECT bookmark_id, url, title, description, favorite, tag_ids, created_at FROM bookmark_schema.bookmarks " +
		"WHERE bookmark_id = $1 AND user_id = $2"
	queryFavoriteBookmarks = "SELECT bookmark_id, url, title, description, favorite, tag_ids, created_at FROM bookmark_schema.bookmarks " +
		"WHERE user_id = $1 AND favorite = TRUE ORDER BY created_at DESC"
	queryBookmarksByTitle = "SELECT bookmark_id, url, title, description, favorite, tag_ids, created_at FROM bookmark_schema.bookmarks " +
		"WHERE user_id = $1 AND title ILIKE '%' || $2 || '%' ORDER BY created_at DESC"
	queryBookmarksByTagIds = "SELECT bookmark_id, url, title, description, favorite, tag_ids, created_at FROM bookmark_schema.bookmarks " +
		"WHERE user_id = $1 AND tag_ids && $2 ORDER BY created_at DESC"
	queryPublicBookmarkSearch = "SELECT bookmark_id, url, title, description, favorite, tag_ids, created_at FROM bookmark_schema.bookmarks " +
		"WHERE tag_ids && $1 AND (title ILIKE '%' || $2 || '%' OR description ILIKE '%' || $2 || '%' OR url ILIKE '%' || $2 || '%') " +
		"ORDER BY created_at DESC"
	queryUpdateBookmark = "UPDATE bookmark_schema.bookmarks SET url = $1, title = $2, description = $3, favorite = $4, tag_ids = $5 " +
		"WHERE bookmark_id = $6 AND user_id = $7"
	queryToggleFavorite = "UPDATE bookmark_schema.bookmarks SET favorite = NOT favorite WHERE bookmark_id = $1 AND user_id = $2 RETURNING favorite"
	queryDeleteBookmark = "DELETE FROM bookmark_schema.bookmarks WHERE bookmark_id = $1 AND user_id = $2"
)

// BookmarkStore persists bookmarks. Tag ids are stored denormalized on the
// bookmark row, so listing by tags is a single array-overlap scan.
type BookmarkStore interface {
	Create(ctx context.Context, q interfaces.Querier, bookmark schemas.Bookmark) error
	ListByUser(ctx context.Context, q interfaces.Querier, ownerId uuid.UUID) ([]schemas.Bookmark, error)
	GetById(ctx context.Context, q interfaces.Querier, ownerId, bookmarkId uuid.UUID) (schemas.Bookmark, error)
	ListFavorites(ctx context.Context, q interfaces.Querier, ownerId uuid.UUID) ([]schemas.Bookmark, error)
	SearchByTitle(ctx context.Context, q interfaces.Querier, ownerId uuid.UUID, keyword string) ([]schemas.Bookmark, error)
	ListByTagIds(ctx context.Context, q interfaces.Querier, ownerId uuid.UUID, tagIds []uuid.UUID) ([]schemas.Bookmark, error)
	SearchPublic(ctx context.Context, q interfaces.Querier, tagIds []uuid.UUID, keyword string) ([]schemas.Bookmark, error)
	Update(ctx context.Context, q interfaces.Querier, bookmark schemas.Bookmark) error
	ToggleFavorite(ctx context.Context, q interfaces.Querier, ownerId, bookmarkId uuid.UUID) (bool, error)
	Delete(ctx context.Context, q interfaces.Querier, ownerId, bookmarkId uuid.UUID) error
}

type bookmarkStore struct{}

// NewBookmarkStore returns the pgx-backed BookmarkStore.
func NewBookmarkStore() BookmarkStore {
	return &bookmarkStore{}
}

func (bs *bookmarkStore) Create(ctx context.Context, q interfaces.Querier, bookmark schemas.Bookmark) error {
	_, err := q.Exec(ctx, queryInsertBookmark, bookmark.ID, bookmark.UserID, bookmark.URL, bookmark.Title,
		bookmark.Description, bookmark.Favorite, bookmark.TagIDs, bookmark.CreatedAt)
	return err
}

func (bs *bookmarkStore) ListByUser(ctx context.Context, q interfaces.Querier, ownerId uuid.UUID) ([]schemas.Bookmark, error) {
	rows, err := q.Query(ctx, queryBookmarksByUser, ownerId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBookmarks(rows)
}

func (bs *bookmarkStore) GetById(ctx context.Context, q interfaces.Querier, ownerId, bookmarkId uuid.UUID) (schemas.Bookmark, error) {
	bookmark := schemas.Bookmark{UserID: ownerId}
	err := q.QueryRow(ctx, queryBookmarkById, bookmarkId, ownerId).
		Scan(&bookmark.ID, &bookmark.URL, &bookmark.Title, &bookmark.Description, &bookmark.Favorite,
			&bookmark.TagIDs, &bookmark.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return schemas.Bookmark{}, ErrNotFound
	}
	if err != nil {
		return schemas.Bookmark{}, err
	}

	return bookmark, nil
}

func (bs *bookmarkStore) ListFavorites(ctx context.Context, q interfaces.Querier, ownerId uuid.UUID) ([]schemas.Bookmark, error) {
	rows, err := q.Query(ctx, queryFavoriteBookmarks, ownerId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBookmarks(rows)
}

func (bs *bookmarkStore) SearchByTitle(ctx context.Context, q interfaces.Querier, ownerId uuid.UUID, keyword string) ([]schemas.Bookmark, error) {
	rows, err := q.Query(ctx, queryBookmarksByTitle, ownerId, keyword)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBookmarks(rows)
}

// ListByTagIds returns the owner's bookmarks carrying at least one of the
// given tags, newest first. An empty tag set matches nothing.
func (bs *bookmarkStore) ListByTagIds(ctx context.Context, q interfaces.Querier, ownerId uuid.UUID, tagIds []uuid.UUID) ([]schemas.Bookmark, error) {
	if len(tagIds) == 0 {
		return []schemas.Bookmark{}, nil
	}

	rows, err := q.Query(ctx, queryBookmarksByTagIds, ownerId, tagIds)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBookmarks(rows)
}

// SearchPublic searches across all users, restricted to bookmarks carrying at
// least one tag that appears in a public category. The caller supplies that
// tag union; an empty union matches nothing.
func (bs *bookmarkStore) SearchPublic(ctx context.Context, q interfaces.Querier, tagIds []uuid.UUID, keyword string) ([]schemas.Bookmark, error) {
	if len(tagIds) == 0 {
		return []schemas.Bookmark{}, nil
	}

	rows, err := q.Query(ctx, queryPublicBookmarkSearch, tagIds, keyword)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBookmarks(rows)
}

func (bs *bookmarkStore) Update(ctx context.Context, q interfaces.Querier, bookmark schemas.Bookmark) error {
	commandTag, err := q.Exec(ctx, queryUpdateBookmark, bookmark.URL, bookmark.Title, bookmark.Description,
		bookmark.Favorite, bookmark.TagIDs, bookmark.ID, bookmark.UserID)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (bs *bookmarkStore) ToggleFavorite(ctx context.Context, q interfaces.Querier, ownerId, bookmarkId uuid.UUID) (bool, error) {
	var favorite bool
	err := q.QueryRow(ctx, queryToggleFavorite, bookmarkId, ownerId).Scan(&favorite)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, err
	}

	return favorite, nil
}

func (bs *bookmarkStore) Delete(ctx context.Context, q interfaces.Querier, ownerId, bookmarkId uuid.UUID) error {
	commandTag, err := q.Exec(ctx, queryDeleteBookmark, bookmarkId, ownerId)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func scanBookmarks(rows pgx.Rows) ([]schemas.Bookmark, error) {
	bookmarks := make([]schemas.Bookmark, 0)
	for rows.Next() {
		var bookmark schemas.Bookmark
		if err := rows.Scan(&bookmark.ID, &bookmark.URL, &bookmark.Title, &bookmark.Description,
			&bookmark.Favorite, &bookmark.TagIDs, &bookmark.CreatedAt); err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, bookmark)
	}

	return bookmarks, rows.Err()
}
