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
	queryInsertCategory = "INSERT INTO bookmark_schema.categories (category_id, user_id, title, tag_ids, is_public, created_at) " +
		"VALUES ($1, $2, $3, $4, $5, $6)"
	queryCategoriesByUser = "SELECT category_id, user_id, title, tag_ids, is_public, created_at FROM bookmark_schema.categories " +
		"WHERE user_id = $1 ORDER BY created_at DESC"
	queryCategoryByIdAndUser = "SELECT category_id, user_id, title, tag_ids, is_public, created_at FROM bookmark_schema.categories " +
		"WHERE category_id = $1 AND user_id = $2"
	queryCategoryById = "SELECT category_id, user_id, title, tag_ids, is_public, created_at FROM bookmark_schema.categories " +
		"WHERE category_id = $1"
	queryUpdateCategory = "UPDATE bookmark_schema.categories SET title = $1, tag_ids = $2, is_public = $3 " +
		"WHERE category_id = $4 AND user_id = $5"
	queryToggleCategoryVisibility = "UPDATE bookmark_schema.categories SET is_public = NOT is_public " +
		"WHERE category_id = $1 AND user_id = $2 RETURNING is_public"
	queryDeleteCategory       = "DELETE FROM bookmark_schema.categories WHERE category_id = $1 AND user_id = $2"
	queryPublicTagIds         = "SELECT DISTINCT unnest(tag_ids) FROM bookmark_schema.categories WHERE is_public = TRUE"
	queryShareTokenByCategory = "SELECT token FROM bookmark_schema.category_share_tokens WHERE category_id = $1"
	queryInsertShareToken     = "INSERT INTO bookmark_schema.category_share_tokens (token, category_id, created_at) VALUES ($1, $2, $3)"
	queryCategoryByShareToken = "SELECT c.category_id, c.user_id, c.title, c.tag_ids, c.is_public, c.created_at " +
		"FROM bookmark_schema.categories c JOIN bookmark_schema.category_share_tokens t ON t.category_id = c.category_id " +
		"WHERE t.token = $1"
	queryDeleteShareToken = "DELETE FROM bookmark_schema.category_share_tokens WHERE category_id = $1"
)

// CategoryStore persists categories and their share tokens. A category is a
// saved filter over tags, not a container, so membership never lives here.
type CategoryStore interface {
	Create(ctx context.Context, q interfaces.Querier, category schemas.Category) error
	ListByUser(ctx context.Context, q interfaces.Querier, ownerId uuid.UUID) ([]schemas.Category, error)
	GetByIdAndUser(ctx context.Context, q interfaces.Querier, ownerId, categoryId uuid.UUID) (schemas.Category, error)
	GetById(ctx context.Context, q interfaces.Querier, categoryId uuid.UUID) (schemas.Category, error)
	Update(ctx context.Context, q interfaces.Querier, category schemas.Category) error
	ToggleVisibility(ctx context.Context, q interfaces.Querier, ownerId, categoryId uuid.UUID) (bool, error)
	Delete(ctx context.Context, q interfaces.Querier, ownerId, categoryId uuid.UUID) error
	PublicTagIds(ctx context.Context, q interfaces.Querier) ([]uuid.UUID, error)
	GetShareToken(ctx context.Context, q interfaces.Querier, categoryId uuid.UUID) (string, error)
	SaveShareToken(ctx context.Context, q interfaces.Querier, token schemas.ShareToken) error
	GetByShareToken(ctx context.Context, q interfaces.Querier, token string) (schemas.Category, error)
	DeleteShareToken(ctx context.Context, q interfaces.Querier, categoryId uuid.UUID) error
}

type categoryStore struct{}

// NewCategoryStore returns the pgx-backed CategoryStore.
func NewCategoryStore() CategoryStore {
	return &categoryStore{}
}

func (cs *categoryStore) Create(ctx context.Context, q interfaces.Querier, category schemas.Category) error {
	_, err := q.Exec(ctx, queryInsertCategory, category.ID, category.UserID, category.Title,
		category.TagIDs, category.IsPublic, category.CreatedAt)
	return err
}

func (cs *categoryStore) ListByUser(ctx context.Context, q interfaces.Querier, ownerId uuid.UUID) ([]schemas.Category, error) {
	rows, err := q.Query(ctx, queryCategoriesByUser, ownerId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCategories(rows)
}

func (cs *categoryStore) GetByIdAndUser(ctx context.Context, q interfaces.Querier, ownerId, categoryId uuid.UUID) (schemas.Category, error) {
	return scanCategoryRow(q.QueryRow(ctx, queryCategoryByIdAndUser, categoryId, ownerId))
}

// GetById loads a category regardless of owner, for the shared-link view.
func (cs *categoryStore) GetById(ctx context.Context, q interfaces.Querier, categoryId uuid.UUID) (schemas.Category, error) {
	return scanCategoryRow(q.QueryRow(ctx, queryCategoryById, categoryId))
}

func (cs *categoryStore) Update(ctx context.Context, q interfaces.Querier, category schemas.Category) error {
	commandTag, err := q.Exec(ctx, queryUpdateCategory, category.Title, category.TagIDs, category.IsPublic,
		category.ID, category.UserID)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (cs *categoryStore) ToggleVisibility(ctx context.Context, q interfaces.Querier, ownerId, categoryId uuid.UUID) (bool, error) {
	var isPublic bool
	err := q.QueryRow(ctx, queryToggleCategoryVisibility, categoryId, ownerId).Scan(&isPublic)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, err
	}

	return isPublic, nil
}

// Delete removes the category and any share token pointing at it.
func (cs *categoryStore) Delete(ctx context.Context, q interfaces.Querier, ownerId, categoryId uuid.UUID) error {
	commandTag, err := q.Exec(ctx, queryDeleteCategory, categoryId, ownerId)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	_, err = q.Exec(ctx, queryDeleteShareToken, categoryId)
	return err
}

// PublicTagIds returns the union of tag ids referenced by public categories
// across all users.
func (cs *categoryStore) PublicTagIds(ctx context.Context, q interfaces.Querier) ([]uuid.UUID, error) {
	rows, err := q.Query(ctx, queryPublicTagIds)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tagIds := make([]uuid.UUID, 0)
	for rows.Next() {
		var tagId uuid.UUID
		if err := rows.Scan(&tagId); err != nil {
			return nil, err
		}
		tagIds = append(tagIds, tagId)
	}

	return tagIds, rows.Err()
}

func (cs *categoryStore) GetShareToken(ctx context.Context, q interfaces.Querier, categoryId uuid.UUID) (string, error) {
	var token string
	err := q.QueryRow(ctx, queryShareTokenByCategory, categoryId).Scan(&token)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	return token, nil
}

func (cs *categoryStore) SaveShareToken(ctx context.Context, q interfaces.Querier, token schemas.ShareToken) error {
	_, err := q.Exec(ctx, queryInsertShareToken, token.Token, token.CategoryID, token.CreatedAt)
	return err
}

func (cs *categoryStore) GetByShareToken(ctx context.Context, q interfaces.Querier, token string) (schemas.Category, error) {
	return scanCategoryRow(q.QueryRow(ctx, queryCategoryByShareToken, token))
}

func (cs *categoryStore) DeleteShareToken(ctx context.Context, q interfaces.Querier, categoryId uuid.UUID) error {
	_, err := q.Exec(ctx, queryDeleteShareToken, categoryId)
	return err
}

func scanCategoryRow(row pgx.Row) (schemas.Category, error) {
	var category schemas.Category
	err := row.Scan(&category.ID, &category.UserID, &category.Title, &category.TagIDs,
		&category.IsPublic, &category.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return schemas.Category{}, ErrNotFound
	}
	if err != nil {
		return schemas.Category{}, err
	}

	return category, nil
}

func scanCategories(rows pgx.Rows) ([]schemas.Category, error) {
	categories := make([]schemas.Category, 0)
	for rows.Next() {
		var category schemas.Category
		if err := rows.Scan(&category.ID, &category.UserID, &category.Title, &category.TagIDs,
			&category.IsPublic, &category.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}
