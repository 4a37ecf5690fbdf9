package stores

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"bookmark-server/internal/interfaces"
	"bookmark-server/internal/schemas"
)

const (
	queryTagsByLoweredNames     = "SELECT tag_id, name FROM bookmark_schema.tags WHERE user_id = $1 AND lower(name) = ANY($2)"
	queryInsertTag              = "INSERT INTO bookmark_schema.tags (tag_id, user_id, name, created_at) VALUES ($1, $2, $3, $4)"
	queryTagsByIds              = "SELECT tag_id, name FROM bookmark_schema.tags WHERE tag_id = ANY($1)"
	queryTagsByUser             = "SELECT tag_id, name FROM bookmark_schema.tags WHERE user_id = $1 ORDER BY created_at DESC"
	queryTagIdByName            = "SELECT tag_id FROM bookmark_schema.tags WHERE user_id = $1 AND name = $2"
	queryRenameTag              = "UPDATE bookmark_schema.tags SET name = $1 WHERE tag_id = $2 AND user_id = $3"
	queryDeleteTag              = "DELETE FROM bookmark_schema.tags WHERE tag_id = $1 AND user_id = $2"
	queryStripTagFromBookmarks  = "UPDATE bookmark_schema.bookmarks SET tag_ids = array_remove(tag_ids, $1) WHERE user_id = $2 AND tag_ids @> ARRAY[$1::uuid]"
	queryStripTagFromCategories = "UPDATE bookmark_schema.categories SET tag_ids = array_remove(tag_ids, $1) WHERE user_id = $2 AND tag_ids @> ARRAY[$1::uuid]"
)

// TagStore resolves tag names to stable identifiers and owns the deletion
// cascade into bookmarks and categories.
type TagStore interface {
	Resolve(ctx context.Context, q interfaces.Querier, ownerId uuid.UUID, tagNames []string) ([]uuid.UUID, []schemas.TagDTO, error)
	FindByIds(ctx context.Context, q interfaces.Querier, tagIds []uuid.UUID) ([]schemas.TagDTO, error)
	ListByUser(ctx context.Context, q interfaces.Querier, ownerId uuid.UUID) ([]schemas.TagDTO, error)
	Create(ctx context.Context, q interfaces.Querier, ownerId uuid.UUID, name string) (schemas.TagDTO, error)
	Rename(ctx context.Context, q interfaces.Querier, ownerId, tagId uuid.UUID, name string) (schemas.TagDTO, error)
	Delete(ctx context.Context, q interfaces.Querier, ownerId, tagId uuid.UUID) error
}

type tagStore struct{}

// NewTagStore returns the pgx-backed TagStore.
func NewTagStore() TagStore {
	return &tagStore{}
}

// Resolve maps every requested name to exactly one tag of the owner. Existing
// tags are matched case-insensitively; names with no match are created with
// the requested spelling. The returned ids and views correspond 1:1 with the
// de-duplicated input.
func (ts *tagStore) Resolve(ctx context.Context, q interfaces.Querier, ownerId uuid.UUID, tagNames []string) ([]uuid.UUID, []schemas.TagDTO, error) {
	names := dedupeNames(tagNames)
	if len(names) == 0 {
		return []uuid.UUID{}, []schemas.TagDTO{}, nil
	}

	lowered := make([]string, 0, len(names))
	for _, name := range names {
		lowered = append(lowered, strings.ToLower(name))
	}

	rows, err := q.Query(ctx, queryTagsByLoweredNames, ownerId, lowered)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	byLoweredName := make(map[string]schemas.Tag)
	for rows.Next() {
		var tag schemas.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, nil, err
		}
		byLoweredName[strings.ToLower(tag.Name)] = tag
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	tagIds := make([]uuid.UUID, 0, len(names))
	tagDtos := make([]schemas.TagDTO, 0, len(names))

	for _, name := range names {
		tag, ok := byLoweredName[strings.ToLower(name)]
		if !ok {
			tag = schemas.Tag{
				ID:        uuid.New(),
				UserID:    ownerId,
				Name:      name,
				CreatedAt: time.Now(),
			}
			if _, err := q.Exec(ctx, queryInsertTag, tag.ID, tag.UserID, tag.Name, tag.CreatedAt); err != nil {
				return nil, nil, err
			}
			byLoweredName[strings.ToLower(name)] = tag
		}

		tagIds = append(tagIds, tag.ID)
		tagDtos = append(tagDtos, schemas.TagDTO{TagId: tag.ID.String(), Name: tag.Name})
	}

	return tagIds, tagDtos, nil
}

// FindByIds returns the views of the given tags. Ids that no longer exist are
// dropped silently, since a tag may have been deleted concurrently.
func (ts *tagStore) FindByIds(ctx context.Context, q interfaces.Querier, tagIds []uuid.UUID) ([]schemas.TagDTO, error) {
	if len(tagIds) == 0 {
		return []schemas.TagDTO{}, nil
	}

	rows, err := q.Query(ctx, queryTagsByIds, tagIds)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTagDtos(rows)
}

func (ts *tagStore) ListByUser(ctx context.Context, q interfaces.Querier, ownerId uuid.UUID) ([]schemas.TagDTO, error) {
	rows, err := q.Query(ctx, queryTagsByUser, ownerId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTagDtos(rows)
}

// Create inserts a new tag and fails with ErrConflict when the owner already
// has a tag of that name.
func (ts *tagStore) Create(ctx context.Context, q interfaces.Querier, ownerId uuid.UUID, name string) (schemas.TagDTO, error) {
	var existingId uuid.UUID
	err := q.QueryRow(ctx, queryTagIdByName, ownerId, name).Scan(&existingId)
	if err == nil {
		return schemas.TagDTO{}, ErrConflict
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return schemas.TagDTO{}, err
	}

	tag := schemas.Tag{
		ID:        uuid.New(),
		UserID:    ownerId,
		Name:      name,
		CreatedAt: time.Now(),
	}
	if _, err := q.Exec(ctx, queryInsertTag, tag.ID, tag.UserID, tag.Name, tag.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return schemas.TagDTO{}, ErrConflict
		}
		return schemas.TagDTO{}, err
	}

	return schemas.TagDTO{TagId: tag.ID.String(), Name: tag.Name}, nil
}

// Rename changes a tag's name. It fails with ErrConflict when another tag of
// the owner already carries the target name, and with ErrNotFound when the
// tag is missing or not owned by the caller.
func (ts *tagStore) Rename(ctx context.Context, q interfaces.Querier, ownerId, tagId uuid.UUID, name string) (schemas.TagDTO, error) {
	var existingId uuid.UUID
	err := q.QueryRow(ctx, queryTagIdByName, ownerId, name).Scan(&existingId)
	if err == nil && existingId != tagId {
		return schemas.TagDTO{}, ErrConflict
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return schemas.TagDTO{}, err
	}

	commandTag, err := q.Exec(ctx, queryRenameTag, name, tagId, ownerId)
	if err != nil {
		if isUniqueViolation(err) {
			return schemas.TagDTO{}, ErrConflict
		}
		return schemas.TagDTO{}, err
	}
	if commandTag.RowsAffected() == 0 {
		return schemas.TagDTO{}, ErrNotFound
	}

	return schemas.TagDTO{TagId: tagId.String(), Name: name}, nil
}

// Delete removes the tag and strips its id from every bookmark and category
// of the owner that references it.
func (ts *tagStore) Delete(ctx context.Context, q interfaces.Querier, ownerId, tagId uuid.UUID) error {
	commandTag, err := q.Exec(ctx, queryDeleteTag, tagId, ownerId)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := q.Exec(ctx, queryStripTagFromBookmarks, tagId, ownerId); err != nil {
		return err
	}
	if _, err := q.Exec(ctx, queryStripTagFromCategories, tagId, ownerId); err != nil {
		return err
	}

	return nil
}

func scanTagDtos(rows pgx.Rows) ([]schemas.TagDTO, error) {
	tagDtos := make([]schemas.TagDTO, 0)
	for rows.Next() {
		var tagId uuid.UUID
		var name string
		if err := rows.Scan(&tagId, &name); err != nil {
			return nil, err
		}
		tagDtos = append(tagDtos, schemas.TagDTO{TagId: tagId.String(), Name: name})
	}

	return tagDtos, rows.Err()
}

// dedupeNames drops empty names and case-insensitive duplicates, keeping the
// first spelling of each name. Resolve therefore never returns the same tag
// id twice.
func dedupeNames(tagNames []string) []string {
	names := make([]string, 0, len(tagNames))
	seen := make(map[string]bool, len(tagNames))
	for _, name := range tagNames {
		lowered := strings.ToLower(name)
		if name == "" || seen[lowered] {
			continue
		}
		seen[lowered] = true
		names = append(names, name)
	}

	return names
}

// isUniqueViolation reports whether err is a violation of a unique
// constraint, so check-then-insert races can surface as ErrConflict.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
