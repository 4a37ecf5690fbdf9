package stores

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPoolMock(t *testing.T) pgxmock.PgxPoolIface {
	poolMock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(poolMock.Close)

	return poolMock
}

func TestResolveReusesExistingTagsCaseInsensitively(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewTagStore()

	ownerId := uuid.New()
	existingId := uuid.New()

	poolMock.ExpectQuery(queryTagsByLoweredNames).
		WithArgs(ownerId, []string{"golang", "reading"}).
		WillReturnRows(pgxmock.NewRows([]string{"tag_id", "name"}).AddRow(existingId, "Golang"))
	poolMock.ExpectExec(queryInsertTag).
		WithArgs(pgxmock.AnyArg(), ownerId, "reading", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tagIds, tagDtos, err := store.Resolve(context.Background(), poolMock, ownerId, []string{"GOLANG", "reading"})
	require.NoError(t, err)
	require.Len(t, tagIds, 2)
	require.Len(t, tagDtos, 2)

	assert.Equal(t, existingId, tagIds[0])
	assert.Equal(t, "Golang", tagDtos[0].Name)
	assert.Equal(t, "reading", tagDtos[1].Name)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestResolveCollapsesCaseVariantsToOneTag(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewTagStore()

	ownerId := uuid.New()

	poolMock.ExpectQuery(queryTagsByLoweredNames).
		WithArgs(ownerId, []string{"news"}).
		WillReturnRows(pgxmock.NewRows([]string{"tag_id", "name"}))
	poolMock.ExpectExec(queryInsertTag).
		WithArgs(pgxmock.AnyArg(), ownerId, "News", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	// Case variants of one name yield a single id, so no bookmark ever
	// persists the same tag twice
	tagIds, tagDtos, err := store.Resolve(context.Background(), poolMock, ownerId, []string{"News", "NEWS"})
	require.NoError(t, err)
	require.Len(t, tagIds, 1)
	require.Len(t, tagDtos, 1)
	assert.Equal(t, "News", tagDtos[0].Name)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestResolveEmptyInputTouchesNothing(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewTagStore()

	tagIds, tagDtos, err := store.Resolve(context.Background(), poolMock, uuid.New(), nil)
	require.NoError(t, err)
	assert.Empty(t, tagIds)
	assert.Empty(t, tagDtos)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewTagStore()

	ownerId := uuid.New()

	poolMock.ExpectQuery(queryTagIdByName).
		WithArgs(ownerId, "golang").
		WillReturnRows(pgxmock.NewRows([]string{"tag_id"}).AddRow(uuid.New()))

	_, err := store.Create(context.Background(), poolMock, ownerId, "golang")
	assert.ErrorIs(t, err, ErrConflict)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestCreateMapsUniqueViolationToConflict(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewTagStore()

	ownerId := uuid.New()

	// A concurrent insert can slip between the name check and the insert,
	// the constraint violation still surfaces as a conflict
	poolMock.ExpectQuery(queryTagIdByName).
		WithArgs(ownerId, "golang").
		WillReturnError(pgx.ErrNoRows)
	poolMock.ExpectExec(queryInsertTag).
		WithArgs(pgxmock.AnyArg(), ownerId, "golang", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "tags_user_id_name_key"})

	_, err := store.Create(context.Background(), poolMock, ownerId, "golang")
	assert.ErrorIs(t, err, ErrConflict)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestRenameMapsUniqueViolationToConflict(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewTagStore()

	ownerId := uuid.New()
	tagId := uuid.New()

	poolMock.ExpectQuery(queryTagIdByName).
		WithArgs(ownerId, "golang").
		WillReturnError(pgx.ErrNoRows)
	poolMock.ExpectExec(queryRenameTag).
		WithArgs("golang", tagId, ownerId).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "tags_user_id_name_key"})

	_, err := store.Rename(context.Background(), poolMock, ownerId, tagId, "golang")
	assert.ErrorIs(t, err, ErrConflict)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestDeleteStripsTagFromBookmarksAndCategories(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewTagStore()

	ownerId := uuid.New()
	tagId := uuid.New()

	poolMock.ExpectExec(queryDeleteTag).
		WithArgs(tagId, ownerId).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	poolMock.ExpectExec(queryStripTagFromBookmarks).
		WithArgs(tagId, ownerId).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))
	poolMock.ExpectExec(queryStripTagFromCategories).
		WithArgs(tagId, ownerId).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := store.Delete(context.Background(), poolMock, ownerId, tagId)
	require.NoError(t, err)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestDeleteUnknownTagFails(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewTagStore()

	poolMock.ExpectExec(queryDeleteTag).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := store.Delete(context.Background(), poolMock, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestFindByIdsEmptyInputSkipsQuery(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewTagStore()

	tagDtos, err := store.FindByIds(context.Background(), poolMock, []uuid.UUID{})
	require.NoError(t, err)
	assert.Empty(t, tagDtos)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestRenameDetectsCollision(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewTagStore()

	ownerId := uuid.New()
	tagId := uuid.New()
	otherId := uuid.New()

	poolMock.ExpectQuery(queryTagIdByName).
		WithArgs(ownerId, "reading").
		WillReturnRows(pgxmock.NewRows([]string{"tag_id"}).AddRow(otherId))

	_, err := store.Rename(context.Background(), poolMock, ownerId, tagId, "reading")
	assert.ErrorIs(t, err, ErrConflict)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestRenameToOwnNameSucceeds(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewTagStore()

	ownerId := uuid.New()
	tagId := uuid.New()

	poolMock.ExpectQuery(queryTagIdByName).
		WithArgs(ownerId, "reading").
		WillReturnRows(pgxmock.NewRows([]string{"tag_id"}).AddRow(tagId))
	poolMock.ExpectExec(queryRenameTag).
		WithArgs("reading", tagId, ownerId).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tag, err := store.Rename(context.Background(), poolMock, ownerId, tagId, "reading")
	require.NoError(t, err)
	assert.Equal(t, tagId.String(), tag.TagId)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestListByUserReturnsViews(t *testing.T) {
	poolMock := newPoolMock(t)
	store := NewTagStore()

	ownerId := uuid.New()
	firstId := uuid.New()
	secondId := uuid.New()

	poolMock.ExpectQuery(queryTagsByUser).
		WithArgs(ownerId).
		WillReturnRows(pgxmock.NewRows([]string{"tag_id", "name"}).
			AddRow(firstId, "golang").
			AddRow(secondId, "reading"))

	tagDtos, err := store.ListByUser(context.Background(), poolMock, ownerId)
	require.NoError(t, err)
	require.Len(t, tagDtos, 2)
	assert.Equal(t, firstId.String(), tagDtos[0].TagId)
	assert.Equal(t, "reading", tagDtos[1].Name)

	assert.NoError(t, poolMock.ExpectationsWereMet())
}
