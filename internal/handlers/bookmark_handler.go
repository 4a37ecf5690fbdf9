package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookmark-server/internal/interfaces"
	"bookmark-server/internal/managers"
	"bookmark-server/internal/schemas"
	"bookmark-server/internal/stores"
	"bookmark-server/internal/utils"
)

// BookmarkHdl defines the interface for handling bookmark-related HTTP requests.
type BookmarkHdl interface {
	CreateBookmark(c *gin.Context)
	ListBookmarks(c *gin.Context)
	GetBookmark(c *gin.Context)
	ListFavorites(c *gin.Context)
	SearchBookmarks(c *gin.Context)
	UpdateBookmark(c *gin.Context)
	ToggleFavorite(c *gin.Context)
	DeleteBookmark(c *gin.Context)
}

// BookmarkHandler provides methods to handle bookmark-related HTTP requests.
type BookmarkHandler struct {
	DatabaseManager managers.DatabaseMgr
	BookmarkStore   stores.BookmarkStore
	TagStore        stores.TagStore
}

// NewBookmarkHandler returns a new BookmarkHandler with the provided managers.
func NewBookmarkHandler(databaseManager *managers.DatabaseMgr, bookmarkStore stores.BookmarkStore,
	tagStore stores.TagStore) BookmarkHdl {
	return &BookmarkHandler{
		DatabaseManager: *databaseManager,
		BookmarkStore:   bookmarkStore,
		TagStore:        tagStore,
	}
}

// CreateBookmark stores a new bookmark. Tag names are resolved to the user's
// existing tags where possible, unknown names become new tags.
func (handler *BookmarkHandler) CreateBookmark(ctx *gin.Context) {
	tx := utils.BeginTransaction(ctx, handler.DatabaseManager.GetPool())
	if tx == nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, errTransaction)
		return
	}
	defer utils.RollbackTransaction(ctx, tx)

	createRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.CreateBookmarkRequest)
	userId := authenticatedUserId(ctx)

	tagIds, tagDtos, err := handler.TagStore.Resolve(ctx, tx, userId, createRequest.TagNames)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	bookmark := schemas.Bookmark{
		ID:          uuid.New(),
		UserID:      userId,
		URL:         createRequest.Url,
		Title:       createRequest.Title,
		Description: createRequest.Description,
		Favorite:    createRequest.Favorite,
		TagIDs:      tagIds,
		CreatedAt:   time.Now(),
	}
	if err := handler.BookmarkStore.Create(ctx, tx, bookmark); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err := utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, bookmarkToDto(bookmark, tagDtos), http.StatusCreated)
}

// ListBookmarks returns the user's bookmarks, newest first.
func (handler *BookmarkHandler) ListBookmarks(ctx *gin.Context) {
	userId := authenticatedUserId(ctx)
	pool := handler.DatabaseManager.GetPool()

	bookmarks, err := handler.BookmarkStore.ListByUser(ctx, pool, userId)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	handler.respondWithBookmarks(ctx, pool, bookmarks, http.StatusOK)
}

// GetBookmark returns a single bookmark of the user.
func (handler *BookmarkHandler) GetBookmark(ctx *gin.Context) {
	userId := authenticatedUserId(ctx)
	pool := handler.DatabaseManager.GetPool()

	bookmarkId, err := uuid.Parse(ctx.Param(utils.BookmarkIdKey))
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	bookmark, err := handler.BookmarkStore.GetById(ctx, pool, userId, bookmarkId)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.WriteAndLogError(ctx, schemas.BookmarkNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	tagDtos, err := handler.TagStore.FindByIds(ctx, pool, bookmark.TagIDs)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(ctx, bookmarkToDto(bookmark, tagDtos), http.StatusOK)
}

// ListFavorites returns the user's favorite bookmarks, newest first.
func (handler *BookmarkHandler) ListFavorites(ctx *gin.Context) {
	userId := authenticatedUserId(ctx)
	pool := handler.DatabaseManager.GetPool()

	bookmarks, err := handler.BookmarkStore.ListFavorites(ctx, pool, userId)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	handler.respondWithBookmarks(ctx, pool, bookmarks, http.StatusOK)
}

// SearchBookmarks matches the keyword against bookmark titles of the user.
func (handler *BookmarkHandler) SearchBookmarks(ctx *gin.Context) {
	userId := authenticatedUserId(ctx)
	pool := handler.DatabaseManager.GetPool()
	keyword := ctx.Query(utils.KeywordParamKey)

	bookmarks, err := handler.BookmarkStore.SearchByTitle(ctx, pool, userId, keyword)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	handler.respondWithBookmarks(ctx, pool, bookmarks, http.StatusOK)
}

// UpdateBookmark replaces url, title, description, favorite flag and tag set
// of the bookmark.
func (handler *BookmarkHandler) UpdateBookmark(ctx *gin.Context) {
	tx := utils.BeginTransaction(ctx, handler.DatabaseManager.GetPool())
	if tx == nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, errTransaction)
		return
	}
	defer utils.RollbackTransaction(ctx, tx)

	updateRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.UpdateBookmarkRequest)
	userId := authenticatedUserId(ctx)

	bookmarkId, err := uuid.Parse(ctx.Param(utils.BookmarkIdKey))
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	existing, err := handler.BookmarkStore.GetById(ctx, tx, userId, bookmarkId)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.WriteAndLogError(ctx, schemas.BookmarkNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	tagIds, tagDtos, err := handler.TagStore.Resolve(ctx, tx, userId, updateRequest.TagNames)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	bookmark := schemas.Bookmark{
		ID:          bookmarkId,
		UserID:      userId,
		URL:         updateRequest.Url,
		Title:       updateRequest.Title,
		Description: updateRequest.Description,
		Favorite:    updateRequest.Favorite,
		TagIDs:      tagIds,
		CreatedAt:   existing.CreatedAt,
	}
	if err := handler.BookmarkStore.Update(ctx, tx, bookmark); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err := utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, bookmarkToDto(bookmark, tagDtos), http.StatusOK)
}

// ToggleFavorite flips the favorite flag of the bookmark.
func (handler *BookmarkHandler) ToggleFavorite(ctx *gin.Context) {
	userId := authenticatedUserId(ctx)
	pool := handler.DatabaseManager.GetPool()

	bookmarkId, err := uuid.Parse(ctx.Param(utils.BookmarkIdKey))
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	favorite, err := handler.BookmarkStore.ToggleFavorite(ctx, pool, userId, bookmarkId)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.WriteAndLogError(ctx, schemas.BookmarkNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(ctx, gin.H{"favorite": favorite}, http.StatusOK)
}

// DeleteBookmark removes the bookmark. Tags stay untouched since they may be
// referenced elsewhere.
func (handler *BookmarkHandler) DeleteBookmark(ctx *gin.Context) {
	userId := authenticatedUserId(ctx)
	pool := handler.DatabaseManager.GetPool()

	bookmarkId, err := uuid.Parse(ctx.Param(utils.BookmarkIdKey))
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	if err := handler.BookmarkStore.Delete(ctx, pool, userId, bookmarkId); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.WriteAndLogError(ctx, schemas.BookmarkNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (handler *BookmarkHandler) respondWithBookmarks(ctx *gin.Context, q interfaces.Querier,
	bookmarks []schemas.Bookmark, statusCode int) {
	bookmarkDtos, err := decorateBookmarks(ctx, q, handler.TagStore, bookmarks)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(ctx, bookmarkDtos, statusCode)
}

// decorateBookmarks loads the tag views for a batch of bookmarks with a
// single query and attaches them in order.
func decorateBookmarks(ctx *gin.Context, q interfaces.Querier, tagStore stores.TagStore,
	bookmarks []schemas.Bookmark) ([]schemas.BookmarkDTO, error) {
	idSet := make(map[uuid.UUID]bool)
	allTagIds := make([]uuid.UUID, 0)
	for _, bookmark := range bookmarks {
		for _, tagId := range bookmark.TagIDs {
			if !idSet[tagId] {
				idSet[tagId] = true
				allTagIds = append(allTagIds, tagId)
			}
		}
	}

	tagDtos, err := tagStore.FindByIds(ctx, q, allTagIds)
	if err != nil {
		return nil, err
	}

	byId := make(map[string]schemas.TagDTO, len(tagDtos))
	for _, tagDto := range tagDtos {
		byId[tagDto.TagId] = tagDto
	}

	bookmarkDtos := make([]schemas.BookmarkDTO, 0, len(bookmarks))
	for _, bookmark := range bookmarks {
		tags := make([]schemas.TagDTO, 0, len(bookmark.TagIDs))
		for _, tagId := range bookmark.TagIDs {
			if tagDto, ok := byId[tagId.String()]; ok {
				tags = append(tags, tagDto)
			}
		}
		bookmarkDtos = append(bookmarkDtos, bookmarkToDto(bookmark, tags))
	}

	return bookmarkDtos, nil
}

func bookmarkToDto(bookmark schemas.Bookmark, tags []schemas.TagDTO) schemas.BookmarkDTO {
	return schemas.BookmarkDTO{
		BookmarkId:   bookmark.ID.String(),
		Url:          bookmark.URL,
		Title:        bookmark.Title,
		Description:  bookmark.Description,
		Favorite:     bookmark.Favorite,
		CreationDate: bookmark.CreatedAt.Format(time.RFC3339),
		Tags:         tags,
	}
}
