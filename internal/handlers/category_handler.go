package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"bookmark-server/internal/interfaces"
	"bookmark-server/internal/managers"
	"bookmark-server/internal/schemas"
	"bookmark-server/internal/stores"
	"bookmark-server/internal/utils"
)

const (
	shareTokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	shareTokenLength   = 16
)

// CategoryHdl defines the interface for handling category-related HTTP requests.
type CategoryHdl interface {
	CreateCategory(c *gin.Context)
	ListCategories(c *gin.Context)
	GetCategory(c *gin.Context)
	ListCategoryBookmarks(c *gin.Context)
	UpdateCategory(c *gin.Context)
	ToggleVisibility(c *gin.Context)
	DeleteCategory(c *gin.Context)
	CreateShareToken(c *gin.Context)
	DeleteShareToken(c *gin.Context)
	GetSharedCategory(c *gin.Context)
	ImportSharedCategory(c *gin.Context)
	SearchPublicBookmarks(c *gin.Context)
}

// CategoryHandler provides methods to handle category-related HTTP requests.
type CategoryHandler struct {
	DatabaseManager managers.DatabaseMgr
	CategoryStore   stores.CategoryStore
	BookmarkStore   stores.BookmarkStore
	TagStore        stores.TagStore
}

// NewCategoryHandler returns a new CategoryHandler with the provided managers.
func NewCategoryHandler(databaseManager *managers.DatabaseMgr, categoryStore stores.CategoryStore,
	bookmarkStore stores.BookmarkStore, tagStore stores.TagStore) CategoryHdl {
	return &CategoryHandler{
		DatabaseManager: *databaseManager,
		CategoryStore:   categoryStore,
		BookmarkStore:   bookmarkStore,
		TagStore:        tagStore,
	}
}

// CreateCategory stores a new saved filter over the given tag names. Unknown
// names become new tags of the user.
func (handler *CategoryHandler) CreateCategory(ctx *gin.Context) {
	tx := utils.BeginTransaction(ctx, handler.DatabaseManager.GetPool())
	if tx == nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, errTransaction)
		return
	}
	defer utils.RollbackTransaction(ctx, tx)

	createRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.CreateCategoryRequest)
	userId := authenticatedUserId(ctx)

	tagIds, tagDtos, err := handler.TagStore.Resolve(ctx, tx, userId, createRequest.TagNames)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	category := schemas.Category{
		ID:        uuid.New(),
		UserID:    userId,
		Title:     createRequest.Title,
		TagIDs:    tagIds,
		IsPublic:  createRequest.IsPublic,
		CreatedAt: time.Now(),
	}
	if err := handler.CategoryStore.Create(ctx, tx, category); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err := utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, categoryToDto(category, tagNames(tagDtos)), http.StatusCreated)
}

// ListCategories returns the user's categories, newest first.
func (handler *CategoryHandler) ListCategories(ctx *gin.Context) {
	userId := authenticatedUserId(ctx)
	pool := handler.DatabaseManager.GetPool()

	categories, err := handler.CategoryStore.ListByUser(ctx, pool, userId)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	categoryDtos := make([]schemas.CategoryDTO, 0, len(categories))
	for _, category := range categories {
		tagDtos, err := handler.TagStore.FindByIds(ctx, pool, category.TagIDs)
		if err != nil {
			utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		categoryDtos = append(categoryDtos, categoryToDto(category, tagNames(tagDtos)))
	}

	utils.WriteAndLogResponse(ctx, categoryDtos, http.StatusOK)
}

// GetCategory returns a single category of the user.
func (handler *CategoryHandler) GetCategory(ctx *gin.Context) {
	userId := authenticatedUserId(ctx)
	pool := handler.DatabaseManager.GetPool()

	categoryId, err := uuid.Parse(ctx.Param(utils.CategoryIdKey))
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	category, err := handler.CategoryStore.GetByIdAndUser(ctx, pool, userId, categoryId)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.WriteAndLogError(ctx, schemas.CategoryNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	tagDtos, err := handler.TagStore.FindByIds(ctx, pool, category.TagIDs)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(ctx, categoryToDto(category, tagNames(tagDtos)), http.StatusOK)
}

// ListCategoryBookmarks returns the bookmarks the category's tag set currently
// matches, newest first. Membership is computed on read.
func (handler *CategoryHandler) ListCategoryBookmarks(ctx *gin.Context) {
	userId := authenticatedUserId(ctx)
	pool := handler.DatabaseManager.GetPool()

	categoryId, err := uuid.Parse(ctx.Param(utils.CategoryIdKey))
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	category, err := handler.CategoryStore.GetByIdAndUser(ctx, pool, userId, categoryId)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.WriteAndLogError(ctx, schemas.CategoryNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	bookmarks, err := handler.BookmarkStore.ListByTagIds(ctx, pool, category.UserID, category.TagIDs)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	bookmarkDtos, err := decorateBookmarks(ctx, pool, handler.TagStore, bookmarks)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(ctx, bookmarkDtos, http.StatusOK)
}

// UpdateCategory replaces title, tag set and visibility of the category.
func (handler *CategoryHandler) UpdateCategory(ctx *gin.Context) {
	tx := utils.BeginTransaction(ctx, handler.DatabaseManager.GetPool())
	if tx == nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, errTransaction)
		return
	}
	defer utils.RollbackTransaction(ctx, tx)

	updateRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.UpdateCategoryRequest)
	userId := authenticatedUserId(ctx)

	categoryId, err := uuid.Parse(ctx.Param(utils.CategoryIdKey))
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	existing, err := handler.CategoryStore.GetByIdAndUser(ctx, tx, userId, categoryId)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.WriteAndLogError(ctx, schemas.CategoryNotFound, http.StatusNotFound, err)
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

	category := schemas.Category{
		ID:        categoryId,
		UserID:    userId,
		Title:     updateRequest.Title,
		TagIDs:    tagIds,
		IsPublic:  updateRequest.IsPublic,
		CreatedAt: existing.CreatedAt,
	}
	if err := handler.CategoryStore.Update(ctx, tx, category); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err := utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, categoryToDto(category, tagNames(tagDtos)), http.StatusOK)
}

// ToggleVisibility flips the public flag of the category.
func (handler *CategoryHandler) ToggleVisibility(ctx *gin.Context) {
	userId := authenticatedUserId(ctx)
	pool := handler.DatabaseManager.GetPool()

	categoryId, err := uuid.Parse(ctx.Param(utils.CategoryIdKey))
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	isPublic, err := handler.CategoryStore.ToggleVisibility(ctx, pool, userId, categoryId)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.WriteAndLogError(ctx, schemas.CategoryNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(ctx, gin.H{"isPublic": isPublic}, http.StatusOK)
}

// DeleteCategory removes the category and its share token. Bookmarks and
// tags stay untouched.
func (handler *CategoryHandler) DeleteCategory(ctx *gin.Context) {
	tx := utils.BeginTransaction(ctx, handler.DatabaseManager.GetPool())
	if tx == nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, errTransaction)
		return
	}
	defer utils.RollbackTransaction(ctx, tx)

	userId := authenticatedUserId(ctx)

	categoryId, err := uuid.Parse(ctx.Param(utils.CategoryIdKey))
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	if err := handler.CategoryStore.Delete(ctx, tx, userId, categoryId); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.WriteAndLogError(ctx, schemas.CategoryNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err := utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	ctx.Status(http.StatusNoContent)
}

// CreateShareToken issues the share token for the category. Repeated calls
// return the existing token instead of minting a new one.
func (handler *CategoryHandler) CreateShareToken(ctx *gin.Context) {
	tx := utils.BeginTransaction(ctx, handler.DatabaseManager.GetPool())
	if tx == nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, errTransaction)
		return
	}
	defer utils.RollbackTransaction(ctx, tx)

	userId := authenticatedUserId(ctx)

	categoryId, err := uuid.Parse(ctx.Param(utils.CategoryIdKey))
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	if _, err := handler.CategoryStore.GetByIdAndUser(ctx, tx, userId, categoryId); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.WriteAndLogError(ctx, schemas.CategoryNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	token, err := handler.CategoryStore.GetShareToken(ctx, tx, categoryId)
	if err != nil && !errors.Is(err, stores.ErrNotFound) {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if errors.Is(err, stores.ErrNotFound) {
		token, err = gonanoid.Generate(shareTokenAlphabet, shareTokenLength)
		if err != nil {
			utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
			return
		}

		shareToken := schemas.ShareToken{Token: token, CategoryID: categoryId, CreatedAt: time.Now()}
		if err := handler.CategoryStore.SaveShareToken(ctx, tx, shareToken); err != nil {
			utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
	}

	if err := utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.ShareTokenDTO{Token: token}, http.StatusOK)
}

// DeleteShareToken revokes the share token of the category. Existing links
// stop resolving immediately.
func (handler *CategoryHandler) DeleteShareToken(ctx *gin.Context) {
	tx := utils.BeginTransaction(ctx, handler.DatabaseManager.GetPool())
	if tx == nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, errTransaction)
		return
	}
	defer utils.RollbackTransaction(ctx, tx)

	userId := authenticatedUserId(ctx)

	categoryId, err := uuid.Parse(ctx.Param(utils.CategoryIdKey))
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	if _, err := handler.CategoryStore.GetByIdAndUser(ctx, tx, userId, categoryId); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.WriteAndLogError(ctx, schemas.CategoryNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err := handler.CategoryStore.DeleteShareToken(ctx, tx, categoryId); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err := utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	ctx.Status(http.StatusNoContent)
}

// GetSharedCategory resolves a share token to the owner's category view. No
// authentication is required, the token itself is the capability.
func (handler *CategoryHandler) GetSharedCategory(ctx *gin.Context) {
	pool := handler.DatabaseManager.GetPool()
	token := ctx.Param(utils.ShareTokenKey)

	category, err := handler.CategoryStore.GetByShareToken(ctx, pool, token)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.WriteAndLogError(ctx, schemas.InvalidShareLink, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	view, err := handler.buildCategoryView(ctx, pool, category)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(ctx, view, http.StatusOK)
}

// ImportSharedCategory copies a shared category into the caller's account as
// a private category referencing the same tag set.
func (handler *CategoryHandler) ImportSharedCategory(ctx *gin.Context) {
	tx := utils.BeginTransaction(ctx, handler.DatabaseManager.GetPool())
	if tx == nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, errTransaction)
		return
	}
	defer utils.RollbackTransaction(ctx, tx)

	userId := authenticatedUserId(ctx)
	token := ctx.Param(utils.ShareTokenKey)

	source, err := handler.CategoryStore.GetByShareToken(ctx, tx, token)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.WriteAndLogError(ctx, schemas.InvalidShareLink, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	imported := schemas.Category{
		ID:        uuid.New(),
		UserID:    userId,
		Title:     source.Title,
		TagIDs:    source.TagIDs,
		IsPublic:  false,
		CreatedAt: time.Now(),
	}
	if err := handler.CategoryStore.Create(ctx, tx, imported); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	tagDtos, err := handler.TagStore.FindByIds(ctx, tx, imported.TagIDs)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err := utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, categoryToDto(imported, tagNames(tagDtos)), http.StatusCreated)
}

// SearchPublicBookmarks matches the keyword against bookmarks carrying a tag
// that appears in at least one public category, across all users.
func (handler *CategoryHandler) SearchPublicBookmarks(ctx *gin.Context) {
	pool := handler.DatabaseManager.GetPool()
	keyword := ctx.Query(utils.KeywordParamKey)

	publicTagIds, err := handler.CategoryStore.PublicTagIds(ctx, pool)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	if len(publicTagIds) == 0 {
		utils.WriteAndLogResponse(ctx, []schemas.BookmarkDTO{}, http.StatusOK)
		return
	}

	bookmarks, err := handler.BookmarkStore.SearchPublic(ctx, pool, publicTagIds, keyword)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	bookmarkDtos, err := decorateBookmarks(ctx, pool, handler.TagStore, bookmarks)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(ctx, bookmarkDtos, http.StatusOK)
}

// buildCategoryView assembles the category together with the bookmarks of
// the category's owner that carry at least one of its tags.
func (handler *CategoryHandler) buildCategoryView(ctx *gin.Context, q interfaces.Querier,
	category schemas.Category) (*schemas.SharedCategoryDTO, error) {
	tagDtos, err := handler.TagStore.FindByIds(ctx, q, category.TagIDs)
	if err != nil {
		return nil, err
	}

	bookmarks, err := handler.BookmarkStore.ListByTagIds(ctx, q, category.UserID, category.TagIDs)
	if err != nil {
		return nil, err
	}

	bookmarkDtos, err := decorateBookmarks(ctx, q, handler.TagStore, bookmarks)
	if err != nil {
		return nil, err
	}

	return &schemas.SharedCategoryDTO{
		CategoryId: category.ID.String(),
		Title:      category.Title,
		TagNames:   tagNames(tagDtos),
		Bookmarks:  bookmarkDtos,
	}, nil
}

func categoryToDto(category schemas.Category, names []string) schemas.CategoryDTO {
	return schemas.CategoryDTO{
		CategoryId:   category.ID.String(),
		Title:        category.Title,
		TagNames:     names,
		IsPublic:     category.IsPublic,
		CreationDate: category.CreatedAt.Format(time.RFC3339),
	}
}

func tagNames(tagDtos []schemas.TagDTO) []string {
	names := make([]string, 0, len(tagDtos))
	for _, tagDto := range tagDtos {
		names = append(names, tagDto.Name)
	}

	return names
}
