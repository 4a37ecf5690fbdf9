package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"bookmark-server/internal/managers"
	"bookmark-server/internal/schemas"
	"bookmark-server/internal/stores"
	"bookmark-server/internal/utils"
)

// TagHdl defines the interface for handling tag-related HTTP requests.
type TagHdl interface {
	ListTags(c *gin.Context)
	CreateTag(c *gin.Context)
	RenameTag(c *gin.Context)
	DeleteTag(c *gin.Context)
}

// TagHandler provides methods to handle tag-related HTTP requests.
type TagHandler struct {
	DatabaseManager managers.DatabaseMgr
	TagStore        stores.TagStore
}

// NewTagHandler returns a new TagHandler with the provided managers.
func NewTagHandler(databaseManager *managers.DatabaseMgr, tagStore stores.TagStore) TagHdl {
	return &TagHandler{
		DatabaseManager: *databaseManager,
		TagStore:        tagStore,
	}
}

// ListTags returns every tag of the authenticated user, newest first.
func (handler *TagHandler) ListTags(ctx *gin.Context) {
	userId := authenticatedUserId(ctx)

	tags, err := handler.TagStore.ListByUser(ctx, handler.DatabaseManager.GetPool(), userId)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(ctx, tags, http.StatusOK)
}

// CreateTag creates a single tag with an explicitly chosen name.
func (handler *TagHandler) CreateTag(ctx *gin.Context) {
	tx := utils.BeginTransaction(ctx, handler.DatabaseManager.GetPool())
	if tx == nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, errTransaction)
		return
	}
	defer utils.RollbackTransaction(ctx, tx)

	createRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.CreateTagRequest)
	userId := authenticatedUserId(ctx)

	tag, err := handler.TagStore.Create(ctx, tx, userId, createRequest.Name)
	if err != nil {
		if errors.Is(err, stores.ErrConflict) {
			utils.WriteAndLogError(ctx, schemas.TagNameTaken, http.StatusConflict, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err := utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, tag, http.StatusCreated)
}

// RenameTag changes a tag's name. Bookmarks and categories referencing the
// tag follow along, since they hold the id.
func (handler *TagHandler) RenameTag(ctx *gin.Context) {
	tx := utils.BeginTransaction(ctx, handler.DatabaseManager.GetPool())
	if tx == nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, errTransaction)
		return
	}
	defer utils.RollbackTransaction(ctx, tx)

	updateRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.UpdateTagRequest)
	userId := authenticatedUserId(ctx)

	tagId, err := uuid.Parse(ctx.Param(utils.TagIdKey))
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	tag, err := handler.TagStore.Rename(ctx, tx, userId, tagId, updateRequest.Name)
	if err != nil {
		switch {
		case errors.Is(err, stores.ErrConflict):
			utils.WriteAndLogError(ctx, schemas.TagNameTaken, http.StatusConflict, err)
		case errors.Is(err, stores.ErrNotFound):
			utils.WriteAndLogError(ctx, schemas.TagNotFound, http.StatusNotFound, err)
		default:
			utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		}
		return
	}

	if err := utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, tag, http.StatusOK)
}

// DeleteTag removes the tag and strips it from every bookmark and category
// that carries it.
func (handler *TagHandler) DeleteTag(ctx *gin.Context) {
	tx := utils.BeginTransaction(ctx, handler.DatabaseManager.GetPool())
	if tx == nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, errTransaction)
		return
	}
	defer utils.RollbackTransaction(ctx, tx)

	userId := authenticatedUserId(ctx)

	tagId, err := uuid.Parse(ctx.Param(utils.TagIdKey))
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	if err := handler.TagStore.Delete(ctx, tx, userId, tagId); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.WriteAndLogError(ctx, schemas.TagNotFound, http.StatusNotFound, err)
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

// authenticatedUserId reads the user id from the JWT claims placed in the
// context by the auth middleware.
func authenticatedUserId(ctx *gin.Context) uuid.UUID {
	claims := ctx.Value(utils.ClaimsKey.String()).(jwt.MapClaims)
	return uuid.MustParse(claims["sub"].(string))
}
