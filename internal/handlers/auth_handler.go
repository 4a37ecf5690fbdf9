// Package handlers implements the handlers for the different routes of the server to handle the incoming HTTP requests.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"bookmark-server/internal/managers"
	"bookmark-server/internal/schemas"
	"bookmark-server/internal/stores"
	"bookmark-server/internal/utils"
)

var errTransaction = errors.New("error beginning transaction")

// AuthHdl defines the interface for handling authentication-related HTTP requests.
type AuthHdl interface {
	Login(c *gin.Context)
	RefreshToken(c *gin.Context)
}

// AuthHandler provides methods to handle authentication-related HTTP requests.
type AuthHandler struct {
	DatabaseManager managers.DatabaseMgr
	JWTManager      managers.JWTMgr
	SessionStore    stores.SessionStore
}

// NewAuthHandler returns a new AuthHandler with the provided managers.
func NewAuthHandler(databaseManager *managers.DatabaseMgr, jwtManager *managers.JWTMgr, sessionStore stores.SessionStore) AuthHdl {
	return &AuthHandler{
		DatabaseManager: *databaseManager,
		JWTManager:      *jwtManager,
		SessionStore:    sessionStore,
	}
}

// Login verifies the credentials, issues a fresh token pair and stores the
// refresh token as the user's single active session.
func (handler *AuthHandler) Login(ctx *gin.Context) {
	tx := utils.BeginTransaction(ctx, handler.DatabaseManager.GetPool())
	if tx == nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, errTransaction)
		return
	}
	defer utils.RollbackTransaction(ctx, tx)

	loginRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.LoginRequest)

	queryString := "SELECT user_id, email, nickname, password FROM bookmark_schema.users WHERE email = $1"
	row := tx.QueryRow(ctx, queryString, loginRequest.Email)

	var userId uuid.UUID
	var email, nickname, hashedPassword string
	if err := row.Scan(&userId, &email, &nickname, &hashedPassword); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.EmailNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(loginRequest.Password)); err != nil {
		utils.WriteAndLogError(ctx, schemas.InvalidCredentials, http.StatusUnauthorized, err)
		return
	}

	tokenDto, err := generateTokenPair(handler.JWTManager, userId.String(), nickname)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	session := schemas.RefreshToken{UserID: userId, Token: tokenDto.RefreshToken, CreatedAt: time.Now()}
	if err := handler.SessionStore.Save(ctx, tx, session); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err := utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	response := &schemas.LoginResponseDTO{
		Token:        tokenDto.Token,
		RefreshToken: tokenDto.RefreshToken,
		User: schemas.UserDTO{
			UserId:   userId.String(),
			Email:    email,
			Nickname: nickname,
		},
	}
	utils.WriteAndLogResponse(ctx, response, http.StatusOK)
}

// RefreshToken exchanges a valid refresh token for a new pair. The presented
// token must match the stored session exactly, and the stored session is
// rotated to the new refresh token.
func (handler *AuthHandler) RefreshToken(ctx *gin.Context) {
	tx := utils.BeginTransaction(ctx, handler.DatabaseManager.GetPool())
	if tx == nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, errTransaction)
		return
	}
	defer utils.RollbackTransaction(ctx, tx)

	refreshRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.RefreshTokenRequest)

	claims, err := handler.JWTManager.ValidateJWT(refreshRequest.RefreshToken)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InvalidToken, http.StatusUnauthorized, err)
		return
	}

	mapClaims := claims.(jwt.MapClaims)
	if mapClaims["refresh"] != "true" {
		utils.WriteAndLogError(ctx, schemas.InvalidToken, http.StatusUnauthorized, errors.New("token is not a refresh token"))
		return
	}

	userIdString := mapClaims["sub"].(string)
	nickname, _ := mapClaims["nickname"].(string)

	userId, err := uuid.Parse(userIdString)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InvalidToken, http.StatusUnauthorized, err)
		return
	}

	storedToken, err := handler.SessionStore.Get(ctx, tx, userId)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.WriteAndLogError(ctx, schemas.RefreshTokenStale, http.StatusUnauthorized, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	if storedToken != refreshRequest.RefreshToken {
		utils.WriteAndLogError(ctx, schemas.RefreshTokenStale, http.StatusUnauthorized, errors.New("presented refresh token is not the active session"))
		return
	}

	tokenDto, err := generateTokenPair(handler.JWTManager, userIdString, nickname)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	session := schemas.RefreshToken{UserID: userId, Token: tokenDto.RefreshToken, CreatedAt: time.Now()}
	if err := handler.SessionStore.Save(ctx, tx, session); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err := utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, tokenDto, http.StatusOK)
}

func generateTokenPair(jwtManager managers.JWTMgr, userId, nickname string) (*schemas.TokenPairDTO, error) {
	accessToken, err := jwtManager.GenerateJWT(userId, nickname, false)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwtManager.GenerateJWT(userId, nickname, true)
	if err != nil {
		return nil, err
	}

	return &schemas.TokenPairDTO{Token: accessToken, RefreshToken: refreshToken}, nil
}
