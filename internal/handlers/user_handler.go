package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"bookmark-server/internal/managers"
	"bookmark-server/internal/schemas"
	"bookmark-server/internal/stores"
	"bookmark-server/internal/utils"
)

// UserHdl defines the interface for handling user-related HTTP requests.
type UserHdl interface {
	Signup(c *gin.Context)
}

// UserHandler provides methods to handle user-related HTTP requests.
type UserHandler struct {
	DatabaseManager   managers.DatabaseMgr
	JWTManager        managers.JWTMgr
	SessionStore      stores.SessionStore
	VerificationStore stores.VerificationStore
}

// NewUserHandler returns a new UserHandler with the provided managers.
func NewUserHandler(databaseManager *managers.DatabaseMgr, jwtManager *managers.JWTMgr,
	sessionStore stores.SessionStore, verificationStore stores.VerificationStore) UserHdl {
	return &UserHandler{
		DatabaseManager:   *databaseManager,
		JWTManager:        *jwtManager,
		SessionStore:      sessionStore,
		VerificationStore: verificationStore,
	}
}

// Signup registers a new account. The email must have completed code
// verification beforehand and must not belong to an existing account. On
// success the pending verification record is consumed and a token pair is
// issued right away.
func (handler *UserHandler) Signup(ctx *gin.Context) {
	tx := utils.BeginTransaction(ctx, handler.DatabaseManager.GetPool())
	if tx == nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, errTransaction)
		return
	}
	defer utils.RollbackTransaction(ctx, tx)

	signupRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.SignupRequest)

	queryString := "SELECT user_id FROM bookmark_schema.users WHERE email = $1"
	var existingId uuid.UUID
	err := tx.QueryRow(ctx, queryString, signupRequest.Email).Scan(&existingId)
	if err == nil {
		utils.WriteAndLogError(ctx, schemas.EmailTaken, http.StatusConflict, errors.New("email already registered"))
		return
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	verification, err := handler.VerificationStore.Get(ctx, tx, signupRequest.Email)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.WriteAndLogError(ctx, schemas.EmailNotVerified, http.StatusBadRequest, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	if !verification.Verified {
		utils.WriteAndLogError(ctx, schemas.EmailNotVerified, http.StatusBadRequest, errors.New("email has not completed code verification"))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(signupRequest.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	userId := uuid.New()
	createdAt := time.Now()

	queryString = "INSERT INTO bookmark_schema.users (user_id, email, password, nickname, verified, created_at) VALUES ($1, $2, $3, $4, TRUE, $5)"
	if _, err := tx.Exec(ctx, queryString, userId, signupRequest.Email, string(hashedPassword), signupRequest.Nickname, createdAt); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err := handler.VerificationStore.Consume(ctx, tx, signupRequest.Email); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	tokenDto, err := generateTokenPair(handler.JWTManager, userId.String(), signupRequest.Nickname)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	session := schemas.RefreshToken{UserID: userId, Token: tokenDto.RefreshToken, CreatedAt: createdAt}
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
			Email:    signupRequest.Email,
			Nickname: signupRequest.Nickname,
		},
	}
	utils.WriteAndLogResponse(ctx, response, http.StatusCreated)
}
