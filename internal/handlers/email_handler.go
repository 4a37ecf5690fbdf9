package handlers

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"bookmark-server/internal/managers"
	"bookmark-server/internal/schemas"
	"bookmark-server/internal/stores"
	"bookmark-server/internal/utils"
)

const verificationCodeLifetime = 5 * time.Minute

// EmailHdl defines the interface for handling email-verification HTTP requests.
type EmailHdl interface {
	SendCode(c *gin.Context)
	VerifyCode(c *gin.Context)
}

// EmailHandler provides methods to handle email-verification HTTP requests.
type EmailHandler struct {
	DatabaseManager   managers.DatabaseMgr
	MailManager       managers.MailMgr
	VerificationStore stores.VerificationStore
	Validator         *utils.Validator
}

// NewEmailHandler returns a new EmailHandler with the provided managers.
func NewEmailHandler(databaseManager *managers.DatabaseMgr, mailManager *managers.MailMgr,
	verificationStore stores.VerificationStore) EmailHdl {
	return &EmailHandler{
		DatabaseManager:   *databaseManager,
		MailManager:       *mailManager,
		VerificationStore: verificationStore,
		Validator:         utils.GetValidator(),
	}
}

// SendCode generates a six-digit code for the address, mails it and stores
// the pending verification. A repeated request replaces the previous code.
func (handler *EmailHandler) SendCode(ctx *gin.Context) {
	tx := utils.BeginTransaction(ctx, handler.DatabaseManager.GetPool())
	if tx == nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, errTransaction)
		return
	}
	defer utils.RollbackTransaction(ctx, tx)

	sendCodeRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.SendCodeRequest)

	if os.Getenv("ENVIRONMENT") == "production" {
		if !handler.Validator.VerifyEmail(sendCodeRequest.Email) {
			utils.WriteAndLogError(ctx, schemas.EmailUnreachable, http.StatusBadRequest, errors.New("email address failed reachability check"))
			return
		}
	}

	code, err := generateVerificationCode()
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	verification := schemas.EmailVerification{
		Email:     sendCodeRequest.Email,
		Code:      code,
		ExpiresAt: time.Now().Add(verificationCodeLifetime),
	}
	if err := handler.VerificationStore.Save(ctx, tx, verification); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err := utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	// The mail goes out only after the code is committed, so a mailed code
	// always verifies. A send failure leaves a stored code behind; the next
	// request replaces it.
	if err := handler.MailManager.SendVerificationMail(sendCodeRequest.Email, code); err != nil {
		utils.WriteAndLogError(ctx, schemas.EmailNotSent, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.MessageDTO{Message: "verification code sent"}, http.StatusOK)
}

// VerifyCode checks the submitted code against the pending verification and
// marks the address verified on a match.
func (handler *EmailHandler) VerifyCode(ctx *gin.Context) {
	tx := utils.BeginTransaction(ctx, handler.DatabaseManager.GetPool())
	if tx == nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, errTransaction)
		return
	}
	defer utils.RollbackTransaction(ctx, tx)

	verifyCodeRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.VerifyCodeRequest)

	verification, err := handler.VerificationStore.Get(ctx, tx, verifyCodeRequest.Email)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.WriteAndLogError(ctx, schemas.CodeMismatch, http.StatusBadRequest, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if verification.Code != verifyCodeRequest.Code {
		utils.WriteAndLogError(ctx, schemas.CodeMismatch, http.StatusBadRequest, errors.New("submitted code does not match"))
		return
	}
	if time.Now().After(verification.ExpiresAt) {
		utils.WriteAndLogError(ctx, schemas.CodeExpired, http.StatusBadRequest, errors.New("verification code expired"))
		return
	}

	if err := handler.VerificationStore.MarkVerified(ctx, tx, verifyCodeRequest.Email); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err := utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.MessageDTO{Message: "email verified"}, http.StatusOK)
}

func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}
