// package utils provides utility functions to support various operations within the application.
package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookmark-server/internal/schemas"
)

// WriteAndLogResponse encodes the response object to JSON and writes it to the HTTP response.
// It also sets the provided status code.
func WriteAndLogResponse(ctx *gin.Context, response interface{}, statusCode int) {
	LogMessageWithFields(ctx, "info", "Returning response")
	ctx.JSON(statusCode, response)
}

// WriteAndLogError logs the provided error and sends the uniform error
// envelope with the specified status code and error details.
func WriteAndLogError(ctx *gin.Context, customErr *schemas.CustomError, statusCode int, err error) {
	LogMessageWithFields(ctx, "error", "Error occurred: "+err.Error())
	LogMessageWithFields(ctx, "error", "Returning "+http.StatusText(statusCode)+" / "+customErr.Message)

	errorDto := &schemas.ErrorDTO{
		Timestamp: time.Now().Format(time.RFC3339),
		Status:    statusCode,
		Error:     http.StatusText(statusCode),
		Message:   customErr.Message,
	}
	ctx.JSON(statusCode, errorDto)
}
