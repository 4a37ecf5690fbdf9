package middleware

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"

	"bookmark-server/internal/schemas"
	"bookmark-server/internal/utils"
)

// ValidateAndSanitizeStruct binds the request body into a fresh instance of
// the given payload type, sanitizes it, validates it and stores it in the
// request context for the handler.
func ValidateAndSanitizeStruct(obj interface{}) gin.HandlerFunc {
	payloadType := reflect.TypeOf(obj).Elem()

	return func(c *gin.Context) {
		payload := reflect.New(payloadType).Interface()

		if err := c.ShouldBindJSON(payload); err != nil {
			utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
			c.Abort()
			return
		}

		validator := utils.GetValidator()
		if err := validator.SanitizeData(payload); err != nil {
			utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
			c.Abort()
			return
		}

		if err := validator.Validate.Struct(payload); err != nil {
			utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
			c.Abort()
			return
		}

		// Set the sanitized object in the context
		c.Set(utils.SanitizedPayloadKey.String(), payload)
		c.Next()
	}
}
