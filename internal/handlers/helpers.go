package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"placeshare/internal/apperr"
)

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] panic recovered: %v", route, r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "An unknown error ocurred"})
	}
}

// respondAppError translates any error into the uniform {"message"} body.
// If a response has already been written, the error is recorded instead of
// producing a second write.
func respondAppError(c *gin.Context, route string, err error) {
	appErr := apperr.Translate(err)
	status := appErr.Kind.Status()
	log.Printf("[%s] returning error %d: %s", route, status, appErr.Error())

	if c.Writer.Written() {
		_ = c.Error(err)
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"message": appErr.Message})
}

// respondValidationError reports binding failures as 422 with the offending
// fields folded into the message.
func respondValidationError(c *gin.Context, route string, err error) {
	message := "Invalid inputs passed, please check your data."

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			case "min":
				details = append(details, fmt.Sprintf("%s is too short", field))
			case "email":
				details = append(details, fmt.Sprintf("%s is not a valid email", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		if len(details) > 0 {
			message = fmt.Sprintf("%s (%s)", message, strings.Join(details, "; "))
		}
	}

	respondAppError(c, route, apperr.New(apperr.KindValidationFailed, message))
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
