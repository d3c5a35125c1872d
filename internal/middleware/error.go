package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const unexpectedErrorMessage = "An unexpected error occurred on our end.  Please try again later."

// ErrorResponse is the body sent for failures nobody handled
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func unexpected() ErrorResponse {
	return ErrorResponse{Code: "UNEXPECTED_ERROR", Message: unexpectedErrorMessage}
}

// ErrorHandler recovers panics and answers errors attached with c.Error that
// no handler turned into a response
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic while handling request",
					zap.Any("panic", rec),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, unexpected())
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		for _, e := range c.Errors {
			log.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(e.Err))
		}
		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, unexpected())
		}
	}
}
