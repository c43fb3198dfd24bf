package middleware

import (
	"fmt"

	"bogo-backend/internal/shared/response"
	"bogo-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Recovery converts panics into a 500 response envelope
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error(
					fmt.Sprintf("panic recovered (request_id=%s)", c.GetString("request_id")),
					fmt.Errorf("%v", rec),
				)
				response.InternalServerError(c, "Internal server error")
				c.Abort()
			}
		}()

		c.Next()
	}
}
