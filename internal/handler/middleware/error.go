package middleware

import (
	"log/slog"
	"net/http"

	"venue-reservation/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

// ErrorHandler writes the body for handlers that recorded an error but returned
// without responding.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}
		last := c.Errors.Last()
		if resp, ok := last.Meta.(httperr.Response); ok && last.IsType(gin.ErrorTypePublic) {
			c.JSON(resp.Status, resp)
			return
		}

		slog.Error("unhandled request error",
			"error", last.Error(),
			"path", c.FullPath(),
			"request_id", GetRequestID(c))
		resp := httperr.Internal()
		c.JSON(resp.Status, resp)
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("recovered from panic",
					"error", rec,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"request_id", GetRequestID(c))

				resp := httperr.Internal()
				c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
			}
		}()
		c.Next()
	}
}
