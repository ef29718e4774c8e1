package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/resumid-ai/resumid/app/core"
	"github.com/resumid-ai/resumid/app/response"
	"github.com/resumid-ai/resumid/pkg/i18n"
)

func I18n() gin.HandlerFunc {
	var allowList []string
	for k := range i18n.ALLOW_LANG {
		allowList = append(allowList, k)
	}
	l := i18n.NewLocalizer(allowList...)

	return response.ProvideResponseLocalizer(l)
}

func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Accept-Language")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Observe records per-route response time and error counts.
func Observe(core *core.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		core.Metrics().ApiResponseTime(route, time.Since(start))
		if c.Writer.Status() >= http.StatusBadRequest {
			core.Metrics().ApiErrorInc(c.Request.Method, route, c.Writer.Status())
		}
	}
}
