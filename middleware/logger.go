package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger пишет одну строку на запрос
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Printf("[REQ] id=%s %s %s status=%d dur=%s",
			c.GetString(RequestIDKey), c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
