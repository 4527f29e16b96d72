package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger registra cada petición como "METHOD :- scheme://host/uri".
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}

		log.Info(fmt.Sprintf("%s :- %s://%s%s", c.Request.Method, scheme, c.Request.Host, c.Request.RequestURI),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
