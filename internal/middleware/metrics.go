package middleware

import (
	"strconv"
	"time"

	"Lee_Forum/internal/pkg"

	"github.com/gin-gonic/gin"
)

// Metrics 按路由模板统计，未匹配路由归到 "unmatched" 避免标签爆炸
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		pkg.RequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		pkg.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
