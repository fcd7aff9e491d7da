package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"Lee_Forum/internal/model"

	"github.com/gin-gonic/gin"
)

// RequireLogin 匿名请求直接返回 NotLoggedIn
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentSession(c).IsAnonymous() {
			abortWith(c, model.NewNotLoggedInError())
			return
		}
		c.Next()
	}
}

// StatusLine 错误响应体，只包含状态码和描述
func StatusLine(status int) string {
	return fmt.Sprintf("%d %s", status, strings.ToLower(http.StatusText(status)))
}

func abortWith(c *gin.Context, err *model.AppError) {
	status := err.HTTPStatus()
	c.Header("Cache-Control", "no-store")
	c.String(status, "%s", StatusLine(status))
	c.Abort()
}
