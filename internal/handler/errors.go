package handler

import (
	"net/http"
	"strconv"

	"Lee_Forum/internal/middleware"
	"Lee_Forum/internal/model"
	"Lee_Forum/internal/pkg"

	"github.com/gin-gonic/gin"
)

// respondError 内部错误带 request_id 记录日志，响应体只有状态行
func respondError(c *gin.Context, err error) {
	ae := model.AsAppError(err)
	status := ae.HTTPStatus()
	if status >= http.StatusInternalServerError {
		pkg.Logger.ErrorContext(c.Request.Context(), "request failed", "error", ae.Error())
	} else {
		pkg.Logger.DebugContext(c.Request.Context(), "request rejected", "kind", ae.Kind, "error", ae.Error())
	}
	c.Header("Cache-Control", "no-store")
	c.String(status, "%s", middleware.StatusLine(status))
}

// parseID 路径参数非法时按不存在处理
func parseID(c *gin.Context, resource string) (uint64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, model.NewNotFoundError(resource, raw))
		return 0, false
	}
	return id, true
}

// NotFound 未匹配路由
func NotFound(c *gin.Context) {
	c.String(http.StatusNotFound, "%s", middleware.StatusLine(http.StatusNotFound))
}
