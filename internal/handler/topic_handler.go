package handler

import (
	"net/http"
	"time"

	"Lee_Forum/internal/middleware"
	"Lee_Forum/internal/model"
	"Lee_Forum/internal/pkg"
	"Lee_Forum/internal/service"

	"github.com/gin-gonic/gin"
)

type TopicHandler struct {
	svc *service.TopicService
}

// CreateTopicReq public 缺省为 true
type CreateTopicReq struct {
	Title  string `form:"title" json:"title"`
	Body   string `form:"body" json:"body"`
	Public *bool  `form:"public" json:"public"`
}

type ReplyReq struct {
	Body   string `form:"body" json:"body"`
	Public *bool  `form:"public" json:"public"`
}

func NewTopicHandler(svc *service.TopicService) *TopicHandler {
	return &TopicHandler{svc: svc}
}

// CreateTopic 创建主题和 1 楼
func (h *TopicHandler) CreateTopic(c *gin.Context) {
	var req CreateTopicReq
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, model.NewInvalidError("invalid params"))
		return
	}
	topic, post, err := h.svc.CreateTopic(c.Request.Context(), middleware.CurrentSession(c),
		req.Title, publicOrDefault(req.Public), req.Body, time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"topic_id": topic.ID, "post_id": post.ID})
}

// GetTopic ?page=n，每页 10 楼
func (h *TopicHandler) GetTopic(c *gin.Context) {
	id, ok := parseID(c, "topic")
	if !ok {
		return
	}
	var page pkg.Pagination
	if err := c.ShouldBindQuery(&page); err != nil || !page.Valid() {
		respondError(c, model.NewInvalidError("invalid page"))
		return
	}
	view, err := h.svc.GetTopic(c.Request.Context(), middleware.CurrentSession(c), id, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *TopicHandler) Reply(c *gin.Context) {
	id, ok := parseID(c, "topic")
	if !ok {
		return
	}
	var req ReplyReq
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, model.NewInvalidError("invalid params"))
		return
	}
	post, err := h.svc.Reply(c.Request.Context(), middleware.CurrentSession(c), id,
		req.Body, publicOrDefault(req.Public), time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *TopicHandler) GetPost(c *gin.Context) {
	id, ok := parseID(c, "post")
	if !ok {
		return
	}
	post, err := h.svc.GetPost(c.Request.Context(), middleware.CurrentSession(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeletePost 软删除，重复删除也返回 204
func (h *TopicHandler) DeletePost(c *gin.Context) {
	id, ok := parseID(c, "post")
	if !ok {
		return
	}
	if err := h.svc.DeletePost(c.Request.Context(), middleware.CurrentSession(c), id, time.Now().UTC()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TopicHandler) DeleteTopic(c *gin.Context) {
	id, ok := parseID(c, "topic")
	if !ok {
		return
	}
	if err := h.svc.DeleteTopic(c.Request.Context(), middleware.CurrentSession(c), id, time.Now().UTC()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func publicOrDefault(p *bool) bool {
	if p == nil {
		return true
	}
	return *p
}
