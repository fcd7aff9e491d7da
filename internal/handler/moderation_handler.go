package handler

import (
	"net/http"
	"time"

	"Lee_Forum/internal/middleware"
	"Lee_Forum/internal/model"
	"Lee_Forum/internal/service"

	"github.com/gin-gonic/gin"
)

type ModerationHandler struct {
	svc *service.ModerationService
}

type DemoteReq struct {
	Reason string `form:"reason" json:"reason"`
}

// MuteReq until 为 RFC 3339 时间，留空表示解除禁言
type MuteReq struct {
	Until string `form:"until" json:"until"`
}

func NewModerationHandler(svc *service.ModerationService) *ModerationHandler {
	return &ModerationHandler{svc: svc}
}

func (h *ModerationHandler) Promote(c *gin.Context) {
	id, ok := parseID(c, "user")
	if !ok {
		return
	}
	h.done(c, h.svc.Promote(c.Request.Context(), middleware.CurrentSession(c), id, time.Now().UTC()))
}

func (h *ModerationHandler) Demote(c *gin.Context) {
	id, ok := parseID(c, "user")
	if !ok {
		return
	}
	var req DemoteReq
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, model.NewInvalidError("invalid params"))
		return
	}
	h.done(c, h.svc.Demote(c.Request.Context(), middleware.CurrentSession(c), id, req.Reason, time.Now().UTC()))
}

func (h *ModerationHandler) Mute(c *gin.Context) {
	id, ok := parseID(c, "user")
	if !ok {
		return
	}
	var req MuteReq
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, model.NewInvalidError("invalid params"))
		return
	}
	var until *time.Time
	if req.Until != "" {
		t, err := time.Parse(time.RFC3339, req.Until)
		if err != nil {
			respondError(c, model.NewInvalidError("until must be RFC 3339"))
			return
		}
		t = t.UTC()
		until = &t
	}
	h.done(c, h.svc.Mute(c.Request.Context(), middleware.CurrentSession(c), id, until))
}

func (h *ModerationHandler) Ban(c *gin.Context) {
	id, ok := parseID(c, "user")
	if !ok {
		return
	}
	h.done(c, h.svc.Ban(c.Request.Context(), middleware.CurrentSession(c), id, time.Now().UTC()))
}

func (h *ModerationHandler) Unban(c *gin.Context) {
	id, ok := parseID(c, "user")
	if !ok {
		return
	}
	h.done(c, h.svc.Unban(c.Request.Context(), middleware.CurrentSession(c), id))
}

// History 历任版主记录
func (h *ModerationHandler) History(c *gin.Context) {
	id, ok := parseID(c, "user")
	if !ok {
		return
	}
	list, err := h.svc.History(c.Request.Context(), middleware.CurrentSession(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": id, "past_moderators": list})
}

func (h *ModerationHandler) done(c *gin.Context, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
