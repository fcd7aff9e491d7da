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

const loginForm = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Log in</title></head>
<body>
<form method="post" action="/login">
<label>Username <input name="username" autocomplete="username" required></label>
<label>Password <input name="password" type="password" autocomplete="current-password" required></label>
<button type="submit">Log in</button>
</form>
</body>
</html>
`

type UserHandler struct {
	auth       *service.AuthService
	carrier    *middleware.CookieCarrier
	sessionTTL time.Duration
}

// CredentialsReq 登录/注册表单
type CredentialsReq struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// NewUserHandler sessionTTL 为 0 时会话不过期
func NewUserHandler(auth *service.AuthService, carrier *middleware.CookieCarrier, sessionTTL time.Duration) *UserHandler {
	return &UserHandler{auth: auth, carrier: carrier, sessionTTL: sessionTTL}
}

// Index 首页
func (h *UserHandler) Index(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if uid, ok := sess.UserID(); ok {
		c.String(http.StatusOK, "Hello, user %d!", uid)
		return
	}
	c.String(http.StatusOK, "Hello, Anonymous!")
}

// LoginForm 已登录返回 Forbidden
func (h *UserHandler) LoginForm(c *gin.Context) {
	ok, err := middleware.CurrentSession(c).Verify(c.Request.Context(), time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	if ok {
		respondError(c, model.NewAlreadyLoggedInError())
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(loginForm))
}

// Login 登录接口，成功后替换旧会话并跳转首页
func (h *UserHandler) Login(c *gin.Context) {
	var req CredentialsReq
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, model.NewInvalidError("invalid params"))
		return
	}
	ctx := c.Request.Context()
	now := time.Now().UTC()

	uid, ok, err := h.auth.Verify(ctx, req.Username, req.Password)
	if err != nil {
		pkg.LoginAttempts.WithLabelValues("error").Inc()
		respondError(c, err)
		return
	}
	if !ok {
		pkg.LoginAttempts.WithLabelValues("failure").Inc()
		respondError(c, model.NewUnauthorizedError("invalid credentials"))
		return
	}

	var expiresAt *time.Time
	if h.sessionTTL > 0 {
		t := now.Add(h.sessionTTL)
		expiresAt = &t
	}
	sess := middleware.CurrentSession(c)
	if err = sess.Insert(ctx, uid, expiresAt, now); err != nil {
		pkg.LoginAttempts.WithLabelValues("error").Inc()
		respondError(c, err)
		return
	}
	data, _ := sess.Data()
	if err = h.carrier.Attach(c, data, now, expiresAt); err != nil {
		respondError(c, model.NewInternalError(err))
		return
	}
	pkg.LoginAttempts.WithLabelValues("success").Inc()
	h.auth.TouchLastSeen(ctx, uid, now)
	pkg.Logger.InfoContext(pkg.WithUserID(ctx, uid), "login succeeded", "role", data.Role)

	c.Redirect(http.StatusFound, "/")
}

// Logout 幂等：匿名时也清 cookie 并跳转
func (h *UserHandler) Logout(c *gin.Context) {
	if err := middleware.CurrentSession(c).Purge(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	h.carrier.Remove(c)
	c.Redirect(http.StatusFound, "/")
}

// Register 注册接口
func (h *UserHandler) Register(c *gin.Context) {
	if !middleware.CurrentSession(c).IsAnonymous() {
		respondError(c, model.NewAlreadyLoggedInError())
		return
	}
	var req CredentialsReq
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, model.NewInvalidError("invalid params"))
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Username, req.Password, time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "name": user.Name})
}
