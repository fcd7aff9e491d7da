package middleware

import (
	"net/http"
	"time"

	"Lee_Forum/internal/model"
	"Lee_Forum/internal/pkg"
	"Lee_Forum/internal/service"

	"github.com/gin-gonic/gin"
)

const ContextSessionKey = "session"

// CookieCarrier 会话数据与签名 cookie 之间的转换
type CookieCarrier struct {
	name   string
	signer *pkg.CookieSigner
}

func NewCookieCarrier(name string, signer *pkg.CookieSigner) *CookieCarrier {
	return &CookieCarrier{name: name, signer: signer}
}

func (cc *CookieCarrier) Name() string { return cc.name }

// Load 没有 cookie 或验签失败都返回 nil，不当作错误
func (cc *CookieCarrier) Load(c *gin.Context) *model.SessionData {
	value, err := c.Cookie(cc.name)
	if err != nil || value == "" {
		return nil
	}
	data, err := cc.signer.Parse(value)
	if err != nil {
		pkg.Logger.DebugContext(c.Request.Context(), "session cookie rejected", "error", err)
		return nil
	}
	return &data
}

// Attach 写入浏览器会话 cookie：SameSite=Strict、Secure、HttpOnly
func (cc *CookieCarrier) Attach(c *gin.Context, data model.SessionData, now time.Time, expiresAt *time.Time) error {
	value, err := cc.signer.Sign(data, now, expiresAt)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(cc.name, value, 0, "/", "", true, true)
	return nil
}

func (cc *CookieCarrier) Remove(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(cc.name, "", -1, "/", "", true, true)
}

// SessionMiddleware 每个请求构造 SessionHandle；cookie 对应的会话已失效时降级为匿名并清掉 cookie
func SessionMiddleware(carrier *CookieCarrier, store *service.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		data := carrier.Load(c)
		h := service.NewSessionHandle(store, data)

		if data != nil {
			ok, err := h.Verify(ctx, time.Now().UTC())
			if err != nil {
				pkg.Logger.ErrorContext(ctx, "session verification failed", "error", err)
				abortWith(c, model.AsAppError(err))
				return
			}
			if ok {
				c.Request = c.Request.WithContext(pkg.WithUserID(ctx, data.UserID))
			} else {
				h.Forget()
				carrier.Remove(c)
			}
		}

		c.Set(ContextSessionKey, h)
		c.Next()
	}
}

// CurrentSession 取出当前请求的会话，未经过中间件时视为匿名
func CurrentSession(c *gin.Context) *service.SessionHandle {
	if v, ok := c.Get(ContextSessionKey); ok {
		if h, ok := v.(*service.SessionHandle); ok {
			return h
		}
	}
	return service.NewSessionHandle(nil, nil)
}
