package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Lee_Forum/internal/model"
	"Lee_Forum/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieCarrierRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	carrier := NewCookieCarrier("forum_session", pkg.NewCookieSigner("0123456789abcdef0123456789abcdef"))
	data := model.SessionData{UserID: 7, SessionID: "abc", Role: model.RoleModerator}

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, carrier.Attach(c, data, time.Now(), nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "forum_session", cookies[0].Name)
	assert.True(t, cookies[0].Secure)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
	assert.Zero(t, cookies[0].MaxAge)

	c2, _ := gin.CreateTestContext(httptest.NewRecorder())
	c2.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c2.Request.AddCookie(&http.Cookie{Name: "forum_session", Value: cookies[0].Value})
	got := carrier.Load(c2)
	require.NotNil(t, got)
	assert.Equal(t, data, *got)

	// 其他密钥签发的 cookie 不被接受
	other := NewCookieCarrier("forum_session", pkg.NewCookieSigner("another-key-another-key-another-key"))
	assert.Nil(t, other.Load(c2))
}

func TestCurrentSessionDefaultsToAnonymous(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.True(t, CurrentSession(c).IsAnonymous())
}

func TestRequireLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", RequireLogin(), func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "403 forbidden", rec.Body.String())
}

func TestRequestIDHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "%s", pkg.RequestID(c.Request.Context())) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	rid := rec.Header().Get(RequestIDHeader)
	assert.Len(t, rid, 36)
	assert.Equal(t, rid, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "9b2f4f8e-8b7a-4c55-9f3c-0d8a1e7b6c5d")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "9b2f4f8e-8b7a-4c55-9f3c-0d8a1e7b6c5d", rec.Header().Get(RequestIDHeader))
}
