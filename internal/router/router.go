package router

import (
	"time"

	"Lee_Forum/internal/handler"
	"Lee_Forum/internal/middleware"
	"Lee_Forum/internal/pkg"
	"Lee_Forum/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Deps 路由依赖，由 main 组装
type Deps struct {
	DB         *gorm.DB
	Store      *service.SessionStore
	Signer     *pkg.CookieSigner
	Hasher     *pkg.PasswordHasher
	Pool       *pkg.WorkerPool
	CookieName string
	SessionTTL time.Duration
}

func InitRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.StructuredLogger(), middleware.Metrics())

	carrier := middleware.NewCookieCarrier(d.CookieName, d.Signer)
	user := handler.NewUserHandler(service.NewAuthService(d.DB, d.Hasher, d.Pool), carrier, d.SessionTTL)
	topic := handler.NewTopicHandler(service.NewTopicService(d.DB))
	moderation := handler.NewModerationHandler(service.NewModerationService(d.DB))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(handler.NotFound)

	site := r.Group("/")
	site.Use(middleware.SessionMiddleware(carrier, d.Store))
	{
		site.GET("/", user.Index)
		site.GET("/login", user.LoginForm)
		site.POST("/login", user.Login)
		site.GET("/logout", user.Logout)
		site.POST("/register", user.Register)

		site.POST("/topics", topic.CreateTopic)
		site.GET("/topics/:id", topic.GetTopic)
		site.GET("/posts/:id", topic.GetPost)
	}

	// 登录态接口
	authed := site.Group("/")
	authed.Use(middleware.RequireLogin())
	{
		authed.POST("/topics/:id/posts", topic.Reply)
		authed.DELETE("/topics/:id", topic.DeleteTopic)
		authed.DELETE("/posts/:id", topic.DeletePost)
	}

	// 管理接口
	modGroup := authed.Group("/moderation/users/:id")
	{
		modGroup.POST("/promote", moderation.Promote)
		modGroup.POST("/demote", moderation.Demote)
		modGroup.POST("/mute", moderation.Mute)
		modGroup.POST("/ban", moderation.Ban)
		modGroup.POST("/unban", moderation.Unban)
		modGroup.GET("/history", moderation.History)
	}

	return r
}
