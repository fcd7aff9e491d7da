package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Lee_Forum/internal/config"
	"Lee_Forum/internal/pkg"
	"Lee_Forum/internal/repository/mysql"
	"Lee_Forum/internal/repository/redis"
	"Lee_Forum/internal/router"
	"Lee_Forum/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "", "path to configuration.toml")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		pkg.Logger.Error("load config failed", "error", err)
		os.Exit(1)
	}
	pkg.InitLogger(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	gin.SetMode(gin.ReleaseMode)

	if err = mysql.InitDB(mysql.Options{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.Connection,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	}); err != nil {
		pkg.Logger.Error("init database failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// redis 可选，只做会话校验缓存
	var (
		cache *redis.SessionCacheRepository
		lock  *redis.DistLock
	)
	if cfg.Redis.Addr != "" {
		if err = redis.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
			pkg.Logger.Error("init redis failed", "error", err)
			os.Exit(1)
		}
		defer redis.Close()
		cache = redis.NewSessionCacheRepository(redis.Client, cfg.Session.CacheTTL)
		lock = &redis.DistLock{RDB: redis.Client}
	}

	var sender service.Sender = service.LogSender
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
		if err != nil {
			pkg.Logger.Error("init kafka failed", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}
	go service.NewOutboxRelayer(mysql.DB, sender).WithLock(lock).Run(ctx)
	go service.NewPostCountReconciler(mysql.DB).WithLock(lock).Run(ctx)

	hasher, err := pkg.NewPasswordHasher(pkg.PasswordConfig{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
	})
	if err != nil {
		pkg.Logger.Error("init password hasher failed", "error", err)
		os.Exit(1)
	}

	store := service.NewSessionStore(mysql.DB, cache)
	go service.NewSessionSweeper(store, cfg.Session.SweepInterval).WithLock(lock).Run(ctx)

	r := router.InitRouter(router.Deps{
		DB:         mysql.DB,
		Store:      store,
		Signer:     pkg.NewCookieSigner(cfg.SigningKey),
		Hasher:     hasher,
		Pool:       pkg.NewWorkerPool(cfg.Password.Workers),
		CookieName: cfg.SessionCookieName,
		SessionTTL: cfg.Session.TTL,
	})

	srv := &http.Server{Addr: cfg.Addr(), Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	pkg.Logger.Info("forum listening", "addr", cfg.Addr())
	if err = srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		pkg.Logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
