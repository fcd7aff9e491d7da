package service

import (
	"context"
	"errors"
	"time"

	"Lee_Forum/internal/model"
	"Lee_Forum/internal/pkg"
	"Lee_Forum/internal/repository/mysql"
	"Lee_Forum/internal/repository/redis"

	"gorm.io/gorm"
)

// SessionStore 会话表的唯一写入方，只按 session id 摘要读写；cache 可为空
type SessionStore struct {
	repo  *mysql.SessionRepository
	cache *redis.SessionCacheRepository
	roles *RoleResolver
}

func NewSessionStore(db *gorm.DB, cache *redis.SessionCacheRepository) *SessionStore {
	return &SessionStore{
		repo:  &mysql.SessionRepository{DB: db},
		cache: cache,
		roles: NewRoleResolver(db),
	}
}

// Insert 先算角色再落库，角色查询失败不会留下孤儿会话
func (s *SessionStore) Insert(ctx context.Context, userID uint64, expiresAt *time.Time, now time.Time) (model.SessionData, error) {
	role, err := s.roles.Resolve(ctx, userID, now)
	if err != nil {
		return model.SessionData{}, err
	}

	id, err := pkg.NewSessionID()
	if err != nil {
		return model.SessionData{}, model.NewInternalError(err)
	}
	digest := pkg.SessionDigest(id)
	if err = s.repo.Insert(ctx, &model.Session{ID: digest, UserID: userID, ExpiresAt: expiresAt}); err != nil {
		if errors.Is(err, mysql.ErrDigestCollision) {
			pkg.Logger.ErrorContext(ctx, "session digest collision", "user_id", userID)
		}
		return model.SessionData{}, model.NewInternalError(err)
	}

	if s.cache != nil {
		if err = s.cache.Put(ctx, digest, userID, expiresAt, now); err != nil {
			pkg.Logger.WarnContext(ctx, "session cache put failed", "error", err)
		}
	}
	pkg.SessionsIssued.Inc()
	return model.SessionData{UserID: userID, SessionID: id, Role: role}, nil
}

// Remove 删除 (摘要, user_id) 对应的行，行不存在不算错误；返回是否真正删除
func (s *SessionStore) Remove(ctx context.Context, data model.SessionData) (bool, error) {
	digest := pkg.SessionDigest(data.SessionID)
	n, err := s.repo.Delete(ctx, digest, data.UserID)
	if err != nil {
		return false, model.NewInternalError(err)
	}
	if s.cache != nil {
		// 撤销失败时缓存可能在 ttl 内仍判定有效
		if err = s.cache.Revoke(ctx, digest); err != nil {
			return n > 0, model.NewInternalError(err)
		}
	}
	return n > 0, nil
}

// Verify 行存在且未过期（没有过期时间或过期时间严格晚于 now）
func (s *SessionStore) Verify(ctx context.Context, data model.SessionData, now time.Time) (bool, error) {
	digest := pkg.SessionDigest(data.SessionID)
	if s.cache != nil {
		ok, hit, err := s.cache.Lookup(ctx, digest, data.UserID)
		if err != nil {
			pkg.Logger.WarnContext(ctx, "session cache lookup failed", "error", err)
		} else if hit {
			return ok, nil
		}
	}

	row, err := s.repo.Find(ctx, digest, data.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, model.NewInternalError(err)
	}
	if row.ExpiresAt != nil && !row.ExpiresAt.After(now) {
		return false, nil
	}

	if s.cache != nil {
		if err = s.cache.Fill(ctx, digest, data.UserID, row.ExpiresAt, now); err != nil {
			pkg.Logger.WarnContext(ctx, "session cache fill failed", "error", err)
		}
	}
	return true, nil
}

// SweepExpired 删除已过期的会话行，正确性不依赖它
func (s *SessionStore) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	return s.repo.DeleteExpired(ctx, now)
}

// SessionSweeper 定时清理过期会话
type SessionSweeper struct {
	store    *SessionStore
	lock     *redis.DistLock
	interval time.Duration
}

func NewSessionSweeper(store *SessionStore, interval time.Duration) *SessionSweeper {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &SessionSweeper{store: store, interval: interval}
}

// WithLock 多实例部署时传入分布式锁
func (w *SessionSweeper) WithLock(lock *redis.DistLock) *SessionSweeper {
	w.lock = lock
	return w
}

// Run 清理启动器
func (w *SessionSweeper) Run(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			runExclusive(ctx, w.lock, "session_sweep", w.interval, w.sweepOnce)
		}
	}
}

func (w *SessionSweeper) sweepOnce(ctx context.Context) {
	n, err := w.store.SweepExpired(ctx, time.Now().UTC())
	if err != nil {
		pkg.Logger.ErrorContext(ctx, "session sweep failed", "error", err)
		return
	}
	if n > 0 {
		pkg.Logger.InfoContext(ctx, "expired sessions removed", "count", n)
	}
}
