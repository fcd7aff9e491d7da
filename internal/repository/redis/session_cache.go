package redis

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	SessionKeyPrefix = "session:verify"
	DefaultCacheTTL  = 30 * time.Second

	revoked = "-" // 撤销标记，阻止并发回填
)

// SessionCacheRepository 已校验会话的短期缓存，数据库仍是权威来源
type SessionCacheRepository struct {
	RDB *redis.Client
	ttl time.Duration
}

func NewSessionCacheRepository(rdb *redis.Client, ttl time.Duration) *SessionCacheRepository {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &SessionCacheRepository{RDB: rdb, ttl: ttl}
}

func (r *SessionCacheRepository) key(digest []byte) string {
	return fmt.Sprintf("%s:%s", SessionKeyPrefix, hex.EncodeToString(digest))
}

// entryTTL 缓存不超过会话本身的过期时间，返回 0 表示不应缓存
func (r *SessionCacheRepository) entryTTL(expiresAt *time.Time, now time.Time) time.Duration {
	if expiresAt == nil {
		return r.ttl
	}
	left := expiresAt.Sub(now)
	if left <= 0 {
		return 0
	}
	return min(left, r.ttl)
}

// Put 新建会话后写入缓存
func (r *SessionCacheRepository) Put(ctx context.Context, digest []byte, userID uint64, expiresAt *time.Time, now time.Time) error {
	ttl := r.entryTTL(expiresAt, now)
	if ttl == 0 {
		return nil
	}
	return r.RDB.Set(ctx, r.key(digest), userID, ttl).Err()
}

// Lookup 返回 (是否有效, 是否命中)
func (r *SessionCacheRepository) Lookup(ctx context.Context, digest []byte, userID uint64) (bool, bool, error) {
	val, err := r.RDB.Get(ctx, r.key(digest)).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	if val == revoked {
		return false, true, nil
	}
	uid, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return false, false, nil
	}
	return uid == userID, true, nil
}

// Fill 查库命中后回填；已有撤销标记时不覆盖
func (r *SessionCacheRepository) Fill(ctx context.Context, digest []byte, userID uint64, expiresAt *time.Time, now time.Time) error {
	ttl := r.entryTTL(expiresAt, now)
	if ttl == 0 {
		return nil
	}
	return r.RDB.SetNX(ctx, r.key(digest), userID, ttl).Err()
}

// Revoke 删除会话后写入撤销标记，在 ttl 内拦截旧的回填
func (r *SessionCacheRepository) Revoke(ctx context.Context, digest []byte) error {
	return r.RDB.Set(ctx, r.key(digest), revoked, r.ttl).Err()
}
