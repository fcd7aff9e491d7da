package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"Lee_Forum/internal/model"
	"Lee_Forum/internal/pkg"
	"Lee_Forum/internal/repository/mysql"

	"gorm.io/gorm"
)

const (
	MaxUsernameLen    = 64
	MinPasswordLength = 8
)

// AuthService 凭据校验与注册，哈希计算都放到 WorkerPool 里
type AuthService struct {
	users  *mysql.UserRepository
	hasher *pkg.PasswordHasher
	pool   *pkg.WorkerPool
}

func NewAuthService(db *gorm.DB, hasher *pkg.PasswordHasher, pool *pkg.WorkerPool) *AuthService {
	return &AuthService{
		users:  &mysql.UserRepository{DB: db},
		hasher: hasher,
		pool:   pool,
	}
}

// Verify 返回 (user id, 是否通过)。用户不存在或没有密码时仍做一次哑校验，耗时与正常校验一致
func (s *AuthService) Verify(ctx context.Context, username, password string) (uint64, bool, error) {
	cred, err := s.users.FindCredential(ctx, username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, model.NewInternalError(err)
	}
	if cred == nil || cred.Password == nil {
		_, err = pkg.Submit(ctx, s.pool, func() (struct{}, error) {
			s.hasher.VerifyDummy(password)
			return struct{}{}, nil
		})
		if err != nil {
			return 0, false, model.NewInternalError(err)
		}
		return 0, false, nil
	}

	encoded := *cred.Password
	ok, err := pkg.Submit(ctx, s.pool, func() (bool, error) {
		return s.hasher.Verify(password, encoded)
	})
	if err != nil {
		if errors.Is(err, pkg.ErrMalformedHash) {
			pkg.Logger.ErrorContext(ctx, "stored password hash is malformed", "user_id", cred.ID)
		}
		return 0, false, model.NewInternalError(err)
	}
	if !ok {
		return 0, false, nil
	}
	if s.hasher.NeedsRehash(encoded) {
		s.rehash(ctx, cred.ID, encoded, password)
	}
	return cred.ID, true, nil
}

// rehash 把 bcrypt 或旧参数的哈希升级为当前 argon2id 配置，失败只记日志
func (s *AuthService) rehash(ctx context.Context, userID uint64, oldHash, password string) {
	hash, err := pkg.Submit(ctx, s.pool, func() (string, error) {
		return s.hasher.Hash(password)
	})
	if err == nil {
		err = s.users.UpdatePassword(ctx, userID, oldHash, hash)
	}
	if err != nil {
		pkg.Logger.WarnContext(ctx, "password rehash failed", "user_id", userID, "error", err)
	}
}

// Register 注册新用户，用户名重复返回 Conflict
func (s *AuthService) Register(ctx context.Context, username, password string, now time.Time) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > MaxUsernameLen {
		return nil, model.NewInvalidError("username must be 1-64 characters")
	}
	if len(password) < MinPasswordLength {
		return nil, model.NewInvalidError("password too short")
	}

	hash, err := pkg.Submit(ctx, s.pool, func() (string, error) {
		return s.hasher.Hash(password)
	})
	if err != nil {
		return nil, model.NewInternalError(err)
	}

	user := &model.User{Name: username, Password: &hash, CreatedAt: now}
	if err = s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, model.NewConflictError("username already taken")
		}
		return nil, model.NewInternalError(err)
	}
	return user, nil
}

// TouchLastSeen 登录成功后记录时间，失败只打日志
func (s *AuthService) TouchLastSeen(ctx context.Context, userID uint64, now time.Time) {
	if err := s.users.TouchLastSeen(ctx, userID, now); err != nil {
		pkg.Logger.WarnContext(ctx, "update last_seen_at failed", "user_id", userID, "error", err)
	}
}
