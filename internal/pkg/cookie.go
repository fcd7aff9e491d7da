package pkg

import (
	"crypto/sha512"
	"errors"
	"time"

	"Lee_Forum/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrCookieInvalid = errors.New("session cookie invalid")
	ErrCookieExpired = errors.New("session cookie expired")
)

// SessionClaims cookie 载荷：SessionData 的 JSON 加上签发/过期时间
type SessionClaims struct {
	model.SessionData
	jwt.RegisteredClaims
}

// CookieSigner 用进程级对称密钥对会话 cookie 做 HS256 签名
type CookieSigner struct {
	key []byte
}

// NewCookieSigner 由配置中的种子派生 64 字节密钥
func NewCookieSigner(seed string) *CookieSigner {
	sum := sha512.Sum512([]byte(seed))
	return &CookieSigner{key: sum[:]}
}

// Sign expiresAt 为空表示会话不过期
func (s *CookieSigner) Sign(data model.SessionData, issuedAt time.Time, expiresAt *time.Time) (string, error) {
	claims := SessionClaims{
		SessionData: data,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(issuedAt),
			Subject:  "session",
		},
	}
	if expiresAt != nil {
		claims.ExpiresAt = jwt.NewNumericDate(*expiresAt)
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// Parse 校验签名并取出 SessionData，任何失败都返回错误
func (s *CookieSigner) Parse(value string) (model.SessionData, error) {
	token, err := jwt.ParseWithClaims(value, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.SessionData{}, ErrCookieExpired
		}
		return model.SessionData{}, ErrCookieInvalid
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return model.SessionData{}, ErrCookieInvalid
	}
	if claims.SessionID == "" || claims.UserID == 0 || !claims.Role.Valid() {
		return model.SessionData{}, ErrCookieInvalid
	}
	return claims.SessionData, nil
}
