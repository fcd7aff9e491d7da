package pkg

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// SessionIDBytes session id 的随机字节数
const SessionIDBytes = 32

// NewSessionID 生成高熵的不透明 session id，只出现在 cookie 和内存中
func NewSessionID() (string, error) {
	b := make([]byte, SessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// SessionDigest 入库用的 sha256 摘要
func SessionDigest(sessionID string) []byte {
	sum := sha256.Sum256([]byte(sessionID))
	return sum[:]
}
