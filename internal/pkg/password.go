package pkg

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// ErrMalformedHash 库中保存的哈希串无法解析，属于配置/数据错误而不是密码错误
var ErrMalformedHash = errors.New("malformed password hash")

const (
	argon2ID      = "argon2id"
	minMemoryKB   = 1024
	saltLength    = 16
	keyLength     = 32
	dummyPassword = "timing-equaliser-password"
)

type PasswordConfig struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
}

// DefaultPasswordConfig argon2id 默认参数 m=19456,t=2,p=1
var DefaultPasswordConfig = PasswordConfig{Memory: 19 * 1024, Time: 2, Parallelism: 1}

// PasswordHasher 生成 argon2id PHC 串；校验时按串中声明的算法分派
type PasswordHasher struct {
	cfg   PasswordConfig
	dummy string
}

func NewPasswordHasher(cfg PasswordConfig) (*PasswordHasher, error) {
	if cfg.Memory < minMemoryKB {
		return nil, fmt.Errorf("password memory must be >= %d KB", minMemoryKB)
	}
	if cfg.Time < 1 || cfg.Parallelism < 1 {
		return nil, errors.New("password time and parallelism must be >= 1")
	}
	h := &PasswordHasher{cfg: cfg}
	dummy, err := h.Hash(dummyPassword)
	if err != nil {
		return nil, err
	}
	h.dummy = dummy
	return h, nil
}

// Hash 输出 $argon2id$v=19$m=..,t=..,p=..$salt$hash
func (h *PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(password), salt, h.cfg.Time, h.cfg.Memory, h.cfg.Parallelism, keyLength)
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2ID, argon2.Version, h.cfg.Memory, h.cfg.Time, h.cfg.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify 密码不匹配返回 false,nil；哈希串损坏返回 ErrMalformedHash
func (h *PasswordHasher) Verify(password, encoded string) (bool, error) {
	switch {
	case strings.HasPrefix(encoded, "$"+argon2ID+"$"):
		return verifyArgon2(password, encoded)
	case strings.HasPrefix(encoded, "$2a$"), strings.HasPrefix(encoded, "$2b$"), strings.HasPrefix(encoded, "$2y$"):
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
		if err == nil {
			return true, nil
		}
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	default:
		return false, fmt.Errorf("%w: unsupported algorithm", ErrMalformedHash)
	}
}

// NeedsRehash 非 argon2id 或参数与当前配置不一致时需要重新哈希
func (h *PasswordHasher) NeedsRehash(encoded string) bool {
	p, err := parseArgon2(encoded)
	if err != nil {
		return true
	}
	return p.memory != h.cfg.Memory || p.time != h.cfg.Time ||
		p.parallelism != h.cfg.Parallelism || len(p.hash) != keyLength
}

// VerifyDummy 用户不存在时消耗同样的计算量，结果总是 false
func (h *PasswordHasher) VerifyDummy(password string) {
	_, _ = verifyArgon2(password, h.dummy)
}

type phc struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	hash        []byte
}

func verifyArgon2(password, encoded string) (bool, error) {
	p, err := parseArgon2(encoded)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	key := argon2.IDKey([]byte(password), p.salt, p.time, p.memory, p.parallelism, uint32(len(p.hash)))
	return subtle.ConstantTimeCompare(key, p.hash) == 1, nil
}

func parseArgon2(encoded string) (*phc, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != argon2ID {
		return nil, errors.New("invalid PHC format")
	}
	version, err := strconv.Atoi(strings.TrimPrefix(parts[2], "v="))
	if err != nil || !strings.HasPrefix(parts[2], "v=") || version != argon2.Version {
		return nil, errors.New("unsupported argon2 version")
	}

	p := &phc{}
	var seen int
	for _, kv := range strings.Split(parts[3], ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, errors.New("invalid parameter entry")
		}
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("invalid parameter %s", k)
		}
		switch k {
		case "m":
			p.memory = uint32(n)
		case "t":
			p.time = uint32(n)
		case "p":
			if n > 255 {
				return nil, errors.New("invalid parameter p")
			}
			p.parallelism = uint8(n)
		default:
			return nil, fmt.Errorf("unsupported parameter %s", k)
		}
		seen++
	}
	if seen != 3 || p.memory == 0 || p.time == 0 || p.parallelism == 0 {
		return nil, errors.New("missing parameters")
	}

	// PHC 规范不带填充，兼容带填充的实现
	if p.salt, err = decodeB64(parts[4]); err != nil || len(p.salt) == 0 {
		return nil, errors.New("invalid salt encoding")
	}
	if p.hash, err = decodeB64(parts[5]); err != nil || len(p.hash) == 0 {
		return nil, errors.New("invalid hash encoding")
	}
	return p, nil
}

func decodeB64(s string) ([]byte, error) {
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}
