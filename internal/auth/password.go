package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/frahmantamala/timesheet-management/internal"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	AlgorithmArgon2id = "argon2id"
	AlgorithmBcrypt   = "bcrypt"

	DefaultSaltLength = 16
)

var ErrInvalidHash = errors.New("invalid password hash format")

// PasswordHasher turns a plaintext password and a per-user salt into the stored credential.
type PasswordHasher interface {
	NewSalt() (string, error)
	Hash(password, salt string) (string, error)
	Verify(hash, password, salt string) bool
}

// NewHasher builds the hasher selected in the security config.
func NewHasher(cfg internal.PasswordConfig) (PasswordHasher, error) {
	saltLength := cfg.SaltLength
	if saltLength <= 0 {
		saltLength = DefaultSaltLength
	}

	switch strings.ToLower(cfg.Algorithm) {
	case "", AlgorithmArgon2id:
		return &Argon2Hasher{
			Time:       defaultUint32(cfg.Argon2Time, 1),
			MemoryKiB:  defaultUint32(cfg.Argon2MemoryKiB, 64*1024),
			Threads:    defaultUint8(cfg.Argon2Threads, 4),
			KeyLength:  defaultUint32(cfg.Argon2KeyLength, 32),
			SaltLength: saltLength,
		}, nil
	case AlgorithmBcrypt:
		cost := cfg.BcryptCost
		if cost == 0 {
			cost = bcrypt.DefaultCost
		}
		return &BcryptHasher{Cost: cost, SaltLength: saltLength}, nil
	default:
		return nil, fmt.Errorf("unsupported password algorithm %q", cfg.Algorithm)
	}
}

// Argon2Hasher derives an argon2id key. The output embeds the parameters it was
// produced with, so stored hashes stay verifiable after a config change.
type Argon2Hasher struct {
	Time       uint32
	MemoryKiB  uint32
	Threads    uint8
	KeyLength  uint32
	SaltLength int
}

func (h *Argon2Hasher) NewSalt() (string, error) {
	return GenerateRandomToken(h.SaltLength)
}

func (h *Argon2Hasher) Hash(password, salt string) (string, error) {
	if salt == "" {
		return "", errors.New("salt is required")
	}
	key := argon2.IDKey([]byte(password), []byte(salt), h.Time, h.MemoryKiB, h.Threads, h.KeyLength)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s",
		argon2.Version, h.MemoryKiB, h.Time, h.Threads,
		base64.RawStdEncoding.EncodeToString(key)), nil
}

func (h *Argon2Hasher) Verify(hash, password, salt string) bool {
	params, key, err := decodeArgon2Hash(hash)
	if err != nil {
		return false
	}
	candidate := argon2.IDKey([]byte(password), []byte(salt), params.Time, params.MemoryKiB, params.Threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, candidate) == 1
}

func decodeArgon2Hash(hash string) (*Argon2Hasher, []byte, error) {
	parts := strings.Split(hash, "$")
	if len(parts) != 5 || parts[1] != AlgorithmArgon2id {
		return nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, ErrInvalidHash
	}
	if version != argon2.Version {
		return nil, nil, fmt.Errorf("%w: unsupported argon2 version %d", ErrInvalidHash, version)
	}

	params := &Argon2Hasher{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.MemoryKiB, &params.Time, &params.Threads); err != nil {
		return nil, nil, ErrInvalidHash
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(key) == 0 {
		return nil, nil, ErrInvalidHash
	}
	return params, key, nil
}

// BcryptHasher mixes the salt into a sha256 pre-hash, keeping the bcrypt input
// under its 72 byte limit. bcrypt adds its own salt, so Hash is not repeatable;
// use Verify to compare.
type BcryptHasher struct {
	Cost       int
	SaltLength int
}

func (h *BcryptHasher) NewSalt() (string, error) {
	return GenerateRandomToken(h.SaltLength)
}

func (h *BcryptHasher) Hash(password, salt string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(prehash(password, salt), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(hash, password, salt string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(password, salt)) == nil
}

func prehash(password, salt string) []byte {
	sum := sha256.Sum256([]byte(salt + ":" + password))
	return []byte(hex.EncodeToString(sum[:]))
}

// GenerateRandomToken returns n cryptographically secure random bytes, hex encoded.
func GenerateRandomToken(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func defaultUint32(v, fallback uint32) uint32 {
	if v == 0 {
		return fallback
	}
	return v
}

func defaultUint8(v, fallback uint8) uint8 {
	if v == 0 {
		return fallback
	}
	return v
}
