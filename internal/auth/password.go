package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	"github.com/yasinhessnawi1/password-reset-backend/internal/config"
	"github.com/yasinhessnawi1/password-reset-backend/internal/constants"
	"github.com/yasinhessnawi1/password-reset-backend/internal/utils"
)

// ErrInvalidHash is returned when a stored hash cannot be decoded.
var ErrInvalidHash = errors.New("invalid password hash format")

// Hasher turns raw passwords into opaque hashes and checks them later.
type Hasher interface {
	// Hash returns the encoded hash of password
	Hash(password string) (string, error)

	// Verify reports whether password matches the encoded hash
	Verify(password, encodedHash string) (bool, error)
}

// NewHasher returns the hasher selected by the password hash settings.
func NewHasher(cfg *config.HashSettings) (Hasher, error) {
	switch cfg.Algorithm {
	case constants.HashAlgorithmBcrypt, "":
		return NewBcryptHasher(cfg.BcryptCost), nil
	case constants.HashAlgorithmArgon2id:
		return NewArgon2Hasher(ConfigFromHashSettings(cfg)), nil
	default:
		return nil, fmt.Errorf("unsupported password hash algorithm: %s", cfg.Algorithm)
	}
}

// BcryptHasher hashes passwords with bcrypt
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher creates a bcrypt hasher. Out-of-range costs fall back to the default.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = constants.DefaultBcryptCost
	}
	return &BcryptHasher{Cost: cost}
}

// Hash generates a bcrypt hash of the password. Passwords over 72 bytes
// are a validation error.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", utils.NewValidationError("password", constants.MsgPasswordTooLong)
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify compares a password with a bcrypt hash
func (h *BcryptHasher) Verify(password, encodedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
}

// PasswordConfig holds the parameters for the Argon2id password hashing algorithm
type PasswordConfig struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultPasswordConfig returns the default configuration for Argon2id hashing
func DefaultPasswordConfig() *PasswordConfig {
	return &PasswordConfig{
		Memory:      constants.DefaultPasswordHashMemory,
		Iterations:  constants.DefaultPasswordHashIterations,
		Parallelism: constants.DefaultPasswordHashParallelism,
		SaltLength:  constants.DefaultPasswordHashSaltLength,
		KeyLength:   constants.DefaultPasswordHashKeyLength,
	}
}

// ConfigFromHashSettings creates a password config from the application config
func ConfigFromHashSettings(cfg *config.HashSettings) *PasswordConfig {
	return &PasswordConfig{
		Memory:      cfg.Memory,
		Iterations:  cfg.Iterations,
		Parallelism: cfg.Parallelism,
		SaltLength:  cfg.SaltLength,
		KeyLength:   cfg.KeyLength,
	}
}

// Argon2Hasher hashes passwords with Argon2id. The encoded form carries its
// own parameters and salt:
//
//	$argon2id$v=19$m=65536,t=3,p=2$<salt>$<hash>
type Argon2Hasher struct {
	Config *PasswordConfig
}

// NewArgon2Hasher creates an Argon2id hasher
func NewArgon2Hasher(cfg *PasswordConfig) *Argon2Hasher {
	if cfg == nil {
		cfg = DefaultPasswordConfig()
	}
	return &Argon2Hasher{Config: cfg}
}

// Hash generates an encoded Argon2id hash of the password
func (h *Argon2Hasher) Hash(password string) (string, error) {
	salt, err := GenerateRandomBytes(h.Config.SaltLength)
	if err != nil {
		return "", err
	}

	hash := argon2.IDKey(
		[]byte(password),
		salt,
		h.Config.Iterations,
		h.Config.Memory,
		h.Config.Parallelism,
		h.Config.KeyLength,
	)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.Config.Memory,
		h.Config.Iterations,
		h.Config.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// Verify compares a password with an encoded Argon2id hash using the
// parameters stored in the hash.
func (h *Argon2Hasher) Verify(password, encodedHash string) (bool, error) {
	params, salt, hash, err := decodeArgon2Hash(encodedHash)
	if err != nil {
		return false, err
	}

	comparisonHash := argon2.IDKey(
		[]byte(password),
		salt,
		params.Iterations,
		params.Memory,
		params.Parallelism,
		uint32(len(hash)),
	)

	// Use constant-time comparison to avoid timing attacks
	return subtle.ConstantTimeCompare(hash, comparisonHash) == 1, nil
}

// decodeArgon2Hash splits an encoded hash into its parameters, salt and key
func decodeArgon2Hash(encodedHash string) (*PasswordConfig, []byte, []byte, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	if version != argon2.Version {
		return nil, nil, nil, fmt.Errorf("%w: unsupported argon2 version %d", ErrInvalidHash, version)
	}

	params := &PasswordConfig{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Iterations, &params.Parallelism); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: failed to decode salt: %v", ErrInvalidHash, err)
	}

	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: failed to decode hash: %v", ErrInvalidHash, err)
	}

	return params, salt, hash, nil
}

// GenerateRandomBytes generates cryptographically secure random bytes
func GenerateRandomBytes(length uint32) ([]byte, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
