package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/phrazzld/gradebook/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// CredentialHasher turns credentials into their stored form and checks
// presented credentials against it.
type CredentialHasher interface {
	// Hash returns the form of credential that should be stored.
	Hash(credential string) (string, error)

	// Compare checks credential against a value previously returned by Hash.
	// Returns nil on match, ErrCredentialMismatch otherwise.
	Compare(stored, credential string) error
}

// PlainHasher stores credentials verbatim and compares them by exact match.
type PlainHasher struct{}

// Ensure PlainHasher implements CredentialHasher interface
var _ CredentialHasher = PlainHasher{}

// Hash returns credential unchanged.
func (PlainHasher) Hash(credential string) (string, error) {
	return credential, nil
}

// Compare performs a constant-time exact comparison.
func (PlainHasher) Compare(stored, credential string) error {
	if subtle.ConstantTimeCompare([]byte(stored), []byte(credential)) != 1 {
		return ErrCredentialMismatch
	}
	return nil
}

// BcryptHasher implements CredentialHasher using bcrypt. Credentials are
// digested with SHA-256 first, so inputs of any length stay within bcrypt's
// 72-byte limit and differ past that point.
type BcryptHasher struct {
	cost int
}

// Ensure BcryptHasher implements CredentialHasher interface
var _ CredentialHasher = (*BcryptHasher)(nil)

// NewBcryptHasher creates a BcryptHasher with the given cost.
// Costs outside bcrypt's supported range fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash implements the CredentialHasher interface using bcrypt.
func (h *BcryptHasher) Hash(credential string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(prehash(credential), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash credential: %w", err)
	}
	return string(hashed), nil
}

// Compare implements the CredentialHasher interface using bcrypt.
func (h *BcryptHasher) Compare(stored, credential string) error {
	err := bcrypt.CompareHashAndPassword([]byte(stored), prehash(credential))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrCredentialMismatch
	}
	return fmt.Errorf("failed to compare credential: %w", err)
}

// prehash returns the base64 SHA-256 digest of credential (44 bytes).
func prehash(credential string) []byte {
	sum := sha256.Sum256([]byte(credential))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// NewHasher returns the CredentialHasher selected by cfg.CredentialHashing.
func NewHasher(cfg config.AuthConfig) (CredentialHasher, error) {
	switch cfg.CredentialHashing {
	case "", "plain":
		return PlainHasher{}, nil
	case "bcrypt":
		return NewBcryptHasher(cfg.BcryptCost), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownHashing, cfg.CredentialHashing)
	}
}
