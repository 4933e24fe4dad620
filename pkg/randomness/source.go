// Package randomness supplies draw seeds.
package randomness

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// SeedSource yields one hex-encoded seed per draw. A seed must be
// unpredictable before the draw and is stored verbatim afterwards so
// anyone can replay the selection. Sources backed by a randomness
// beacon or VRF satisfy the same interface.
type SeedSource interface {
	NewSeed() (string, error)
}

// CryptoSource draws 32 bytes from the operating system's CSPRNG.
type CryptoSource struct{}

var _ SeedSource = (*CryptoSource)(nil)

// NewCryptoSource creates a new CryptoSource
func NewCryptoSource() *CryptoSource {
	return &CryptoSource{}
}

// NewSeed returns a fresh 64-character hex seed
func (s *CryptoSource) NewSeed() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random seed: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// FixedSource replays a predetermined seed. Meant for tests and for
// replaying a draw from recorded state.
type FixedSource struct {
	Seed string
}

var _ SeedSource = (*FixedSource)(nil)

// NewSeed returns the configured seed
func (s *FixedSource) NewSeed() (string, error) {
	if s.Seed == "" {
		return "", fmt.Errorf("fixed seed source has no seed configured")
	}
	return s.Seed, nil
}
