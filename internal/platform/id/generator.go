package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID(prefix string) (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

// NewID returns a lowercase hex ID. A non-empty prefix is joined with an
// underscore, e.g. "arc_9f2c...".
func (g *RandomGenerator) NewID(prefix string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	raw := hex.EncodeToString(buf)
	if prefix == "" {
		return raw, nil
	}

	return prefix + "_" + raw, nil
}
