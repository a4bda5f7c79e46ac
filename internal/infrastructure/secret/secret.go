// Package secret loads the token signing key.
package secret

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// MinKeyLength is the shortest HS256 key accepted in production.
const MinKeyLength = 32

var ErrMissingKey = errors.New("secret: signing key is not configured")

// Source names where the key may come from. File wins over Value.
type Source struct {
	File       string
	Value      string
	Production bool
}

// Load resolves the signing key. Outside production a missing key is
// replaced by a random ephemeral one and a short key only warns.
func Load(src Source, log zerolog.Logger) ([]byte, error) {
	key, err := read(src)
	if err != nil {
		return nil, err
	}

	switch {
	case len(key) == 0 && src.Production:
		return nil, ErrMissingKey
	case len(key) == 0:
		key = make([]byte, MinKeyLength)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("secret: generate key: %w", err)
		}
		log.Warn().Msg("JWT_SECRET not set; using an ephemeral key, tokens will not survive a restart")
	case len(key) < MinKeyLength && src.Production:
		return nil, fmt.Errorf("secret: signing key must be at least %d bytes, got %d", MinKeyLength, len(key))
	case len(key) < MinKeyLength:
		log.Warn().Int("length", len(key)).Msg("JWT signing key is shorter than recommended")
	}

	return key, nil
}

func read(src Source) ([]byte, error) {
	if src.File != "" {
		raw, err := os.ReadFile(src.File)
		if err != nil {
			return nil, fmt.Errorf("secret: read key file: %w", err)
		}
		return []byte(strings.TrimSpace(string(raw))), nil
	}
	return []byte(src.Value), nil
}
