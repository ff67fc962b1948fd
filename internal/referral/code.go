package referral

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
)

// DefaultAlphabet is the 62-character alphanumeric set codes are drawn from.
const DefaultAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const (
	DefaultCodeLength = 6
	MinCodeLength     = 4
	MaxCodeLength     = 32
)

var codePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

var (
	ErrCodeLength   = errors.New("code length must be at least 4")
	ErrAlphabetSize = errors.New("alphabet must have at least 10 characters")
)

// Generator produces referral codes. Codes are shared publicly in URLs, so
// each character comes from crypto/rand; a guessable sequence would let
// someone enumerate codes and farm referral credit.
type Generator struct {
	length   int
	alphabet string
}

func NewGenerator(length int, alphabet string) (*Generator, error) {
	if length < MinCodeLength {
		return nil, fmt.Errorf("%w: got %d", ErrCodeLength, length)
	}
	if len(alphabet) < 10 {
		return nil, fmt.Errorf("%w: got %d", ErrAlphabetSize, len(alphabet))
	}
	return &Generator{length: length, alphabet: alphabet}, nil
}

// DefaultGenerator returns a generator with the default length and alphabet.
// 62^6 is about 5.6e10, so collisions stay negligible for any realistic
// waitlist population.
func DefaultGenerator() *Generator {
	g, err := NewGenerator(DefaultCodeLength, DefaultAlphabet)
	if err != nil {
		panic(err) // defaults are always valid
	}
	return g
}

// Generate draws each character uniformly and independently from the alphabet.
func (g *Generator) Generate() (string, error) {
	size := big.NewInt(int64(len(g.alphabet)))
	buf := make([]byte, g.length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("draw random index: %w", err)
		}
		buf[i] = g.alphabet[n.Int64()]
	}
	return string(buf), nil
}

// IsValidCode reports whether code is safe to use as a lookup key: strictly
// alphanumeric and within the default length bounds. Callers use it to drop
// malformed codes before any storage round-trip.
func IsValidCode(code string) bool {
	return IsValidCodeBounds(code, MinCodeLength, MaxCodeLength)
}

func IsValidCodeBounds(code string, minLen, maxLen int) bool {
	if len(code) < minLen || len(code) > maxLen {
		return false
	}
	return codePattern.MatchString(code)
}
