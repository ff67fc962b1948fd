package referral

import (
	"errors"
	"strings"
	"testing"
)

func TestGeneratorDefaultsProduceValidCodes(t *testing.T) {
	g := DefaultGenerator()

	for i := 0; i < 100; i++ {
		code, err := g.Generate()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != DefaultCodeLength {
			t.Fatalf("expected length %d, got %q", DefaultCodeLength, code)
		}
		if !IsValidCode(code) {
			t.Fatalf("generated code failed validation: %q", code)
		}
		for _, c := range code {
			if !strings.ContainsRune(DefaultAlphabet, c) {
				t.Fatalf("code %q contains %q outside the alphabet", code, c)
			}
		}
	}
}

func TestNewGeneratorConfigErrors(t *testing.T) {
	cases := []struct {
		name     string
		length   int
		alphabet string
		want     error
	}{
		{name: "length too short", length: 3, alphabet: DefaultAlphabet, want: ErrCodeLength},
		{name: "zero length", length: 0, alphabet: DefaultAlphabet, want: ErrCodeLength},
		{name: "alphabet too small", length: 6, alphabet: "abc", want: ErrAlphabetSize},
		{name: "empty alphabet", length: 6, alphabet: "", want: ErrAlphabetSize},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewGenerator(tc.length, tc.alphabet); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestGenerateCollisionResistance(t *testing.T) {
	g, err := NewGenerator(8, DefaultAlphabet)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}

	seen := make(map[string]struct{}, 500)
	for i := 0; i < 500; i++ {
		code, err := g.Generate()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		seen[code] = struct{}{}
	}
	if len(seen) <= 490 {
		t.Fatalf("expected more than 490 distinct codes out of 500, got %d", len(seen))
	}
}

func TestIsValidCode(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"", false},
		{"abc", false}, // below min length
		{"abcd", true},
		{"ABcd12", true},
		{"ab!d", false},      // non-alphanumeric
		{"ref code", false},  // whitespace
		{strings.Repeat("a", 32), true},
		{strings.Repeat("a", 33), false}, // above max length
		{"../../etc", false},
	}

	for _, tc := range cases {
		if got := IsValidCode(tc.code); got != tc.want {
			t.Errorf("IsValidCode(%q) = %v, want %v", tc.code, got, tc.want)
		}
	}
}
