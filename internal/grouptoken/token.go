// Package grouptoken generates the short shareable codes that identify
// outing groups. A token is a public-but-unguessable capability: anyone who
// holds it can join and vote in the group.
package grouptoken

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// Length is the fixed token length in characters.
const Length = 8

// New returns a random fixed-length token in uppercase hex. Hex keeps the
// alphabet free of case-ambiguous characters, so tokens survive being read
// aloud or retyped in any case.
func New() (string, error) {
	var b [Length / 2]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(b[:])), nil
}

// Normalize maps user input to canonical token form.
func Normalize(token string) string {
	return strings.ToUpper(strings.TrimSpace(token))
}
