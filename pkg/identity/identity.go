package identity

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"

	"github.com/google/uuid"
)

// idLen is the length of a record identifier: 16 UUIDv4 bytes hex-encoded.
const idLen = 32

// accessCodeAlphabet avoids ambiguous runes (0/O, 1/I/L) so codes stay
// readable when shared out loud or written on a whiteboard.
const accessCodeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// AccessCodeLen is the length of a hunt access code.
const AccessCodeLen = 6

// New computes a fresh record identifier.
//
// It is hex-encoded UUIDv4 bytes, thus 32 lowercase runes. Collision
// probability is negligible (2^122 random bits), so callers treat it as
// guaranteed unique. The format is filesystem- and URL-safe, avoiding any
// path traversal interpretation of an attacker-controlled id.
func New() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// Validate reports whether the given string is a legal record identifier.
func Validate(id string) bool {
	if len(id) != idLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		default:
			return false
		}
	}
	return true
}

// NewAccessCode computes a short human-shareable token used by teams to
// locate a running hunt. Uniqueness among active hunts is not guaranteed
// here and must be checked against the store by the caller.
func NewAccessCode() string {
	code := make([]byte, AccessCodeLen)
	limit := big.NewInt(int64(len(accessCodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			// crypto/rand only fails if the platform entropy source is
			// broken, in which case the process cannot serve anything.
			panic(err)
		}
		code[i] = accessCodeAlphabet[n.Int64()]
	}
	return string(code)
}
