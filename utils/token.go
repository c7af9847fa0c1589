package utils

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

const tokenChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// TokenLength is the length of recipient tracking tokens.
const TokenLength = 32

// NewID generates an opaque storage id.
func NewID() string {
	return uuid.NewString()
}

// NewRecipientToken generates a 32-character random alphanumeric token.
// The token is the only identifier that appears in tracking links, so
// it must not be guessable from the recipient's email or id.
func NewRecipientToken() string {
	buf := make([]byte, TokenLength)
	max := big.NewInt(int64(len(tokenChars)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is
			// broken; there is no useful recovery at this level.
			panic(err)
		}
		buf[i] = tokenChars[n.Int64()]
	}
	return string(buf)
}
