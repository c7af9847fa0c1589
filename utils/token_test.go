package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRecipientToken(t *testing.T) {
	token := NewRecipientToken()
	assert.Len(t, token, TokenLength)

	for _, r := range token {
		assert.True(t, strings.ContainsRune(tokenChars, r), "token must be alphanumeric, got %q", r)
	}
}

func TestNewRecipientToken_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		token := NewRecipientToken()
		_, dup := seen[token]
		assert.False(t, dup, "duplicate token %s", token)
		seen[token] = struct{}{}
	}
}

func TestNewID(t *testing.T) {
	a := NewID()
	b := NewID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
