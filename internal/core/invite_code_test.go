package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateInviteCode_LengthAndCharset(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := generateInviteCode()
		assert.Len(t, code, inviteCodeLength)
		for _, c := range code {
			assert.True(t, strings.ContainsRune(inviteCodeCharset, c), "unexpected character %q in code %q", c, code)
		}
		// Codes are stored upper-case; joins normalize before matching.
		assert.Equal(t, strings.ToUpper(code), code)
	}
}

func TestGenerateInviteCode_NotConstant(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[generateInviteCode()] = true
	}
	assert.Greater(t, len(seen), 1, "codes should vary across generations")
}
