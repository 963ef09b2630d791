package core

import "math/rand"

const (
	inviteCodeLength  = 8
	inviteCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// generateInviteCode returns an 8-character code drawn uniformly from
// [A-Z0-9]. Global uniqueness is not enforced; lookups take the first
// match, the same known gap the reference carries.
func generateInviteCode() string {
	code := make([]byte, inviteCodeLength)
	for i := range code {
		code[i] = inviteCodeCharset[rand.Intn(len(inviteCodeCharset))]
	}
	return string(code)
}
