package testutil

import (
	"testing"

	"bistro-boss/utils"

	"github.com/stretchr/testify/require"
)

// Token signs a token for email, adding a role claim when role is set
func Token(t testing.TB, tokens *utils.TokenManager, email, role string) string {
	t.Helper()
	payload := map[string]interface{}{"email": email}
	if role != "" {
		payload["role"] = role
	}
	token, err := tokens.Sign(payload)
	require.NoError(t, err)
	return token
}
