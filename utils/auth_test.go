package utils

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_SignAndParse(t *testing.T) {
	tm := NewTokenManager("secret")

	token, err := tm.Sign(map[string]interface{}{"email": "diner@example.com", "name": "Diner"})
	require.NoError(t, err)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "diner@example.com", claims.Email)
	assert.Equal(t, claims.IssuedAt+int64(TokenTTL/time.Second), claims.ExpiresAt)
}

func TestTokenManager_OverridesCallerExpiry(t *testing.T) {
	tm := NewTokenManager("secret")
	forever := time.Now().Add(100 * 24 * time.Hour).Unix()

	token, err := tm.Sign(map[string]interface{}{"email": "a@b.c", "exp": forever})
	require.NoError(t, err)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Less(t, claims.ExpiresAt, forever)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager("secret")
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := tm.Sign(map[string]interface{}{"email": "a@b.c"})
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret").Sign(map[string]interface{}{"email": "a@b.c", "role": "admin"})
	require.NoError(t, err)

	_, err = NewTokenManager("other").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsUnsignedTokens(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"email": "a@b.c",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager("secret").Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecodePayload(t *testing.T) {
	payload, err := DecodePayload([]byte(`{"email":"a@b.c"}`))
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", payload["email"])

	for _, body := range []string{`null`, `[]`, `"a@b.c"`, `{`} {
		_, err := DecodePayload([]byte(body))
		assert.Error(t, err, body)
	}
}
