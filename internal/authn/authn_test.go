package authn

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	signer, err := NewSigner("secret", time.Hour)
	require.NoError(t, err)

	token, err := signer.Issue("user-1", "user1", []string{"system_user"})
	require.NoError(t, err)

	claims, err := signer.ParseClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "user1", claims.Username)
	assert.Equal(t, []string{"system_user"}, claims.Roles)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	signer, _ := NewSigner("secret", time.Hour)
	other, _ := NewSigner("other", time.Hour)

	token, err := other.Issue("user-1", "user1", nil)
	require.NoError(t, err)

	_, err = signer.ParseClaims(token)
	assert.ErrorIs(t, err, ErrInvalidJWT)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	signer, _ := NewSigner("secret", time.Minute)
	signer.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := signer.Issue("user-1", "user1", nil)
	require.NoError(t, err)

	signer.now = time.Now
	_, err = signer.ParseClaims(token)
	assert.ErrorIs(t, err, ErrInvalidJWT)
}

func TestParseRejectsNoneAlgorithm(t *testing.T) {
	signer, _ := NewSigner("secret", time.Hour)
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		StandardClaims: jwt.StandardClaims{Subject: "user-1"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = signer.ParseClaims(token)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	signer, _ := NewSigner("secret", time.Hour)
	_, err := signer.ParseClaims("not-a-token")
	assert.Error(t, err)
}

func TestNewSignerRequiresKey(t *testing.T) {
	_, err := NewSigner("", time.Hour)
	assert.Error(t, err)
}
