package jwt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	tok, err := Issue("secret", 42, "user", 1)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := ParseAuth("Bearer "+tok, "secret")
	require.NoError(t, err)
	require.Equal(t, float64(42), claims["sub"])
	require.Equal(t, "user", claims["role"])
}

func TestParse_WrongSecret(t *testing.T) {
	tok, err := Issue("secret", 42, "user", 1)
	require.NoError(t, err)

	_, err = ParseAuth("Bearer "+tok, "other-secret")
	require.Error(t, err)
}

func TestParse_MissingHeader(t *testing.T) {
	_, err := ParseAuth("", "secret")
	require.Error(t, err)

	_, err = ParseAuth("Bearer ", "secret")
	require.Error(t, err)
}
