package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/pkg/jwt"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := jwt.Generate("s3cret", "u-1", "maria", "admin", "stock-ledger", 5)
	require.NoError(t, err)

	claims, err := jwt.Parse("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "maria", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "stock-ledger", claims.Issuer)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := jwt.Generate("s3cret", "u-1", "maria", "user", "stock-ledger", 5)
	require.NoError(t, err)

	_, err = jwt.Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := jwt.Generate("s3cret", "u-1", "maria", "user", "stock-ledger", -1)
	require.NoError(t, err)

	_, err = jwt.Parse("s3cret", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "u-1", "maria", "user", "stock-ledger", 5)
	assert.Error(t, err)
}
