package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stock-ledger-api/internal/application/auth"
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger-api/pkg/jwt"
)

func newAuth() *auth.AuthUseCase {
	return auth.NewAuthUseCase(memory.NewStore().Users(), auth.JWTConfig{
		Secret: "test-secret", ExpMinutes: 5, Issuer: "stock-ledger",
	}).WithBcryptCost(bcrypt.MinCost)
}

func TestRegisterLogin(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()

	u, err := uc.Register(ctx, dto.RegisterRequest{Username: "maria", Password: "supersecreta"})
	require.NoError(t, err)
	assert.Equal(t, "user", u.Role)

	res, err := uc.Login(ctx, dto.LoginRequest{Username: "maria", Password: "supersecreta"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	claims, err := jwt.Parse("test-secret", res.Token)
	require.NoError(t, err)
	assert.Equal(t, "maria", claims.Username)
	assert.Equal(t, "user", claims.Role)
}

func TestRegister_Duplicado(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()
	_, err := uc.Register(ctx, dto.RegisterRequest{Username: "maria", Password: "supersecreta"})
	require.NoError(t, err)

	_, err = uc.Register(ctx, dto.RegisterRequest{Username: "maria", Password: "otraclave123"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestRegister_Validacion(t *testing.T) {
	_, err := newAuth().Register(context.Background(), dto.RegisterRequest{Username: "ma", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_Fallos(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()
	_, err := uc.Register(ctx, dto.RegisterRequest{Username: "maria", Password: "supersecreta", Role: "admin"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "maria", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "pedro", Password: "supersecreta"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
