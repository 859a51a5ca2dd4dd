package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
)

func TestMapWriteErr(t *testing.T) {
	cases := []struct {
		code string
		want error
	}{
		{codeUniqueViolation, domain.ErrDuplicate},
		{codeForeignKeyViolation, domain.ErrNotFound},
		{codeInvalidText, domain.ErrNotFound},
		{codeCheckViolation, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		err := mapWriteErr("insert", fmt.Errorf("wrap: %w", &pgconn.PgError{Code: tc.code}))
		assert.ErrorIs(t, err, tc.want, tc.code)
	}

	other := errors.New("conexión cerrada")
	assert.ErrorIs(t, mapWriteErr("insert", other), other)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(&pgconn.PgError{Code: codeSerializationFailure}))
	assert.True(t, isRetryable(fmt.Errorf("commit: %w", &pgconn.PgError{Code: codeDeadlockDetected})))
	assert.False(t, isRetryable(&pgconn.PgError{Code: codeUniqueViolation}))
	assert.False(t, isRetryable(errors.New("x")))
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, isNoRows(pgx.ErrNoRows))
	assert.True(t, isNoRows(&pgconn.PgError{Code: codeInvalidText}))
	assert.False(t, isNoRows(errors.New("x")))
}
