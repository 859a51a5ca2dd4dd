package cli_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/cli"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ledgerctl dev")
}

func TestMigrate_DryRunListaEmbebidas(t *testing.T) {
	out, err := run(t, "migrate", "--dry-run", "--env-file", "no-existe.env")
	require.NoError(t, err)
	assert.Contains(t, out, "001_init.sql")
}

func TestReport_FormatoDesconocido(t *testing.T) {
	_, err := run(t, "report", "--format", "csv", "--env-file", "no-existe.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no soportado")
}

func TestUserCreate_ValidaAntesDeConectar(t *testing.T) {
	_, err := run(t, "user", "create", "--username", "ab", "--password", "corta", "--env-file", "no-existe.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username")
}
