package taxid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger-api/pkg/taxid"
)

func TestValid_Formatos(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"11.222.333/0001-81", true},
		{"11222333000181", true},
		{" 11.444.777/0001-61 ", true},
		{"11 444 777 0001 61", true},
		{"11.222.333/0001-82", false},
		{"11.222.333/0001-8", false},
		{"11.222.333/0001-811", false},
		{"1122233300018a", false},
		{"", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, taxid.Valid(tc.in))
		})
	}
}

// Cualquier cambio de un solo dígito en un identificador válido debe invalidarlo.
func TestValid_MutacionDeUnDigito(t *testing.T) {
	for _, valid := range []string{"11222333000181", "11444777000161"} {
		for pos := 0; pos < taxid.Length; pos++ {
			for d := byte('0'); d <= '9'; d++ {
				if valid[pos] == d {
					continue
				}
				mutated := []byte(valid)
				mutated[pos] = d
				assert.False(t, taxid.Valid(string(mutated)),
					"mutación %s (posición %d) no debe validar", mutated, pos)
			}
		}
	}
}

func TestCheckDigits(t *testing.T) {
	first, second := taxid.CheckDigits("112223330001")
	assert.Equal(t, byte('8'), first)
	assert.Equal(t, byte('1'), second)
}

func TestValidate_Mensajes(t *testing.T) {
	assert.ErrorContains(t, taxid.Validate("123"), "14 dígitos")
	assert.ErrorContains(t, taxid.Validate("11222333000182"), "verificadores")
	assert.NoError(t, taxid.Validate("11.222.333/0001-81"))
}
