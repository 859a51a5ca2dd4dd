package taxid

import (
	"fmt"
	"strings"
)

// Length número de dígitos del identificador fiscal (CNPJ) sin separadores.
const Length = 14

// pesos del cálculo módulo 11: firstWeights sobre los 12 primeros dígitos,
// secondWeights sobre los 12 primeros más el primer dígito verificador.
var (
	firstWeights  = [12]int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	secondWeights = [13]int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// separators se eliminan antes de validar: "11.222.333/0001-81" -> "11222333000181".
var separators = strings.NewReplacer(".", "", "/", "", "-", "", " ", "")

// Normalize quita los separadores de formato. No valida.
func Normalize(taxID string) string {
	return separators.Replace(strings.TrimSpace(taxID))
}

// Valid informa si taxID tiene 14 dígitos y sus dos dígitos verificadores son correctos.
func Valid(taxID string) bool {
	return Validate(taxID) == nil
}

// Validate es como Valid pero explica el motivo del rechazo.
func Validate(taxID string) error {
	digits := Normalize(taxID)
	if len(digits) != Length {
		return fmt.Errorf("taxid: se esperaban %d dígitos, se encontraron %d", Length, len(digits))
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return fmt.Errorf("taxid: carácter no numérico %q en la posición %d", digits[i], i)
		}
	}
	first, second := CheckDigits(digits[:12])
	if digits[12] != first || digits[13] != second {
		return fmt.Errorf("taxid: dígitos verificadores inválidos: esperado %c%c, recibido %s", first, second, digits[12:])
	}
	return nil
}

// CheckDigits calcula los dos dígitos verificadores para la base de 12 dígitos.
// base debe contener exactamente 12 dígitos ASCII.
func CheckDigits(base string) (byte, byte) {
	first := checkDigit(base, firstWeights[:])
	second := checkDigit(base+string(first), secondWeights[:])
	return first, second
}

func checkDigit(digits string, weights []int) byte {
	var sum int
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	remainder := sum % 11
	if remainder < 2 {
		return '0'
	}
	return byte('0' + (11 - remainder))
}
