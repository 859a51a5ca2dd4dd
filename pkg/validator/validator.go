package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/pkg/taxid"
)

// FieldError describe un campo que no pasó la validación.
type FieldError struct {
	Field string // nombre json del campo
	Tag   string // regla violada (required, gt, max, cnpj...)
	Param string
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()

	// decimal.Decimal se valida como float64 para que gt=0 / lte funcionen.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("cnpj", func(fl validator.FieldLevel) bool {
		return taxid.Valid(fl.Field().String())
	})

	// Reportar el nombre json en lugar del nombre Go.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidateStruct valida data según sus tags `validate` y devuelve los campos inválidos.
// Slice vacío = válido.
func ValidateStruct(data interface{}) []FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Tag: "invalid", Param: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Tag: fe.Tag(), Param: fe.Param()})
	}
	return out
}
