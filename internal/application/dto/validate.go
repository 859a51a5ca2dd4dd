package dto

import (
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/pkg/validator"
)

// Validate aplica los tags `validate` de in y traduce las fallas a *domain.ValidationError.
func Validate(in interface{}) error {
	errs := validator.ValidateStruct(in)
	if len(errs) == 0 {
		return nil
	}
	verr := &domain.ValidationError{Fields: make(map[string]string, len(errs))}
	for _, e := range errs {
		reason := e.Tag
		if e.Param != "" {
			reason += "=" + e.Param
		}
		verr.Fields[e.Field] = reason
	}
	return verr
}
