package concept

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/flmvela/gemeos/core"
)

var (
	statusTag  = "conceptstatus"
	statusText = "invalid status, expected one of: suggested, approved, rejected"
)

// InitValidators registers the concept validation tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)
}

func statusValidation(fl validator.FieldLevel) bool {
	switch st := fl.Field().Interface().(type) {
	case Status:
		return st.IsValid()
	case string:
		return Status(st).IsValid()
	}
	return false
}
