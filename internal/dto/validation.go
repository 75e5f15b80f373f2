package dto

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var currencyCodeRe = regexp.MustCompile(`^[A-Z]{3,5}$`)

// currencyCodeValidator accepts upper-case codes of 3 to 5 letters, which
// covers both ISO fiat codes and common crypto tickers.
func currencyCodeValidator(fl validator.FieldLevel) bool {
	return currencyCodeRe.MatchString(fl.Field().String())
}

// RegisterCustomValidators attaches the custom binding validators to gin's
// validator engine. Called once at startup.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("currency", currencyCodeValidator)
}
