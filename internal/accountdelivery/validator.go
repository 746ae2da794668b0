package accountdelivery

import (
	"github.com/go-playground/validator/v10"
)

// ValidAccountNumber validates the 10 digit account number format.
var ValidAccountNumber validator.Func = func(fl validator.FieldLevel) bool {
	number, ok := fl.Field().Interface().(string)
	if !ok || len(number) != 10 {
		return false
	}

	for i := 0; i < len(number); i++ {
		if number[i] < '0' || number[i] > '9' {
			return false
		}
	}

	return true
}
