package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator. Field rules live on the request
// structs; nothing cross-field is enforced here — order totals in
// particular are caller-trusted and never checked against the line items.
func New() *validatorv10.Validate {
	return validatorv10.New()
}
