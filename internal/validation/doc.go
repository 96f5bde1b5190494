// Package validation wraps go-playground/validator with a shared instance and
// converts its errors into model.FieldError values for problem responses.
package validation
