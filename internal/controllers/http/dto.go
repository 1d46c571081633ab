package http

import "reseller-orders/internal/validation"

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	Error  string                  `json:"error"`
	Fields []validation.FieldError `json:"fields"`
}
