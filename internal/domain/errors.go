package domain

// APIError represents a standardized API error with HTTP status code
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// ValidationFieldError maps a field name to its validation error message
type ValidationFieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationMessages provides human-readable validation error messages
// in Portuguese, the platform's language. They map validator tags to
// what the web client shows the user.
var ValidationMessages = map[string]string{
	"required": "Campo obrigatório",
	"email":    "Deve ser um e-mail válido",
	"max":      "Excede o tamanho máximo",
	"min":      "Abaixo do tamanho mínimo",
	"gte":      "Deve ser maior ou igual ao valor mínimo",
	"gt":       "Deve ser maior que o valor mínimo",
	"lte":      "Deve ser menor ou igual ao valor máximo",
	"lt":       "Deve ser menor que o valor máximo",
	"uuid":     "Deve ser um UUID válido",
	"url":      "Deve ser uma URL válida",
	"oneof":    "Deve ser um dos valores permitidos",
	"numeric":  "Deve ser um valor numérico",
	"len":      "Deve ter exatamente o tamanho especificado",
}

// GetValidationMessage returns a human-readable message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := ValidationMessages[tag]; ok {
		return msg
	}
	return "Falha na validação: " + tag
}

// Common error types for RFC 7807 Problem Details
const (
	ErrorTypeValidation   = "validation_error"
	ErrorTypeNotFound     = "not_found"
	ErrorTypeBadRequest   = "bad_request"
	ErrorTypeConflict     = "conflict"
	ErrorTypeUnauthorized = "unauthorized"
	ErrorTypeForbidden    = "forbidden"
	ErrorTypeInternal     = "internal_error"
)
