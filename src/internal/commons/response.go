package commons

import "github.com/api-sage/accounts-ledger/src/internal/domain"

type Response[T any] struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Kind    string   `json:"kind,omitempty"`
	Data    *T       `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    &data,
	}
}

func ErrorResponse[T any](message string, errors ...string) Response[T] {
	return Response[T]{
		Success: false,
		Message: message,
		Errors:  errors,
	}
}

// FailureResponse renders err for callers. Only the domain reason is exposed.
func FailureResponse[T any](message string, err error) Response[T] {
	de := domain.AsError(err)
	return Response[T]{
		Success: false,
		Message: message,
		Code:    de.Code,
		Kind:    string(de.Kind),
		Errors:  []string{de.Message},
	}
}
