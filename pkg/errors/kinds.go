package errors

import "fmt"

// NotFoundDetails is logged with NOT_FOUND errors; it is never written to clients.
type NotFoundDetails struct {
	Entity string `json:"entity"`
	ID     string `json:"id"`
}

type UnauthorizedDetails struct {
	Actor    string `json:"actor"`
	Resource string `json:"resource"`
}

type InsufficientStockDetails struct {
	Product   string `json:"product"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

type DuplicateDetails struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type ValidationDetails struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func NotFound(entity string, id any) *Error {
	return New(CodeNotFound, fmt.Sprintf("%s not found", entity)).
		WithDetails(NotFoundDetails{Entity: entity, ID: fmt.Sprint(id)})
}

func Unauthorized(actor, resource string) *Error {
	return New(CodeUnauthorized, fmt.Sprintf("not allowed to access this %s", resource)).
		WithDetails(UnauthorizedDetails{Actor: actor, Resource: resource})
}

func Unauthenticated(message string) *Error {
	return New(CodeUnauthenticated, message)
}

func InsufficientStock(product string, requested, available int) *Error {
	msg := fmt.Sprintf("the item %s exceeds the available amount (requested %d, available %d)", product, requested, available)
	return New(CodeInsufficientStock, msg).
		WithDetails(InsufficientStockDetails{Product: product, Requested: requested, Available: available})
}

func Duplicate(field, value string) *Error {
	return New(CodeDuplicate, fmt.Sprintf("%s %q is already registered", field, value)).
		WithDetails(DuplicateDetails{Field: field, Value: value})
}

func Validation(field, reason string) *Error {
	return New(CodeValidation, fmt.Sprintf("%s %s", field, reason)).
		WithDetails(ValidationDetails{Field: field, Reason: reason})
}

// StoreUnavailable wraps a persistence failure. It is the only retryable kind.
func StoreUnavailable(err error, op string) *Error {
	return Wrap(CodeStoreUnavailable, err, op)
}
