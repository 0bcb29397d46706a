package domain

import (
	"errors"
	"fmt"
)

var ErrRecordNotFound = errors.New("Record not found")

// ErrorKind classifies a failure for callers. Kinds are stable and safe to expose.
type ErrorKind string

const (
	KindValidation        ErrorKind = "VALIDATION"
	KindRuleViolation     ErrorKind = "RULE_VIOLATION"
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindOperatingWindow   ErrorKind = "OPERATING_WINDOW"
	KindLimitExceeded     ErrorKind = "LIMIT_EXCEEDED"
	KindInsufficientFunds ErrorKind = "INSUFFICIENT_FUNDS"
	KindConflict          ErrorKind = "CONFLICT"
	KindUnavailable       ErrorKind = "UNAVAILABLE"
)

// Error is the error type returned by the ledger core. Two errors match with
// errors.Is when they share a kind and, if the target has one, a code.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Code == "" || e.Code == t.Code)
}

// WithMessage returns a copy carrying a more specific reason.
func (e *Error) WithMessage(format string, args ...any) *Error {
	out := *e
	out.Message = fmt.Sprintf(format, args...)
	return &out
}

// Wrap returns a copy that records cause for logging.
func (e *Error) Wrap(cause error) *Error {
	out := *e
	out.Err = cause
	return &out
}

var (
	ErrValidation = &Error{Kind: KindValidation, Code: "VALIDATION_FAILED", Message: "validation failed"}

	ErrDuplicateProductType = &Error{Kind: KindRuleViolation, Code: "DUPLICATE_PRODUCT_TYPE", Message: "Customer already has an account of this type"}
	ErrUnsupportedProduct   = &Error{Kind: KindRuleViolation, Code: "UNSUPPORTED_PRODUCT_FOR_CUSTOMER_TYPE", Message: "Product is not available for this customer type"}
	ErrHolderSignerOverlap  = &Error{Kind: KindRuleViolation, Code: "HOLDER_SIGNER_OVERLAP", Message: "Holders and authorized signers must be different customers"}
	ErrHolderRequired       = &Error{Kind: KindRuleViolation, Code: "HOLDER_REQUIRED", Message: "Holders must include the owning customer"}
	ErrDuplicateAccountNo   = &Error{Kind: KindRuleViolation, Code: "DUPLICATE_ACCOUNT_NUMBER", Message: "Account number already exists"}
	ErrDuplicateCardNumber  = &Error{Kind: KindRuleViolation, Code: "DUPLICATE_CARD_NUMBER", Message: "cardNumber already exists"}
	ErrDuplicateLoan        = &Error{Kind: KindRuleViolation, Code: "DUPLICATE_LOAN", Message: "Customer already has a PERSONAL loan"}
	ErrAccountInactive      = &Error{Kind: KindRuleViolation, Code: "ACCOUNT_INACTIVE", Message: "Account is not active"}

	ErrAccountNotFound  = &Error{Kind: KindNotFound, Code: "ACCOUNT_NOT_FOUND", Message: "Account not found"}
	ErrCustomerNotFound = &Error{Kind: KindNotFound, Code: "CUSTOMER_NOT_FOUND", Message: "Customer not found"}
	ErrCardNotFound     = &Error{Kind: KindNotFound, Code: "CARD_NOT_FOUND", Message: "Credit card not found"}
	ErrLoanNotFound     = &Error{Kind: KindNotFound, Code: "LOAN_NOT_FOUND", Message: "Loan not found"}

	ErrOutsideOperatingWindow = &Error{Kind: KindOperatingWindow, Code: "OUTSIDE_OPERATING_WINDOW", Message: "Operation is outside the allowed day"}
	ErrMonthlyLimitExceeded   = &Error{Kind: KindLimitExceeded, Code: "MONTHLY_LIMIT_EXCEEDED", Message: "Monthly movement limit exceeded"}

	ErrInsufficientFunds  = &Error{Kind: KindInsufficientFunds, Code: "INSUFFICIENT_FUNDS", Message: "Insufficient funds"}
	ErrInsufficientCredit = &Error{Kind: KindInsufficientFunds, Code: "INSUFFICIENT_CREDIT", Message: "Insufficient available credit"}

	ErrConcurrentUpdate = &Error{Kind: KindConflict, Code: "CONCURRENT_UPDATE", Message: "Account was modified concurrently"}
	ErrDuplicateRequest = &Error{Kind: KindConflict, Code: "DUPLICATE_REQUEST", Message: "Request with this idempotency key is already in progress"}
	ErrMovementRecorded = &Error{Kind: KindConflict, Code: "MOVEMENT_ALREADY_RECORDED", Message: "Movement with this reference is already recorded"}

	ErrUnavailable = &Error{Kind: KindUnavailable, Code: "COLLABORATOR_UNAVAILABLE", Message: "Service temporarily unavailable"}
)

// Validation builds a validation error with the given reason.
func Validation(format string, args ...any) *Error {
	return ErrValidation.WithMessage(format, args...)
}

// Unavailable marks err as a transient collaborator failure.
func Unavailable(cause error) *Error {
	return ErrUnavailable.Wrap(cause)
}

// AsError extracts the domain error from err. Unknown errors are reported as
// unavailable so internal detail never reaches the caller.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return Unavailable(err)
}

// KindOf returns the kind of err or "" when err is not a domain error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
