package library

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

type ErrCode string

const (
	CodeValidation            ErrCode = "VALIDATION_ERROR"
	CodeCustomerNotFound      ErrCode = "CUSTOMER_NOT_FOUND"
	CodeBookUnavailable       ErrCode = "BOOK_UNAVAILABLE"
	CodeCustomerHasActiveLoan ErrCode = "CUSTOMER_HAS_ACTIVE_LOAN"
	CodeRecordNotFound        ErrCode = "RECORD_NOT_FOUND"
	CodeAlreadyReturned       ErrCode = "ALREADY_RETURNED"
	CodeEmailTaken            ErrCode = "EMAIL_TAKEN"
)

var (
	ErrValidation            = &Error{code: CodeValidation, msg: "Missing required info"}
	ErrCustomerNotFound      = &Error{code: CodeCustomerNotFound, msg: "Customer does not exist"}
	ErrBookUnavailable       = &Error{code: CodeBookUnavailable, msg: "Book is not available"}
	ErrCustomerHasActiveLoan = &Error{code: CodeCustomerHasActiveLoan, msg: "Customer already has a borrowed book"}
	ErrRecordNotFound        = &Error{code: CodeRecordNotFound, msg: "Borrowing record not found"}
	ErrAlreadyReturned       = &Error{code: CodeAlreadyReturned, msg: "Book has already been returned"}
	ErrEmailTaken            = &Error{code: CodeEmailTaken, msg: "Email already registered"}
)

// Error is a rejection of an operation by a business rule. Two errors with the
// same code match under errors.Is, so callers compare against the sentinels.
type Error struct {
	code  ErrCode
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

// Code satisfies the store gateway's check for business rejections.
func (e *Error) Code() string { return string(e.code) }

// Message is safe to show to API clients.
func (e *Error) Message() string { return e.msg }

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.code == e.code
}

const invalidEmailMsg = "Invalid email address"

// validationError keeps the validation code for every failure but tells a
// malformed email apart from a missing field. Missing fields are reported first.
func validationError(cause error) error {
	msg := ErrValidation.msg
	var fields validator.ValidationErrors
	if errors.As(cause, &fields) {
		badEmail := false
		for _, fe := range fields {
			switch fe.Tag() {
			case "required":
				return &Error{code: CodeValidation, msg: ErrValidation.msg, cause: cause}
			case "email":
				badEmail = true
			}
		}
		if badEmail {
			msg = invalidEmailMsg
		}
	}
	return &Error{code: CodeValidation, msg: msg, cause: cause}
}

// Code extracts the error code, or "" when err is not a business rejection.
func Code(err error) ErrCode {
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return ""
}
