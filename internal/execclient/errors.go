package execclient

import (
	"errors"
)

// Code classifies client failures
type Code string

const (
	CodeTransportUnavailable   Code = "TRANSPORT_UNAVAILABLE"
	CodeServiceNotServing      Code = "SERVICE_NOT_SERVING"
	CodeLaunchFailed           Code = "LAUNCH_FAILED"
	CodeRemoteSubmissionFailed Code = "REMOTE_SUBMISSION_FAILED"
	CodeRemoteReportedError    Code = "REMOTE_REPORTED_ERROR"
	CodeSignalDeliveryFailed   Code = "SIGNAL_DELIVERY_FAILED"
	CodeInvalidRequest         Code = "INVALID_REQUEST"
	CodeInternal               Code = "INTERNAL"
)

func (c Code) String() string {
	return string(c)
}

// Sentinels for errors.Is; they match any *Error with the same code
var (
	ErrTransportUnavailable   = &Error{Code: CodeTransportUnavailable}
	ErrServiceNotServing      = &Error{Code: CodeServiceNotServing}
	ErrLaunchFailed           = &Error{Code: CodeLaunchFailed}
	ErrRemoteSubmissionFailed = &Error{Code: CodeRemoteSubmissionFailed}
	ErrRemoteReportedError    = &Error{Code: CodeRemoteReportedError}
	ErrSignalDeliveryFailed   = &Error{Code: CodeSignalDeliveryFailed}
	ErrInvalidRequest         = &Error{Code: CodeInvalidRequest}
)

// Error is a classified client failure. Err keeps the transport or system
// error so gRPC status details stay inspectable.
type Error struct {
	Code    Code
	Op      string
	Message string
	Err     error
}

func newError(code Code, op, message string, err error) *Error {
	return &Error{Code: code, Op: op, Message: message, Err: err}
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a sentinel with the same code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Op == "" && t.Code == e.Code
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
