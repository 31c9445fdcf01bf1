package backend

import (
	"errors"
	"fmt"
)

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message. The message preserves the native error text of the
// underlying driver where one exists.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("BackendError (code %s): %s", e.Code, e.Msg)
}

// NewError creates a new Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// NewErrorf creates a new Error with the given code and a formatted message.
func NewErrorf(code RetCode, format string, args ...interface{}) *Error {
	return &Error{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess       RetCode = iota // 0: Operation executed successfully.
	RetCConnection                   // 1: Pool or driver setup failure.
	RetCMigration                    // 2: Schema statement failure (msg carries statement index and text).
	RetCBackend                      // 3: Runtime operation failure (msg carries native error text).
	RetCNotFound                     // 4: Delete/get-style absence.
	RetCUnsupported                  // 5: Operation not supported by the backend (e.g. transactions).
	RetCSerialization                // 6: Value encode/decode failure.
	RetCIo                           // 7: Filesystem-level failure (embedded engine).
	RetCClosed                       // 8: Operation on a closed backend.
)

// String returns the name of the return code.
func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCConnection:
		return "Connection"
	case RetCMigration:
		return "Migration"
	case RetCBackend:
		return "Backend"
	case RetCNotFound:
		return "NotFound"
	case RetCUnsupported:
		return "Unsupported"
	case RetCSerialization:
		return "Serialization"
	case RetCIo:
		return "Io"
	case RetCClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// --------------------------------------------------------------------------
// Helper Functions
// --------------------------------------------------------------------------

// CodeOf returns the return code of an error, or RetCBackend if the error is
// not a *Error. A nil error yields RetCSuccess.
func CodeOf(err error) RetCode {
	if err == nil {
		return RetCSuccess
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return RetCBackend
}

// IsNotFound reports whether an error is a NotFound error.
func IsNotFound(err error) bool {
	return CodeOf(err) == RetCNotFound
}

// IsUnsupported reports whether an error is an Unsupported error.
func IsUnsupported(err error) bool {
	return CodeOf(err) == RetCUnsupported
}

// IsClosed reports whether an error is a Closed error.
func IsClosed(err error) bool {
	return CodeOf(err) == RetCClosed
}
