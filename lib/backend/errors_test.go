package backend

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCodes(t *testing.T) {
	err := NewErrorf(RetCNotFound, "key %q not found", "a")
	if err.Error() != `BackendError (code NotFound): key "a" not found` {
		t.Errorf("Unexpected message: %q", err.Error())
	}
	if CodeOf(err) != RetCNotFound {
		t.Errorf("Expected NotFound code, got %v", CodeOf(err))
	}
	if !IsNotFound(err) {
		t.Errorf("Expected IsNotFound to match")
	}
	if IsUnsupported(err) || IsClosed(err) {
		t.Errorf("Expected other predicates not to match")
	}

	// Wrapped errors must still resolve to their code
	wrapped := fmt.Errorf("outer: %w", err)
	if CodeOf(wrapped) != RetCNotFound {
		t.Errorf("Expected code to survive wrapping, got %v", CodeOf(wrapped))
	}
	if !IsNotFound(wrapped) {
		t.Errorf("Expected IsNotFound to match through wrapping")
	}

	// Foreign errors report the generic backend code
	if CodeOf(errors.New("plain")) != RetCBackend {
		t.Errorf("Expected generic code for foreign error")
	}
	if CodeOf(nil) != RetCSuccess {
		t.Errorf("Expected success code for nil error")
	}
}

func TestRetCodeString(t *testing.T) {
	cases := map[RetCode]string{
		RetCSuccess:     "Success",
		RetCNotFound:    "NotFound",
		RetCUnsupported: "Unsupported",
		RetCClosed:      "Closed",
		RetCode(99):     "Unknown",
	}
	for code, expected := range cases {
		if code.String() != expected {
			t.Errorf("Expected %q for code %d, got %q", expected, code, code.String())
		}
	}
}
