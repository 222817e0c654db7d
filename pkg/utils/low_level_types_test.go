package utils

import (
	"errors"
	"strings"
	"testing"
)

func TestXErrorWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := XError{Reason: "storing chunk", Meta: cause}.ToError()

	if !errors.Is(err, cause) {
		t.Errorf("expected wrapped cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "storing chunk") {
		t.Errorf("expected reason in message, got %q", err.Error())
	}
}

func TestXErrorWithPlainMeta(t *testing.T) {
	err := XError{Reason: "bad key", Meta: "session:abc"}.ToError()
	if !strings.Contains(err.Error(), "session:abc") {
		t.Errorf("expected meta in message, got %q", err.Error())
	}
}
