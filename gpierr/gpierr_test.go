package gpierr

import (
	"errors"
	"testing"
)

func TestWrapPreservesCauseForErrorsIs(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(LoadError, "could not open library", cause)

	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is should see through Wrap to the cause")
	}
	if !Is(err, LoadError) {
		t.Fatalf("Is(err, LoadError) should be true")
	}
	if Is(err, NotFound) {
		t.Fatalf("Is(err, NotFound) should be false")
	}
}

func TestIsFollowsWrappedChain(t *testing.T) {
	inner := New(InvalidHandle, "stale handle")
	outer := Wrap(InternalError, "dispatch failed", inner)

	if !Is(outer, InvalidHandle) {
		t.Fatalf("Is should walk through a wrapped *Error chain")
	}
}

func TestKindStringIsHumanReadable(t *testing.T) {
	if NotFound.String() != "NotFound" {
		t.Fatalf("String() = %q", NotFound.String())
	}
}
