package assert

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func Equal[T comparable](t *testing.T, actual, expected T) {
	t.Helper()

	if actual != expected {
		t.Errorf("got: %v; want %v", actual, expected)
	}
}

func StringContains(t *testing.T, actual, expectedSubstring string) {
	t.Helper()

	if !strings.Contains(actual, expectedSubstring) {
		t.Errorf("got: %q; expected to contain: %q", actual, expectedSubstring)
	}
}

func NilError(t *testing.T, actual error) {
	t.Helper()

	if actual != nil {
		t.Errorf("got: %v; expected: nil", actual)
	}
}

// ErrorAs fails unless err wraps an error of type E and returns it.
func ErrorAs[E error](t *testing.T, err error) E {
	t.Helper()

	var target E
	if !errors.As(err, &target) {
		t.Fatalf("got: %v; expected error of type %T", err, target)
	}
	return target
}

func SliceEqual[T comparable](t *testing.T, actual, expected []T) {
	t.Helper()

	if !slices.Equal(actual, expected) {
		t.Errorf("got %v, expected: %v", actual, expected)
	}
}

func IntPtrEqual(t *testing.T, actual *int, expected int) {
	t.Helper()

	if actual == nil {
		t.Errorf("got: nil; want %d", expected)
		return
	}
	if *actual != expected {
		t.Errorf("got: %d; want %d", *actual, expected)
	}
}
