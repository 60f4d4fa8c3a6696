// Package testkit holds the assertions and seam helpers shared by package tests.
package testkit

import (
	"strings"
	"sync"
	"testing"
)

// Swap replaces *target for the rest of the test.
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	orig := *target
	*target = replacement
	t.Cleanup(func() { *target = orig })
}

var serial sync.Mutex

// Serial holds a process-wide lock until the test ends. Tests that swap
// package-level seams or the root logger take it.
func Serial(t *testing.T) {
	t.Helper()
	serial.Lock()
	t.Cleanup(serial.Unlock)
}

func MustPanic(t *testing.T, fn func()) {
	t.Helper()
	if v, ok := catch(fn); !ok {
		t.Fatalf("expected panic, got none")
	} else {
		t.Logf("panicked: %v", v)
	}
}

func MustNotPanic(t *testing.T, fn func()) {
	t.Helper()
	if v, ok := catch(fn); ok {
		t.Fatalf("unexpected panic: %v", v)
	}
}

// MustContain fails with the full haystack when needle is missing.
func MustContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("missing %q in:\n%s", needle, haystack)
	}
}

func catch(fn func()) (v any, panicked bool) {
	defer func() {
		if v = recover(); v != nil {
			panicked = true
		}
	}()
	fn()
	return nil, false
}
