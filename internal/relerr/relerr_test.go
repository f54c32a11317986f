package relerr

import (
	"errors"
	"io"
	"testing"

	"github.com/relaymesh/etherrelay/internal/registry"
)

func TestErrorIsMatchesDomainAndCode(t *testing.T) {
	e1 := New(DomainRegistry, RegistryNotFound, "get_state")
	e2 := New(DomainRegistry, RegistryNotFound, "deregister")

	if !errors.Is(e1, e2) {
		t.Fatalf("expected errors with same domain/code to match via errors.Is")
	}

	e3 := New(DomainRegistry, RegistryDuplicate, "register")
	if errors.Is(e1, e3) {
		t.Fatalf("expected errors with different codes not to match")
	}
}

func TestWrapPreservesInnerForUnwrap(t *testing.T) {
	inner := errors.New("boom")
	wrapped := Wrap(DomainPlatform, PlatformSend, "send", inner)

	if !errors.Is(wrapped, inner) {
		t.Fatalf("expected errors.Is to see through to the wrapped cause")
	}
}

func TestMessageTableCoversKnownCodes(t *testing.T) {
	if Message(DomainRegistry, RegistryNotFound) == "unrecognized error code" {
		t.Fatalf("expected a known message for RegistryNotFound")
	}
	if Message(DomainThreadResult, ThreadQueueFull) == "unrecognized error code" {
		t.Fatalf("expected a known message for ThreadQueueFull")
	}
}

func TestMapNetErrClassifiesEOFAsPeerShutdown(t *testing.T) {
	if got := MapNetErr(io.EOF); got != PlatformPeerShutdown {
		t.Fatalf("MapNetErr(io.EOF) = %v, want PlatformPeerShutdown", got)
	}
}

func TestMapRegistryErrClassifiesKnownSentinels(t *testing.T) {
	cases := []struct {
		err  error
		want Code
	}{
		{registry.ErrNotFound, RegistryNotFound},
		{registry.ErrDuplicateLabel, RegistryDuplicate},
		{registry.ErrInvalidTransition, RegistryInvalidStateTransition},
		{registry.ErrUnauthorized, RegistryUnauthorized},
		{errors.New("unmapped"), RegistryRegistrationFailed},
	}
	for _, c := range cases {
		if got := MapRegistryErr(c.err); got != c.want {
			t.Errorf("MapRegistryErr(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestCodeOfExtractsMatchingDomain(t *testing.T) {
	err := New(DomainRegistry, RegistryDuplicate, "register")
	code, ok := CodeOf(err, DomainRegistry)
	if !ok || code != RegistryDuplicate {
		t.Fatalf("CodeOf = (%v, %v), want (RegistryDuplicate, true)", code, ok)
	}

	if _, ok := CodeOf(err, DomainPlatform); ok {
		t.Fatalf("expected CodeOf to fail for mismatched domain")
	}
}
