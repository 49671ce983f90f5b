package hass

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"testing"
)

func TestClassifyNetworkError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantType      ErrorType
		wantRetryable bool
	}{
		{
			name:          "dns failure",
			err:           &net.DNSError{Name: "homeassistant.local", Err: "no such host"},
			wantType:      ErrTypeDNS,
			wantRetryable: false,
		},
		{
			name:          "connection refused",
			err:           &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED},
			wantType:      ErrTypeConnectionRefused,
			wantRetryable: true,
		},
		{
			name:          "generic network error",
			err:           errors.New("broken pipe"),
			wantType:      ErrTypeNetwork,
			wantRetryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := NewNetworkError("request failed", tt.err)
			if apiErr.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", apiErr.Type, tt.wantType)
			}
			if apiErr.Retryable != tt.wantRetryable {
				t.Errorf("Retryable = %v, want %v", apiErr.Retryable, tt.wantRetryable)
			}
		})
	}
}

func TestHTTPErrorRetryability(t *testing.T) {
	if !NewHTTPError(503, "unavailable").Retryable {
		t.Error("5xx errors should be retryable")
	}
	if NewHTTPError(400, "bad request").Retryable {
		t.Error("4xx errors should not be retryable")
	}
}

func TestErrorPredicates(t *testing.T) {
	authErr := NewAuthError("token rejected")
	if !IsAuthError(authErr) {
		t.Error("IsAuthError should match auth errors")
	}
	if IsAuthError(errors.New("other")) {
		t.Error("IsAuthError should reject plain errors")
	}

	notFound := NewNotFoundError("climate.missing")
	if !IsNotFound(notFound) {
		t.Error("IsNotFound should match not-found errors")
	}

	// Predicates see through wrapping
	wrapped := fmt.Errorf("fetching state: %w", notFound)
	if !IsNotFound(wrapped) {
		t.Error("IsNotFound should unwrap error chains")
	}

	if IsRetryable(errors.New("unknown")) {
		t.Error("unknown errors must not be retryable")
	}
}

func TestShortErrorMessage(t *testing.T) {
	if got := ShortErrorMessage(NewAuthError("x")); !strings.Contains(got, "Authentication failed") {
		t.Errorf("ShortErrorMessage(auth) = %q", got)
	}
	if got := ShortErrorMessage(NewHTTPError(502, "bad gateway")); !strings.Contains(got, "502") {
		t.Errorf("ShortErrorMessage(http) = %q", got)
	}
	if got := ShortErrorMessage(errors.New("plain")); got != "plain" {
		t.Errorf("ShortErrorMessage(plain) = %q", got)
	}
}

func TestTroubleshootingHintMentionsCommands(t *testing.T) {
	if hint := TroubleshootingHint(NewAuthError("x")); !strings.Contains(hint, "hadeck login") {
		t.Errorf("auth hint should point at the login command, got %q", hint)
	}
	if hint := TroubleshootingHint(NewNotFoundError("climate.x")); !strings.Contains(hint, "hadeck entities") {
		t.Errorf("not-found hint should point at the entities command, got %q", hint)
	}
}
