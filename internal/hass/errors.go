package hass

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"

	"github.com/pr8x/hadeck/internal/urls"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (connection refused, timeout, etc.)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeAuth indicates an authentication failure (invalid or expired token)
	ErrTypeAuth
	// ErrTypeHTTP indicates an HTTP-level error (non-2xx status code)
	ErrTypeHTTP
	// ErrTypeParse indicates a parsing error (malformed JSON, invalid response)
	ErrTypeParse
	// ErrTypeNotFound indicates the requested entity does not exist
	ErrTypeNotFound
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the server refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeAuth:
		return "Authentication Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeNotFound:
		return "Not Found"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// APIError represents an error that occurred while talking to Home Assistant
type APIError struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Err        error     // Underlying error (if any)
	Retryable  bool      // Whether the error is retryable
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *APIError) Unwrap() error {
	return e.Err
}

// classifyNetworkError analyzes a transport error and returns a more
// specific error type
func classifyNetworkError(message string, err error) *APIError {
	if os.IsTimeout(err) {
		return &APIError{
			Type:      ErrTypeTimeout,
			Message:   message,
			Err:       err,
			Retryable: true,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &APIError{
			Type:      ErrTypeDNS,
			Message:   fmt.Sprintf("%s: DNS resolution failed for %s", message, dnsErr.Name),
			Err:       err,
			Retryable: false,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return &APIError{
			Type:      ErrTypeConnectionRefused,
			Message:   message,
			Err:       err,
			Retryable: true,
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		// Recursively classify the underlying error
		return classifyNetworkError(message, urlErr.Err)
	}

	return &APIError{
		Type:      ErrTypeNetwork,
		Message:   message,
		Err:       err,
		Retryable: true,
	}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(message string, err error) *APIError {
	return classifyNetworkError(message, err)
}

// NewAuthError creates an authentication error
func NewAuthError(message string) *APIError {
	return &APIError{
		Type:       ErrTypeAuth,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
		Retryable:  false,
	}
}

// NewHTTPError creates an HTTP-level error
func NewHTTPError(statusCode int, message string) *APIError {
	return &APIError{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  statusCode >= 500, // Server errors are retryable
	}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *APIError {
	return &APIError{
		Type:      ErrTypeParse,
		Message:   message,
		Err:       err,
		Retryable: false,
	}
}

// NewNotFoundError creates an error for a missing entity
func NewNotFoundError(entityID string) *APIError {
	return &APIError{
		Type:       ErrTypeNotFound,
		Message:    fmt.Sprintf("entity %s does not exist", entityID),
		StatusCode: http.StatusNotFound,
		Retryable:  false,
	}
}

// IsAuthError checks if an error is an authentication error
func IsAuthError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Type == ErrTypeAuth
}

// IsNotFound checks if an error indicates a missing entity
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Type == ErrTypeNotFound
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable
	}
	// Unknown errors are not retryable by default
	return false
}

// ShortErrorMessage returns a concise, user-friendly error message
func ShortErrorMessage(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}

	switch apiErr.Type {
	case ErrTypeTimeout:
		return "Server not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Server refused connection - is Home Assistant running?"
	case ErrTypeDNS:
		return "Cannot resolve server hostname"
	case ErrTypeAuth:
		return "Authentication failed - check your access token"
	case ErrTypeNotFound:
		return apiErr.Message
	case ErrTypeHTTP:
		return fmt.Sprintf("Server error (HTTP %d)", apiErr.StatusCode)
	case ErrTypeParse:
		return "Failed to parse server response"
	default:
		return apiErr.Message
	}
}

// TroubleshootingHint returns user-friendly troubleshooting advice for an error
func TroubleshootingHint(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return "An unexpected error occurred. Please try again."
	}

	switch apiErr.Type {
	case ErrTypeTimeout, ErrTypeConnectionRefused, ErrTypeNetwork:
		return strings.Join([]string{
			"Could not reach the Home Assistant server.",
			"Troubleshooting:",
			"  • Check that Home Assistant is running",
			"  • Verify the server URL (default port is 8123)",
			"  • Try 'hadeck scan' to discover the server via mDNS",
			"  • See " + urls.NetworkTroubleshooting,
		}, "\n")

	case ErrTypeDNS:
		return strings.Join([]string{
			"Could not resolve the server hostname.",
			"Troubleshooting:",
			"  • Use the IP address instead of the hostname",
			"  • Verify you're on the same network as the server",
		}, "\n")

	case ErrTypeAuth:
		return strings.Join([]string{
			"The access token was rejected.",
			"Troubleshooting:",
			"  • Create a long-lived access token in your Home Assistant",
			"    profile (Security tab) and run 'hadeck login'",
			"  • Tokens are revoked when the owning user is deleted",
			"  • See " + urls.LongLivedTokens,
		}, "\n")

	case ErrTypeNotFound:
		return strings.Join([]string{
			apiErr.Message + ".",
			"Troubleshooting:",
			"  • Check the entity ID spelling (e.g. climate.living_room)",
			"  • Run 'hadeck entities' to list available climate entities",
		}, "\n")

	case ErrTypeHTTP:
		if apiErr.StatusCode >= 500 {
			return fmt.Sprintf("The server returned an error (HTTP %d). Check the Home Assistant logs.", apiErr.StatusCode)
		}
		return fmt.Sprintf("The server returned HTTP %d. Check the request parameters.", apiErr.StatusCode)

	case ErrTypeParse:
		return "Failed to parse the server's response. Check that the URL points at a Home Assistant instance."

	default:
		return "An error occurred. Please check the error message for details."
	}
}
