package records

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (host unreachable, reset, etc.)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeHTTP indicates an HTTP-level error (unexpected status code)
	ErrTypeHTTP
	// ErrTypeParse indicates a parsing error (malformed JSON, invalid response)
	ErrTypeParse
	// ErrTypeValidation indicates the record was rejected before sending
	ErrTypeValidation
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the server refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeUnknown indicates an unknown or unexpected error
	ErrTypeUnknown
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeValidation:
		return "Validation Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is returned by every Client operation that fails. The caller keeps
// its current state; nothing is retried.
type Error struct {
	Type       ErrorType // Category of error
	Operation  string    // Client operation, e.g. "page" or "delete"
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Err        error     // Underlying error (if any)
}

// Error implements the error interface
func (e *Error) Error() string {
	prefix := e.Type.String()
	if e.Operation != "" {
		prefix = e.Operation + ": " + prefix
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError analyzes a transport error and returns a typed Error
func ClassifyNetworkError(err error) *Error {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) || errors.Is(err, os.ErrDeadlineExceeded) {
		return &Error{Type: ErrTypeTimeout, Message: "Request timed out", Err: err}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{
			Type:    ErrTypeDNS,
			Message: fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:     err,
		}
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return &Error{Type: ErrTypeConnectionRefused, Message: "Server refused connection", Err: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != err {
		classified := ClassifyNetworkError(urlErr.Err)
		classified.Err = err
		return classified
	}

	return &Error{Type: ErrTypeNetwork, Message: "Network error occurred", Err: err}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(message string, err error) *Error {
	classified := ClassifyNetworkError(err)
	if classified == nil {
		return &Error{Type: ErrTypeNetwork, Message: message}
	}
	classified.Message = message
	return classified
}

// NewHTTPError creates an HTTP-level error
func NewHTTPError(statusCode int, message string) *Error {
	return &Error{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *Error {
	return &Error{Type: ErrTypeParse, Message: message, Err: err}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *Error {
	return &Error{Type: ErrTypeValidation, Message: message}
}

func asError(err error) (*Error, bool) {
	var recErr *Error
	if errors.As(err, &recErr) {
		return recErr, true
	}
	return nil, false
}

// IsNetworkError checks if an error is a network error (including timeout, connection refused, DNS)
func IsNetworkError(err error) bool {
	if recErr, ok := asError(err); ok {
		return recErr.Type == ErrTypeNetwork ||
			recErr.Type == ErrTypeTimeout ||
			recErr.Type == ErrTypeConnectionRefused ||
			recErr.Type == ErrTypeDNS
	}
	return false
}

// IsHTTPError checks if an error is an HTTP error
func IsHTTPError(err error) bool {
	recErr, ok := asError(err)
	return ok && recErr.Type == ErrTypeHTTP
}

// IsNotFound reports whether the server answered 404
func IsNotFound(err error) bool {
	recErr, ok := asError(err)
	return ok && recErr.Type == ErrTypeHTTP && recErr.StatusCode == http.StatusNotFound
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	recErr, ok := asError(err)
	return ok && recErr.Type == ErrTypeParse
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	recErr, ok := asError(err)
	return ok && recErr.Type == ErrTypeValidation
}

// GetTroubleshootingHint returns user-friendly troubleshooting advice for an error
func GetTroubleshootingHint(err error) string {
	recErr, ok := asError(err)
	if !ok {
		return "An unexpected error occurred. Please try again."
	}

	switch recErr.Type {
	case ErrTypeTimeout:
		return strings.Join([]string{
			"The record server did not respond in time.",
			"Troubleshooting:",
			"  • Check that gymlog-server is running",
			"  • Try a longer --timeout",
		}, "\n")

	case ErrTypeConnectionRefused:
		return strings.Join([]string{
			"The record server refused the connection.",
			"Troubleshooting:",
			"  • Start the server: gymlog-server --addr :8080",
			"  • Check the port in --server or the config file",
			"  • Run 'gymlog scan' to find servers on the local network",
		}, "\n")

	case ErrTypeDNS:
		return strings.Join([]string{
			"Could not resolve the server hostname.",
			"Troubleshooting:",
			"  • Use the IP address instead of the hostname",
			"  • Run 'gymlog scan' to find servers on the local network",
		}, "\n")

	case ErrTypeNetwork:
		return strings.Join([]string{
			"Network communication failed.",
			"Troubleshooting:",
			"  • Check your network connection",
			"  • Verify the server URL with 'gymlog config show'",
		}, "\n")

	case ErrTypeHTTP:
		switch {
		case recErr.StatusCode == http.StatusNotFound:
			return "The record or endpoint was not found. Check the base path (default /gym)."
		case recErr.StatusCode >= 500:
			return fmt.Sprintf("The record server failed (HTTP %d). Check the server log.", recErr.StatusCode)
		}
		return fmt.Sprintf("The record server rejected the request (HTTP %d).", recErr.StatusCode)

	case ErrTypeParse:
		return strings.Join([]string{
			"Failed to parse the server's response.",
			"Troubleshooting:",
			"  • Check that the server URL points at a gymlog record server",
			"  • Check the base path (default /gym)",
		}, "\n")

	case ErrTypeValidation:
		return "The record is invalid. Check the error message for details."

	default:
		return "An error occurred. Please check the error message for details."
	}
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	recErr, ok := asError(err)
	if !ok {
		return err.Error()
	}

	switch recErr.Type {
	case ErrTypeTimeout:
		return "Server not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Server refused connection - is gymlog-server running?"
	case ErrTypeDNS:
		return "Cannot resolve server hostname"
	case ErrTypeNetwork:
		return "Network error - check connection"
	case ErrTypeHTTP:
		if recErr.StatusCode == http.StatusNotFound {
			return "Not found (HTTP 404)"
		}
		return fmt.Sprintf("Server error (HTTP %d)", recErr.StatusCode)
	case ErrTypeParse:
		return "Failed to parse server response"
	default:
		return recErr.Message
	}
}
