// SPDX-License-Identifier: MPL-2.0

package remote

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidHostAddress is the sentinel error wrapped by InvalidHostAddressError.
	ErrInvalidHostAddress = errors.New("invalid host address")
	// ErrInvalidTokenValue is the sentinel error wrapped by InvalidTokenValueError.
	ErrInvalidTokenValue = errors.New("invalid token value")
	// ErrInvalidListenPort is the sentinel error wrapped by InvalidListenPortError.
	ErrInvalidListenPort = errors.New("invalid listen port")
	// ErrInvalidServeConfig is the sentinel error wrapped by InvalidServeConfigError.
	ErrInvalidServeConfig = errors.New("invalid share server config")
)

type (
	// HostAddress is a network host (IP or hostname) the server binds to.
	// A valid address is non-empty and not whitespace-only.
	HostAddress string

	// TokenValue is the secret a client presents as the SSH password.
	// A valid token is non-empty and not whitespace-only.
	TokenValue string

	// ListenPort is a TCP port. Zero asks the kernel for a free port.
	ListenPort int

	// InvalidHostAddressError is returned when a HostAddress is empty or
	// whitespace-only.
	InvalidHostAddressError struct {
		Value HostAddress
	}

	// InvalidTokenValueError is returned when a TokenValue is empty or
	// whitespace-only.
	InvalidTokenValueError struct {
		Value TokenValue
	}

	// InvalidListenPortError is returned when a ListenPort is outside 0-65535.
	InvalidListenPortError struct {
		Value ListenPort
	}

	// InvalidServeConfigError is returned when a server Config has invalid
	// fields. It wraps ErrInvalidServeConfig for errors.Is and collects the
	// field-level validation errors.
	InvalidServeConfigError struct {
		FieldErrors []error
	}
)

// String returns the string representation of the HostAddress.
func (h HostAddress) String() string { return string(h) }

// IsValid returns whether the HostAddress is non-empty after trimming, and a
// list of validation errors if it is not.
func (h HostAddress) IsValid() (bool, []error) {
	if strings.TrimSpace(string(h)) == "" {
		return false, []error{&InvalidHostAddressError{Value: h}}
	}
	return true, nil
}

// String returns the string representation of the TokenValue.
func (t TokenValue) String() string { return string(t) }

// IsValid returns whether the TokenValue is non-empty after trimming, and a
// list of validation errors if it is not.
func (t TokenValue) IsValid() (bool, []error) {
	if strings.TrimSpace(string(t)) == "" {
		return false, []error{&InvalidTokenValueError{Value: t}}
	}
	return true, nil
}

// String returns the decimal representation of the ListenPort.
func (p ListenPort) String() string { return strconv.Itoa(int(p)) }

// IsValid returns whether the ListenPort is within 0-65535, and a list of
// validation errors if it is not.
func (p ListenPort) IsValid() (bool, []error) {
	if p < 0 || p > 65535 {
		return false, []error{&InvalidListenPortError{Value: p}}
	}
	return true, nil
}

// IsValid returns whether every validated Config field is valid. When any
// field is invalid it returns a single InvalidServeConfigError collecting
// the field errors.
func (c Config) IsValid() (bool, []error) {
	var fieldErrs []error

	if ok, errs := c.Host.IsValid(); !ok {
		fieldErrs = append(fieldErrs, errs...)
	}
	if ok, errs := c.Port.IsValid(); !ok {
		fieldErrs = append(fieldErrs, errs...)
	}

	if len(fieldErrs) > 0 {
		return false, []error{&InvalidServeConfigError{FieldErrors: fieldErrs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidHostAddressError.
func (e *InvalidHostAddressError) Error() string {
	return fmt.Sprintf("invalid host address %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidHostAddress for errors.Is compatibility.
func (e *InvalidHostAddressError) Unwrap() error { return ErrInvalidHostAddress }

// Error implements the error interface for InvalidTokenValueError.
func (e *InvalidTokenValueError) Error() string {
	return fmt.Sprintf("invalid token value %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidTokenValue for errors.Is compatibility.
func (e *InvalidTokenValueError) Unwrap() error { return ErrInvalidTokenValue }

// Error implements the error interface for InvalidListenPortError.
func (e *InvalidListenPortError) Error() string {
	return fmt.Sprintf("invalid listen port %d: must be between 0 and 65535", e.Value)
}

// Unwrap returns ErrInvalidListenPort for errors.Is compatibility.
func (e *InvalidListenPortError) Unwrap() error { return ErrInvalidListenPort }

// Error implements the error interface for InvalidServeConfigError.
func (e *InvalidServeConfigError) Error() string {
	return fmt.Sprintf("invalid share server config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidServeConfig for errors.Is compatibility.
func (e *InvalidServeConfigError) Unwrap() error { return ErrInvalidServeConfig }
