package credential

import (
	"errors"
	"fmt"
)

// ConfigurationError reports a missing or malformed encryption key.
// It is fatal at startup.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Message
}

// FormatError reports an envelope that is not <iv>:<cipher>:<tag> hex.
type FormatError struct {
	Message string
}

func (e *FormatError) Error() string {
	return "malformed envelope: " + e.Message
}

// AuthenticationError reports an envelope whose tag does not verify,
// either because it was tampered with or the key is wrong.
type AuthenticationError struct {
	Err error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("envelope authentication failed: %v", e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// IsConfigurationError reports whether err (or any error in its chain)
// is a ConfigurationError.
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsFormatError reports whether err (or any error in its chain) is a
// FormatError.
func IsFormatError(err error) bool {
	var target *FormatError
	return errors.As(err, &target)
}

// IsAuthenticationError reports whether err (or any error in its chain)
// is an AuthenticationError.
func IsAuthenticationError(err error) bool {
	var target *AuthenticationError
	return errors.As(err, &target)
}
