package provider

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCredential marks failures caused by a rejected API key. Callers
// use errors.Is to distinguish these from transient network or model errors,
// because the two get very different handling: an invalid key must be
// cleared and re-prompted, everything else is reported inline.
var ErrInvalidCredential = errors.New("invalid API credential")

// invalidCredential wraps err so it matches ErrInvalidCredential while
// keeping the underlying message.
func invalidCredential(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidCredential, err)
}

// looksLikeAuthError catches providers that report key problems only in the
// message text rather than with a status code.
func looksLikeAuthError(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "api key not valid") ||
		strings.Contains(lower, "api_key_invalid") ||
		strings.Contains(lower, "invalid api key") ||
		strings.Contains(lower, "invalid x-api-key") ||
		strings.Contains(lower, "incorrect api key")
}
