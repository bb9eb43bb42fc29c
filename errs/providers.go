package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Upstream provider errors (LLM, search, object storage). Per the error
// design there are no retries: the failure is logged and surfaced as-is.
var (
	ErrLLMNonJSON         = errors.New("model returned non-JSON output")
	ErrSearchProvider     = errors.New("search provider error")
	ErrStorageSigning     = errors.New("storage signing failed")
	ErrProviderConfigured = errors.New("provider not configured")
)

func NewLLMOutputError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrLLMNonJSON,
		Details:    "The model response could not be coerced to valid JSON",
		Cause:      cause,
	}
}

func NewSearchProviderError(provider string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrSearchProvider,
		Details:    fmt.Sprintf("Search provider %s failed", provider),
		Cause:      cause,
	}
}

func NewStorageSigningError(backend string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrStorageSigning,
		Details:    fmt.Sprintf("Failed to sign upload against %s", backend),
		Cause:      cause,
	}
}

func NewProviderNotConfiguredError(provider string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrProviderConfigured,
		Details:    fmt.Sprintf("%s credentials are not configured", provider),
	}
}

func IsLLMOutputError(err error) bool {
	return errors.Is(err, ErrLLMNonJSON)
}

func IsSearchProviderError(err error) bool {
	return errors.Is(err, ErrSearchProvider)
}
