package main

import (
	"errors"

	"github.com/citefeed/citefeed/internal/bundle"
	"github.com/citefeed/citefeed/internal/config"
	"github.com/citefeed/citefeed/internal/faculty"
	"github.com/citefeed/citefeed/internal/ntriples"
	"github.com/citefeed/citefeed/internal/sparql"
	"github.com/citefeed/citefeed/internal/vocab"
)

// Exit codes.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing endpoint, credentials, bad config file)
	ExitDataError   = 3 // Data error (malformed statement in strict mode, bad faculty export)
	ExitAuthError   = 4 // Endpoint rejected the credentials
	ExitAPIError    = 5 // Endpoint error (non-2xx, rate limit, network)
)

// exitCodeFor maps an error returned by a pipeline or client call to an
// exit code.
func exitCodeFor(err error) int {
	var (
		malformed   *ntriples.MalformedStatementError
		unsupported *ntriples.UnsupportedLiteralFormError
		badID       *vocab.IdentifierExtractionError
		apiErr      *sparql.APIError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case sparql.IsAuthError(err):
		return ExitAuthError
	case errors.As(err, &apiErr),
		errors.Is(err, sparql.ErrRateLimited),
		errors.Is(err, sparql.ErrNetworkError),
		errors.Is(err, sparql.ErrEmptyResponse):
		return ExitAPIError
	case errors.Is(err, config.ErrEndpointNotConfigured),
		errors.Is(err, config.ErrCredentialsMissing):
		return ExitConfigError
	case errors.As(err, &malformed),
		errors.As(err, &unsupported),
		errors.As(err, &badID),
		errors.Is(err, faculty.ErrMissingColumns),
		errors.Is(err, bundle.ErrInvalidAuthorID):
		return ExitDataError
	default:
		return ExitError
	}
}
