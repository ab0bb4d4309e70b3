package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Streaming service and identity errors
	ErrUnknownService     = fmt.Errorf("unknown streaming service")
	ErrUnknownServiceCode = fmt.Errorf("unknown streaming service code")
	ErrEmptyIdentifier    = fmt.Errorf("empty stream identifier")
	ErrInvalidURL         = fmt.Errorf("invalid stream URL")
	ErrInvalidToken       = fmt.Errorf("invalid token")
	ErrNoDetector         = fmt.Errorf("no detector registered")
	ErrNoBuilder          = fmt.Errorf("no chat frame builder registered")
	ErrTooManyEntries     = fmt.Errorf("too many entries")
	ErrEntryNotFound      = fmt.Errorf("entry not found")

	// Chat list errors
	ErrEmptyList    = fmt.Errorf("chat list is empty")
	ErrNodeNotFound = fmt.Errorf("chat not found in the list")

	// Lookup and service errors
	ErrLookupFailed       = fmt.Errorf("streamer lookup failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrAPIRequest         = fmt.Errorf("API request failed")

	// Storage errors
	ErrStorage = fmt.Errorf("storage failure")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
