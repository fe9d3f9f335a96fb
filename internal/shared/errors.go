package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Credential / profile errors (fatal for the current invocation)
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrProfileNotFound    = fmt.Errorf("profile not found")

	// Retrieval errors (abort the current list invocation only)
	ErrListFetch      = fmt.Errorf("list retrieval failed")
	ErrInventoryFetch = fmt.Errorf("inventory retrieval failed")

	// API and service errors
	ErrAPIRequest    = fmt.Errorf("API request failed")
	ErrNotFound      = fmt.Errorf("not found")
	ErrAlreadyExists = fmt.Errorf("already exists")
	ErrUnsupported   = fmt.Errorf("unsupported operation")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
