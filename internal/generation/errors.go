package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrUpstream is returned when the external generation service is
	// unavailable or fails for any general reason.
	ErrUpstream = errors.New("upstream generation service failed")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed
	// or does not conform to the fixed response schema.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error calling language model")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
