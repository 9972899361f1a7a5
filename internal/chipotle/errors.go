package chipotle

import (
	"errors"
	"fmt"
)

// Endpoint configuration errors, reported at construction time only.
var (
	ErrMissingEndpoint         = errors.New("endpoint url is missing")
	ErrMissingReplaceToken     = errors.New("endpoint is missing a replace token")
	ErrUnnecessaryReplaceToken = errors.New("endpoint does not take a replace token")
	ErrTokenNotInEndpoint      = errors.New("replace token does not occur in the endpoint url")
)

// ErrAPIKeyNotFound means the client bundle loaded fine but the key pattern
// never matched.
var ErrAPIKeyNotFound = errors.New("api key not found in the client bundle")

// RequestError wraps a network-level failure reaching the upstream.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("the request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// StatusError is a non-2xx response from the upstream.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("the request failed with status code %d", e.Status)
}

// BodyError wraps a failure reading the response body.
type BodyError struct {
	Err error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("the response body could not be read: %v", e.Err)
}

func (e *BodyError) Unwrap() error { return e.Err }

// ParseError wraps a failure decoding the response body as JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unable to parse the response body: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// BuildError reports the fields a menu summary could not be filled with.
// Missing is always in the order restaurant_id, veggie_bowl_price,
// chicken_bowl_price, steak_bowl_price.
type BuildError struct {
	Missing []string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("missing required fields: %v", e.Missing)
}
