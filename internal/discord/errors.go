package discord

import (
	"errors"
	"fmt"
)

// ErrNoAccessToken is returned when the token endpoint answers without
// an access token in the response body
var ErrNoAccessToken = errors.New("token response missing access token")

// UpstreamError reports a non-success response from Discord's API.
// StatusCode is 0 when the request never got a response (transport or
// decode failure).
type UpstreamError struct {
	Operation  string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("discord %s: status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("discord %s: %v", e.Operation, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
