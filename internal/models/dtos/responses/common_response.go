package responses

import "time"

// APIResponse is the envelope every endpoint returns: status "success" or
// "error", a server timestamp, and either data or an error message.
type APIResponse[T any] struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
	Data      *T        `json:"data,omitempty"`
}
