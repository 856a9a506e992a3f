package conversation

import "errors"

var (
	// ErrEmptyMessage rejects a blank message before routing.
	ErrEmptyMessage = errors.New("conversation: message cannot be empty")
	// ErrModelUnavailable wraps language model failures and timeouts.
	ErrModelUnavailable = errors.New("conversation: language model unavailable")
)
