package domain

import "errors"

var (
	// ErrConversationNotFound is returned when a conversation ID does not
	// resolve to a stored conversation. Handlers map it to 404.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrInvalidRole is returned for message roles outside user/assistant/system.
	ErrInvalidRole = errors.New("role must be user/assistant/system")

	// ErrTaskNotFound is returned when a background task ID is unknown.
	ErrTaskNotFound = errors.New("task not found")
)
