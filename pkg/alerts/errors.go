package alerts

import "errors"

var (
	// ErrInvalidRecipient is returned when a unicast send targets a user that is
	// not subscribed to the topic.
	ErrInvalidRecipient = errors.New("recipient is not subscribed to the topic")

	// ErrNotSubscribed is returned when a user receives an alert of a topic it is not subscribed to.
	ErrNotSubscribed = errors.New("user is not subscribed to the alert topic")

	// ErrUnknownRecipient is returned when the user has no delivery record on the alert.
	ErrUnknownRecipient = errors.New("user is not a recipient of the alert")

	// ErrTopicMismatch is returned when an alert is sent through a topic other than its own,
	// including a same-named topic of another registry.
	ErrTopicMismatch = errors.New("alert belongs to another topic")

	ErrNilAlert       = errors.New("alert is nil")
	ErrEmptyTopicName = errors.New("topic name is required")
	ErrTopicExists    = errors.New("topic already exists")
)
