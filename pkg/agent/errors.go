package agent

import "errors"

var (
	// ErrCanceled is delivered to a motion request's callback when the
	// request was superseded by a newer one or aborted by Cancel.
	ErrCanceled = errors.New("agent: motion canceled")

	// ErrNoAnchor is returned when navigation is requested before the
	// target has a usable anchor.
	ErrNoAnchor = errors.New("agent: target has no anchor")
)
