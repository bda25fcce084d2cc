package detect

import "errors"

var (
	// ErrBadShape is returned when tensor data does not match the
	// expected [1][5][N] layout.
	ErrBadShape = errors.New("detect: tensor shape mismatch")

	// ErrBadThreshold is returned when a threshold is outside (0, 1).
	ErrBadThreshold = errors.New("detect: threshold out of range")

	// ErrNoLabels is returned when the label table is empty.
	ErrNoLabels = errors.New("detect: label table required")
)
