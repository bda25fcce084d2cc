// Package infer runs the on-device detection model and hands its raw
// output tensor to the decoder.
package infer

import (
	"github.com/strayware/go-wisp/pkg/detect"
)

// Provider runs a single-frame forward pass and returns the raw
// prediction tensor. Implementations must be safe for use from one
// goroutine at a time; the frame loop serializes calls.
type Provider interface {
	// Predict runs the model on an encoded image (JPEG or PNG).
	Predict(image []byte) (*detect.Prediction, error)

	// Close releases model resources.
	Close() error
}

// Config holds model provider configuration.
type Config struct {
	ModelPath   string // Path to the ONNX model file
	InputWidth  int    // Model input width in pixels
	InputHeight int    // Model input height in pixels
}

// DefaultConfig returns defaults for the bundled single-class model.
func DefaultConfig() Config {
	return Config{
		ModelPath:   "models/wisp-det.onnx",
		InputWidth:  640,
		InputHeight: 480,
	}
}
