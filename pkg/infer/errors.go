package infer

import "errors"

var (
	// ErrModelNotFound means the ONNX model file does not exist.
	ErrModelNotFound = errors.New("infer: model file not found")

	// ErrModelLoad means the model file exists but could not be loaded.
	ErrModelLoad = errors.New("infer: failed to load model")

	// ErrBadOutput means the model produced a tensor with an unexpected
	// shape. The provider only supports single-class heads.
	ErrBadOutput = errors.New("infer: unexpected model output shape")

	// ErrEmptyImage means the input image could not be decoded.
	ErrEmptyImage = errors.New("infer: empty or undecodable image")
)
