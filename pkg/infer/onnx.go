package infer

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/strayware/go-wisp/pkg/detect"
)

// ONNXProvider runs a single-class detection head exported to ONNX.
// The model takes one RGB image and emits a [1, 5, N] tensor of
// (cx, cy, w, h, confidence) rows in normalized coordinates.
type ONNXProvider struct {
	net       gocv.Net
	cfg       Config
	mu        sync.Mutex
	inputSize image.Point
}

// NewONNX loads the ONNX model and prepares it for CPU inference.
func NewONNX(cfg Config) (*ONNXProvider, error) {
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, cfg.ModelPath)
	}

	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrModelLoad, cfg.ModelPath)
	}

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &ONNXProvider{
		net:       net,
		cfg:       cfg,
		inputSize: image.Pt(cfg.InputWidth, cfg.InputHeight),
	}, nil
}

// Predict decodes the image, runs a forward pass, and copies the
// output tensor out of OpenCV-owned memory.
func (p *ONNXProvider) Predict(encoded []byte) (*detect.Prediction, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	img, err := gocv.IMDecode(encoded, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	defer img.Close()

	if img.Empty() {
		return nil, ErrEmptyImage
	}

	blob := gocv.BlobFromImage(img, 1.0/255.0, p.inputSize, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	p.net.SetInput(blob, "")

	output := p.net.Forward("")
	defer output.Close()

	// Output shape: [1, 5, N]. Rows carry the attributes, columns the
	// candidate boxes.
	attrs := output.Rows()
	boxes := output.Cols()
	if attrs != detect.TensorAttrs || boxes <= 0 {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrBadOutput, attrs, boxes)
	}

	src, err := output.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read output tensor: %w", err)
	}

	// The Mat's backing memory dies with output.Close; the prediction
	// needs its own copy.
	data := make([]float32, attrs*boxes)
	copy(data, src)

	return detect.NewPrediction(data, boxes)
}

// Close releases the model.
func (p *ONNXProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.net.Close()
}
