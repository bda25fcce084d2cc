package infer

import (
	"sync"

	"github.com/strayware/go-wisp/pkg/detect"
)

// MockProvider returns a canned prediction for every frame. Used in
// tests and for headless demo runs without a model file.
type MockProvider struct {
	mu    sync.Mutex
	calls int

	// Prediction is returned from every Predict call. When nil, Predict
	// returns an empty single-box tensor below any confidence gate.
	Prediction *detect.Prediction

	// Err, when set, makes every Predict call fail.
	Err error
}

// Predict returns the canned prediction or error.
func (m *MockProvider) Predict(encoded []byte) (*detect.Prediction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.Err != nil {
		return nil, m.Err
	}
	if m.Prediction != nil {
		return m.Prediction, nil
	}
	return detect.NewPrediction(make([]float32, detect.TensorAttrs), 1)
}

// Close is a no-op.
func (m *MockProvider) Close() error { return nil }

// Calls returns how many times Predict was invoked.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
