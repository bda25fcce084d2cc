package infer

import (
	"errors"
	"testing"

	"github.com/strayware/go-wisp/pkg/detect"
)

func TestMockProvider_DefaultPrediction(t *testing.T) {
	m := &MockProvider{}

	pred, err := m.Predict(nil)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if pred.Boxes() != 1 {
		t.Errorf("Boxes: got %d, want 1", pred.Boxes())
	}
	if m.Calls() != 1 {
		t.Errorf("Calls: got %d, want 1", m.Calls())
	}
}

func TestMockProvider_CannedPrediction(t *testing.T) {
	want, err := detect.NewPrediction(make([]float32, detect.TensorAttrs*3), 3)
	if err != nil {
		t.Fatal(err)
	}
	m := &MockProvider{Prediction: want}

	got, err := m.Predict([]byte{0xff})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if got != want {
		t.Error("expected the canned prediction back")
	}
}

func TestMockProvider_Error(t *testing.T) {
	wantErr := errors.New("camera fell over")
	m := &MockProvider{Err: wantErr}

	if _, err := m.Predict(nil); !errors.Is(err, wantErr) {
		t.Errorf("Predict err: got %v, want %v", err, wantErr)
	}
}

func TestONNX_MissingModelFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModelPath = "testdata/does-not-exist.onnx"

	if _, err := NewONNX(cfg); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("NewONNX err: got %v, want ErrModelNotFound", err)
	}
}
