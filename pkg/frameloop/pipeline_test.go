package frameloop

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strayware/go-wisp/pkg/detect"
	"github.com/strayware/go-wisp/pkg/scene"
)

// mockInferencer returns a canned prediction, optionally blocking until
// released to simulate a slow pass.
type mockInferencer struct {
	pred *detect.Prediction
	err  error

	block chan struct{} // When non-nil, Predict waits on it
}

func (m *mockInferencer) Predict(image []byte) (*detect.Prediction, error) {
	if m.block != nil {
		<-m.block
	}
	return m.pred, m.err
}

// singleBoxPrediction builds a tensor with one confident centered box.
func singleBoxPrediction(t *testing.T) *detect.Prediction {
	t.Helper()
	data := []float32{0.5, 0.5, 0.2, 0.2, 0.9} // cx, cy, w, h, conf for N=1
	pred, err := detect.NewPrediction(data, 1)
	require.NoError(t, err)
	return pred
}

func newTestPipeline(t *testing.T, infer Inferencer, tester scene.HitTester) (*Pipeline, *scene.Registry) {
	t.Helper()
	dec, err := detect.NewDecoder(detect.Config{
		ConfidenceThresh: 0.5,
		IoUThresh:        0.45,
		MaxDetections:    10,
		Labels:           []string{"object"},
	})
	require.NoError(t, err)

	reg := scene.NewRegistry(&scene.MockRenderer{}, 0.03)
	return New(infer, dec, scene.NewMapper(tester), reg), reg
}

func testFrame() Frame {
	return Frame{Image: []byte("jpeg"), Width: 640, Height: 480}
}

func TestPipeline_PlacesDetection(t *testing.T) {
	infer := &mockInferencer{pred: singleBoxPrediction(t)}
	tester := &scene.PlanarHitTester{FrameWidth: 640, FrameHeight: 480, Extent: 2}

	p, reg := newTestPipeline(t, infer, tester)
	res := p.ProcessFrame(testFrame())

	assert.False(t, res.Dropped)
	require.Len(t, res.Detections, 1)
	assert.Equal(t, 1, res.Placed)
	assert.Equal(t, 1, reg.Count())

	// The new placement becomes the selection.
	assert.NotNil(t, reg.Selected())

	stats := p.Stats()
	assert.EqualValues(t, 1, stats.Processed)
	assert.EqualValues(t, 1, stats.Placed)
}

func TestPipeline_DropsFrameWhileBusy(t *testing.T) {
	block := make(chan struct{})
	infer := &mockInferencer{pred: singleBoxPrediction(t), block: block}
	tester := &scene.MockHitTester{}

	p, _ := newTestPipeline(t, infer, tester)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.ProcessFrame(testFrame())
	}()

	// Wait for the first frame to claim the guard.
	for !p.Busy() {
		time.Sleep(time.Millisecond)
	}

	res := p.ProcessFrame(testFrame())
	assert.True(t, res.Dropped)

	close(block)
	wg.Wait()

	stats := p.Stats()
	assert.EqualValues(t, 1, stats.Dropped)
	assert.EqualValues(t, 1, stats.Processed)
}

func TestPipeline_InferenceFailureReleasesGuard(t *testing.T) {
	infer := &mockInferencer{err: errors.New("model exploded")}
	p, reg := newTestPipeline(t, infer, &scene.MockHitTester{})

	res := p.ProcessFrame(testFrame())
	assert.False(t, res.Dropped)
	assert.Empty(t, res.Detections)
	assert.Zero(t, reg.Count())
	assert.False(t, p.Busy(), "guard must be released after a failure")

	// The next frame is admitted normally.
	infer.err = nil
	infer.pred = singleBoxPrediction(t)
	res = p.ProcessFrame(testFrame())
	assert.False(t, res.Dropped)
	assert.Len(t, res.Detections, 1)

	stats := p.Stats()
	assert.EqualValues(t, 1, stats.Failed)
}

func TestPipeline_EmptyHitTestSkipsPlacement(t *testing.T) {
	infer := &mockInferencer{pred: singleBoxPrediction(t)}
	p, reg := newTestPipeline(t, infer, &scene.MockHitTester{}) // No hits

	res := p.ProcessFrame(testFrame())
	assert.Len(t, res.Detections, 1)
	assert.Zero(t, res.Placed)
	assert.Zero(t, reg.Count())
}

func TestPipeline_DedupAcrossFrames(t *testing.T) {
	infer := &mockInferencer{pred: singleBoxPrediction(t)}
	tester := &scene.PlanarHitTester{FrameWidth: 640, FrameHeight: 480, Extent: 2}

	p, reg := newTestPipeline(t, infer, tester)

	// Same detection on two consecutive frames maps to the same world
	// point: the second placement is rejected by the dedup margin.
	res := p.ProcessFrame(testFrame())
	assert.Equal(t, 1, res.Placed)

	res = p.ProcessFrame(testFrame())
	assert.Zero(t, res.Placed)
	assert.Equal(t, 1, reg.Count())
}
