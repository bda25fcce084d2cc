package frameloop

import (
	"sync/atomic"

	"github.com/strayware/go-wisp/internal/log"
	"github.com/strayware/go-wisp/pkg/detect"
	"github.com/strayware/go-wisp/pkg/scene"
)

// Frame is one camera frame handed to the pipeline.
type Frame struct {
	Image  []byte // Encoded image bytes
	Width  int    // Original image width in pixels
	Height int    // Original image height in pixels
}

// Inferencer runs the detection model on a frame image. Failures abort
// the current frame's processing only; the pipeline resumes with the
// next admitted frame.
type Inferencer interface {
	Predict(image []byte) (*detect.Prediction, error)
}

// Result summarizes one ProcessFrame call.
type Result struct {
	Dropped    bool // Frame rejected by the admission guard
	Detections []detect.Detection
	Placed     int // New objects placed this frame
}

// Stats are cumulative pipeline counters.
type Stats struct {
	Processed uint64 `json:"processed"`
	Dropped   uint64 `json:"dropped"`
	Failed    uint64 `json:"failed"`
	Placed    uint64 `json:"placed"`
}

// Pipeline wires the frame path together: admission guard, inference,
// decoding, coordinate mapping, placement.
type Pipeline struct {
	guard    Guard
	infer    Inferencer
	decoder  *detect.Decoder
	mapper   *scene.Mapper
	registry *scene.Registry

	processed atomic.Uint64
	dropped   atomic.Uint64
	failed    atomic.Uint64
	placed    atomic.Uint64
}

// New assembles a pipeline from an inference provider and the scene
// components.
func New(infer Inferencer, decoder *detect.Decoder, mapper *scene.Mapper, registry *scene.Registry) *Pipeline {
	return &Pipeline{
		infer:    infer,
		decoder:  decoder,
		mapper:   mapper,
		registry: registry,
	}
}

// ProcessFrame runs one frame through the pipeline. A frame arriving
// while another is in flight is dropped. Per-frame transient failures
// (inference errors, empty hit-tests) skip the frame silently; the
// guard is released on every path.
func (p *Pipeline) ProcessFrame(f Frame) Result {
	if !p.guard.TryBegin() {
		p.dropped.Add(1)
		return Result{Dropped: true}
	}
	defer p.guard.End()

	pred, err := p.infer.Predict(f.Image)
	if err != nil {
		p.failed.Add(1)
		log.Debug("inference failed, skipping frame", "err", err)
		return Result{}
	}

	dets := p.decoder.Decode(pred, float64(f.Width), float64(f.Height))

	placed := 0
	for _, d := range dets {
		x, y := d.Center()
		anchor, ok := p.mapper.Anchor(x, y)
		if !ok {
			continue
		}
		if obj := p.registry.PlaceIfAbsent(anchor); obj != nil {
			placed++
		} else {
			// Dedup rejection: release the unused anchor.
			anchor.Detach()
		}
	}

	p.processed.Add(1)
	p.placed.Add(uint64(placed))
	return Result{Detections: dets, Placed: placed}
}

// Busy reports whether a frame is currently being processed.
func (p *Pipeline) Busy() bool {
	return p.guard.Busy()
}

// Stats returns a snapshot of the cumulative counters.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Processed: p.processed.Load(),
		Dropped:   p.dropped.Load(),
		Failed:    p.failed.Load(),
		Placed:    p.placed.Load(),
	}
}
