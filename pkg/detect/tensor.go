package detect

import "fmt"

// TensorAttrs is the per-box attribute count of the prediction tensor:
// cx, cy, w, h, confidence.
const TensorAttrs = 5

// Attribute row indices within a Prediction.
const (
	attrCX = iota
	attrCY
	attrW
	attrH
	attrConfidence
)

// Prediction is one frame's raw model output, layout [1][5][N]:
// rows 0-3 are normalized (cx, cy, w, h), row 4 is confidence, for N
// candidate boxes. Immutable once constructed.
type Prediction struct {
	data  []float32
	boxes int
}

// NewPrediction wraps raw tensor data. The data length must be exactly
// TensorAttrs*boxes; anything else is a configuration error, not a
// per-frame condition.
func NewPrediction(data []float32, boxes int) (*Prediction, error) {
	if boxes <= 0 {
		return nil, fmt.Errorf("%w: %d boxes", ErrBadShape, boxes)
	}
	if len(data) != TensorAttrs*boxes {
		return nil, fmt.Errorf("%w: got %d values, want %d (%d boxes x %d attrs)",
			ErrBadShape, len(data), TensorAttrs*boxes, boxes, TensorAttrs)
	}
	return &Prediction{data: data, boxes: boxes}, nil
}

// Boxes returns the number of candidate boxes N.
func (p *Prediction) Boxes() int {
	return p.boxes
}

// at returns the attribute value for candidate i. Row-major over
// attributes, matching the [1][attrs][N] export layout.
func (p *Prediction) at(attr, i int) float64 {
	return float64(p.data[attr*p.boxes+i])
}
