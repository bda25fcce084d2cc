package detect

import (
	"fmt"
	"sort"
)

// Config holds decoder thresholds and the label table.
type Config struct {
	ConfidenceThresh float64  // Keep candidates with confidence strictly above this
	IoUThresh        float64  // Suppress boxes overlapping a kept box beyond this
	MaxDetections    int      // Cap on survivors per frame
	Labels           []string // Class labels; index 0 is used for single-class models
}

// DefaultConfig returns production defaults for the single-class deployment.
func DefaultConfig() Config {
	return Config{
		ConfidenceThresh: 0.7,
		IoUThresh:        0.45,
		MaxDetections:    10,
		Labels:           []string{"object"},
	}
}

// Validate rejects out-of-range thresholds and an empty label table.
// These are fatal at setup, never retried.
func (c Config) Validate() error {
	if c.ConfidenceThresh <= 0 || c.ConfidenceThresh >= 1 {
		return fmt.Errorf("%w: confidence %.3f", ErrBadThreshold, c.ConfidenceThresh)
	}
	if c.IoUThresh <= 0 || c.IoUThresh >= 1 {
		return fmt.Errorf("%w: iou %.3f", ErrBadThreshold, c.IoUThresh)
	}
	if c.MaxDetections <= 0 {
		return fmt.Errorf("detect: max detections must be positive, got %d", c.MaxDetections)
	}
	if len(c.Labels) == 0 {
		return ErrNoLabels
	}
	return nil
}

// Decoder converts prediction tensors into detections.
type Decoder struct {
	cfg Config
}

// NewDecoder validates the config and returns a decoder.
func NewDecoder(cfg Config) (*Decoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Decoder{cfg: cfg}, nil
}

// candidate is one above-threshold box before suppression.
type candidate struct {
	box        Box
	confidence float64
}

// Decode gathers above-threshold candidates, converts them to pixel-space
// boxes for a width x height image, and applies greedy NMS. Survivors come
// back highest-confidence first, at most MaxDetections of them.
func (d *Decoder) Decode(pred *Prediction, width, height float64) []Detection {
	cands := gather(pred, d.cfg.ConfidenceThresh, width, height)
	if len(cands) == 0 {
		return nil
	}

	kept := suppress(cands, d.cfg.IoUThresh, d.cfg.MaxDetections)

	dets := make([]Detection, 0, len(kept))
	for _, c := range kept {
		dets = append(dets, Detection{
			Label:      d.cfg.Labels[0],
			Confidence: c.confidence,
			Box:        c.box,
		})
	}
	return dets
}

// gather keeps every candidate with confidence strictly above the
// threshold, converting normalized (cx, cy, w, h) to a pixel-space box.
func gather(pred *Prediction, thresh, width, height float64) []candidate {
	var cands []candidate
	for i := 0; i < pred.Boxes(); i++ {
		conf := pred.at(attrConfidence, i)
		if conf <= thresh {
			continue
		}

		cx := pred.at(attrCX, i) * width
		cy := pred.at(attrCY, i) * height
		w := pred.at(attrW, i) * width
		h := pred.at(attrH, i) * height

		cands = append(cands, candidate{
			box: Box{
				X1: cx - w/2,
				Y1: cy - h/2,
				X2: cx + w/2,
				Y2: cy + h/2,
			},
			confidence: conf,
		})
	}
	return cands
}

// suppress runs greedy NMS: take the highest-confidence remaining
// candidate, then drop everything overlapping it beyond the IoU threshold.
// Equal confidences keep their candidate order (stable sort).
func suppress(cands []candidate, iouThresh float64, maxKeep int) []candidate {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].confidence > cands[j].confidence
	})

	kept := make([]candidate, 0, min(maxKeep, len(cands)))
	removed := make([]bool, len(cands))

	for i := 0; i < len(cands) && len(kept) < maxKeep; i++ {
		if removed[i] {
			continue
		}
		kept = append(kept, cands[i])
		for j := i + 1; j < len(cands); j++ {
			if removed[j] {
				continue
			}
			if IoU(cands[i].box, cands[j].box) > iouThresh {
				removed[j] = true
			}
		}
	}
	return kept
}
