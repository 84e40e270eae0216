// Package facedetect finds frontal faces in avatars and outlines them.
package facedetect

import (
	"fmt"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"
)

// Detector finds faces in an image.
type Detector interface {
	Detect(img image.Image) []Box
}

// Params tunes the pigo cascade run.
type Params struct {
	MinSize     int
	MaxSize     int
	ShiftFactor float64
	ScaleFactor float64
	// BaseThreshold is the minimum clustered detection score.
	BaseThreshold float64
	// ConfidenceAdjustment is added to BaseThreshold; negative values relax
	// detection and admit weaker faces.
	ConfidenceAdjustment float64
	IoUThreshold         float64
}

// DefaultParams returns the detector tuning used when nothing is configured.
func DefaultParams() Params {
	return Params{
		MinSize:              20,
		MaxSize:              1000,
		ShiftFactor:          0.1,
		ScaleFactor:          1.1,
		BaseThreshold:        5.0,
		ConfidenceAdjustment: -0.5,
		IoUThreshold:         0.2,
	}
}

// Threshold returns the effective score cut-off.
func (p Params) Threshold() float64 {
	return p.BaseThreshold + p.ConfidenceAdjustment
}

// PigoDetector runs the pigo frontal-face cascade. It is safe for
// concurrent use once constructed.
type PigoDetector struct {
	classifier *pigo.Pigo
	params     Params
}

// NewPigoDetector unpacks a facefinder cascade.
func NewPigoDetector(cascade []byte, params Params) (_ *PigoDetector, err error) {
	// Unpack indexes into the packet without length checks.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to unpack face cascade: %v", r)
		}
	}()

	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack face cascade: %w", err)
	}
	return &PigoDetector{classifier: classifier, params: params}, nil
}

// LoadPigoDetector reads the cascade file at path.
func LoadPigoDetector(path string, params Params) (*PigoDetector, error) {
	cascade, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read face cascade %s: %w", path, err)
	}
	return NewPigoDetector(cascade, params)
}

// Detect implements Detector.
func (d *PigoDetector) Detect(img image.Image) []Box {
	bounds := img.Bounds()
	cols, rows := bounds.Dx(), bounds.Dy()
	if cols == 0 || rows == 0 {
		return nil
	}

	cp := pigo.CascadeParams{
		MinSize:     d.params.MinSize,
		MaxSize:     min(d.params.MaxSize, max(cols, rows)),
		ShiftFactor: d.params.ShiftFactor,
		ScaleFactor: d.params.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(img),
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := d.classifier.RunCascade(cp, 0)
	dets = d.classifier.ClusterDetections(dets, d.params.IoUThreshold)

	threshold := d.params.Threshold()
	boxes := make([]Box, 0, len(dets))
	for _, det := range dets {
		if float64(det.Q) < threshold {
			continue
		}
		half := det.Scale / 2
		boxes = append(boxes, Box{
			X1:    bounds.Min.X + det.Col - half,
			Y1:    bounds.Min.Y + det.Row - half,
			X2:    bounds.Min.X + det.Col + half,
			Y2:    bounds.Min.Y + det.Row + half,
			Score: det.Q,
		})
	}
	return SuppressOverlaps(boxes, d.params.IoUThreshold)
}
