package facedetect

import _ "embed"

// facefinderCascade is pigo's frontal-face cascade (MIT, see cascade/LICENSE).
//
//go:embed cascade/facefinder
var facefinderCascade []byte

// NewDefaultPigoDetector unpacks the embedded facefinder cascade.
func NewDefaultPigoDetector(params Params) (*PigoDetector, error) {
	return NewPigoDetector(facefinderCascade, params)
}
