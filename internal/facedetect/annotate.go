package facedetect

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"golang.org/x/image/draw"
)

// Style describes how faces are outlined and how the result is encoded.
type Style struct {
	Width   int
	Color   color.RGBA
	Quality int // JPEG quality, 1-100
}

// DefaultStyle is a 4px green outline encoded at JPEG quality 90.
func DefaultStyle() Style {
	return Style{
		Width:   4,
		Color:   color.RGBA{R: 0, G: 255, B: 0, A: 255},
		Quality: 90,
	}
}

// Annotated is the outcome of running detection on one avatar.
type Annotated struct {
	Image     *image.RGBA // annotated copy of the input
	Faces     []Box
	FaceFound bool
	JPEG      []byte
	Base64    string
}

// DataURI returns the encoded image as a data: URI.
func (a *Annotated) DataURI() string {
	return "data:image/jpeg;base64," + a.Base64
}

// Annotate detects faces in img, outlines them on a copy, and encodes the
// copy as base64 JPEG. The input buffer is never modified.
func Annotate(img *image.RGBA, det Detector, style Style) (*Annotated, error) {
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)

	faces := det.Detect(out)
	DrawBoxes(out, faces, style)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: style.Quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &Annotated{
		Image:     out,
		Faces:     faces,
		FaceFound: len(faces) > 0,
		JPEG:      buf.Bytes(),
		Base64:    base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// DrawBoxes paints a style.Width outline for every box, clipped to img.
func DrawBoxes(img *image.RGBA, boxes []Box, style Style) {
	fill := image.NewUniform(style.Color)
	for _, box := range boxes {
		for _, band := range borderRects(box, style.Width, img.Bounds()) {
			draw.Draw(img, band, fill, image.Point{}, draw.Src)
		}
	}
}
