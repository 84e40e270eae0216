package facedetect

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"
)

type fixedDetector struct {
	boxes []Box
	seen  int
}

func (d *fixedDetector) Detect(img image.Image) []Box {
	d.seen++
	return d.boxes
}

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 2), G: uint8(y), B: 200, A: 255})
		}
	}
	return img
}

func clone(img *image.RGBA) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	return out
}

func TestAnnotate_NoFaces(t *testing.T) {
	input := gradient(64, 48)
	original := clone(input)

	det := &fixedDetector{}
	result, err := Annotate(input, det, DefaultStyle())
	require.NoError(t, err)

	assert.Equal(t, 1, det.seen)
	assert.False(t, result.FaceFound)
	assert.Empty(t, result.Faces)
	assert.Equal(t, original.Pix, result.Image.Pix, "pixels must be untouched when no face is found")
	assert.Equal(t, original.Pix, input.Pix, "input must never be modified")
}

func TestAnnotate_OneFace(t *testing.T) {
	input := gradient(100, 100)
	original := clone(input)
	face := Box{X1: 30, Y1: 25, X2: 70, Y2: 75, Score: 8}
	style := DefaultStyle()

	result, err := Annotate(input, &fixedDetector{boxes: []Box{face}}, style)
	require.NoError(t, err)

	assert.True(t, result.FaceFound)
	require.Len(t, result.Faces, 1)
	assert.Equal(t, original.Pix, input.Pix, "input must never be modified")

	border := borderRects(face, style.Width, input.Bounds())
	changed := 0
	for y := range 100 {
		for x := range 100 {
			p := image.Pt(x, y)
			got := result.Image.RGBAAt(x, y)
			if coveredBy(p, border) {
				assert.Equal(t, style.Color, got, "outline pixel %v", p)
				changed++
				continue
			}
			if got != original.RGBAAt(x, y) {
				t.Fatalf("pixel %v outside the outline changed: %v -> %v", p, original.RGBAAt(x, y), got)
			}
		}
	}
	// 44x54 outer minus 36x46 inner.
	assert.Equal(t, 44*54-36*46, changed)
}

func TestAnnotate_EncodesJPEG(t *testing.T) {
	result, err := Annotate(gradient(40, 30), &fixedDetector{}, DefaultStyle())
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(result.Base64)
	require.NoError(t, err)
	assert.Equal(t, result.JPEG, raw)

	decoded, err := jpeg.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 40, decoded.Bounds().Dx())
	assert.Equal(t, 30, decoded.Bounds().Dy())

	assert.Equal(t, "data:image/jpeg;base64,"+result.Base64, result.DataURI())
}

func TestAnnotate_Deterministic(t *testing.T) {
	det := &fixedDetector{boxes: []Box{{X1: 5, Y1: 5, X2: 20, Y2: 20}}}
	a, err := Annotate(gradient(32, 32), det, DefaultStyle())
	require.NoError(t, err)
	b, err := Annotate(gradient(32, 32), det, DefaultStyle())
	require.NoError(t, err)
	assert.Equal(t, a.Base64, b.Base64)
}

func TestDrawBoxes_CustomStyle(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	style := Style{Width: 1, Color: color.RGBA{R: 255, A: 255}, Quality: 80}

	DrawBoxes(img, []Box{{X1: 5, Y1: 5, X2: 10, Y2: 10}}, style)

	// A 1px outline covers the X1/Y1 and X2/Y2 columns and rows.
	assert.Equal(t, style.Color, img.RGBAAt(5, 5))
	assert.Equal(t, style.Color, img.RGBAAt(10, 7))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(7, 7))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(0, 0))
}

func TestParamsThreshold(t *testing.T) {
	p := DefaultParams()
	assert.InDelta(t, 4.5, p.Threshold(), 1e-9)

	p.ConfidenceAdjustment = -1
	assert.InDelta(t, 4.0, p.Threshold(), 1e-9)
}

func TestLoadPigoDetector_MissingFile(t *testing.T) {
	_, err := LoadPigoDetector(filepath.Join(t.TempDir(), "nope"), DefaultParams())
	assert.Error(t, err)
}

func TestNewPigoDetector_TruncatedCascade(t *testing.T) {
	_, err := NewPigoDetector([]byte{1, 2, 3}, DefaultParams())
	assert.Error(t, err)
}

func loadFace(t *testing.T) *image.RGBA {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", "face.jpg"))
	require.NoError(t, err)
	defer f.Close()

	src, err := jpeg.Decode(f)
	require.NoError(t, err)
	img := image.NewRGBA(image.Rect(0, 0, src.Bounds().Dx(), src.Bounds().Dy()))
	draw.Draw(img, img.Bounds(), src, src.Bounds().Min, draw.Src)
	return img
}

func TestPigoDetector_FindsFace(t *testing.T) {
	det, err := NewDefaultPigoDetector(DefaultParams())
	require.NoError(t, err)
	img := loadFace(t)

	out, err := Annotate(img, det, DefaultStyle())
	require.NoError(t, err)

	require.True(t, out.FaceFound)
	require.Len(t, out.Faces, 1)
	face := out.Faces[0]
	assert.True(t, face.Rect().In(img.Bounds()), "box %+v outside %v", face, img.Bounds())
	assert.Greater(t, face.X2-face.X1, img.Bounds().Dx()/2, "the portrait fills most of the frame")
	assert.Equal(t, face.X2-face.X1, face.Y2-face.Y1, "pigo boxes are square")
	assert.GreaterOrEqual(t, float64(face.Score), DefaultParams().Threshold())
}

func TestPigoDetector_ThresholdFiltersScores(t *testing.T) {
	img := loadFace(t)

	base, err := NewDefaultPigoDetector(DefaultParams())
	require.NoError(t, err)
	faces := base.Detect(img)
	require.NotEmpty(t, faces)

	// Raise the cut-off just above the best score.
	params := DefaultParams()
	params.ConfidenceAdjustment = float64(faces[0].Score) - params.BaseThreshold + 1
	strict, err := NewDefaultPigoDetector(params)
	require.NoError(t, err)
	assert.Empty(t, strict.Detect(img))
}

func TestPigoDetector_BlankImage(t *testing.T) {
	det, err := NewDefaultPigoDetector(DefaultParams())
	require.NoError(t, err)

	blank := image.NewRGBA(image.Rect(0, 0, 128, 128))
	assert.Empty(t, det.Detect(blank))

	out, err := Annotate(blank, det, DefaultStyle())
	require.NoError(t, err)
	assert.False(t, out.FaceFound)
}

// TestLoadPigoDetector_FromFile exercises the FACEFINDER_CASCADE override path.
func TestLoadPigoDetector_FromFile(t *testing.T) {
	det, err := LoadPigoDetector(filepath.Join("cascade", "facefinder"), DefaultParams())
	require.NoError(t, err)
	assert.NotEmpty(t, det.Detect(loadFace(t)))
}
