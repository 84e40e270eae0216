// Package avatar downloads profile images and decodes them into pixel buffers.
package avatar

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/kozaktomas/avatar-faces/internal/fetch"
)

var imageMessages = fetch.Messages{
	Status:  "Failed to retrieve user profile image: Status Code %d",
	Network: "Profile image could not be downloaded: %s",
	Timeout: "User profile image request timed out",
	Decode:  "Profile image could not be decoded: %s",
}

// Fetcher downloads avatars through a shared fetch client.
type Fetcher struct {
	client *fetch.Client
}

// NewFetcher creates a new avatar fetcher
func NewFetcher(client *fetch.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch downloads the image at url and decodes it. The returned error is
// always a *fetch.Error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*image.RGBA, error) {
	data, err := f.client.Get(ctx, url, imageMessages)
	if err != nil {
		return nil, err
	}

	img, err := Decode(data)
	if err != nil {
		return nil, imageMessages.DecodeError(err)
	}
	return img, nil
}

// MaxPixels caps the decoded size of an avatar. Stack Overflow serves
// avatars of a few hundred pixels per side.
const MaxPixels = 4096 * 4096

// Decode decodes JPEG, PNG, GIF, WebP or BMP data into an opaque RGBA
// buffer anchored at the origin. Transparent areas are flattened onto white.
func Decode(data []byte) (*image.RGBA, error) {
	return DecodeLimited(data, MaxPixels)
}

// DecodeLimited is Decode with an explicit pixel budget. The header is
// checked before any pixel data is allocated.
func DecodeLimited(data []byte, maxPixels int) (*image.RGBA, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("image has no pixels")
	}
	if cfg.Width > maxPixels/cfg.Height {
		return nil, fmt.Errorf("image of %dx%d exceeds %d pixels", cfg.Width, cfg.Height, maxPixels)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("image has no pixels")
	}

	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Over)
	return dst, nil
}
