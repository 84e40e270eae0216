package facedetect

import (
	"image"
	"sort"
)

// Box is a detected face in pixel coordinates, [X1,Y1) to [X2,Y2).
type Box struct {
	X1, Y1, X2, Y2 int
	Score          float32
}

// Rect returns the box as an image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// ComputeIoU calculates Intersection over Union between two boxes.
func ComputeIoU(a, b Box) float64 {
	// Calculate intersection.
	x1 := max(a.X1, b.X1)
	y1 := max(a.Y1, b.Y1)
	x2 := min(a.X2, b.X2)
	y2 := min(a.Y2, b.Y2)

	if x2 <= x1 || y2 <= y1 {
		return 0 // No intersection
	}

	intersection := float64((x2 - x1) * (y2 - y1))

	// Calculate union.
	area1 := float64((a.X2 - a.X1) * (a.Y2 - a.Y1))
	area2 := float64((b.X2 - b.X1) * (b.Y2 - b.Y1))
	union := area1 + area2 - intersection

	if union <= 0 {
		return 0
	}

	return intersection / union
}

// SuppressOverlaps keeps the highest-scoring box of every group whose
// pairwise IoU exceeds threshold. The result is ordered by score, then
// position, so it is stable for a given input.
func SuppressOverlaps(boxes []Box, threshold float64) []Box {
	sorted := make([]Box, len(boxes))
	copy(sorted, boxes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		if sorted[i].Y1 != sorted[j].Y1 {
			return sorted[i].Y1 < sorted[j].Y1
		}
		return sorted[i].X1 < sorted[j].X1
	})

	kept := make([]Box, 0, len(sorted))
	for _, candidate := range sorted {
		overlaps := false
		for _, k := range kept {
			if ComputeIoU(candidate, k) > threshold {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, candidate)
		}
	}
	return kept
}

// borderRects returns the bands covered by a width-pixel outline of box,
// centred on its edges, clipped to bounds.
func borderRects(box Box, width int, bounds image.Rectangle) []image.Rectangle {
	if width <= 0 {
		return nil
	}
	before := width / 2
	after := width - before

	// Literals, not image.Rect: an inverted inner rectangle must stay empty.
	outer := image.Rectangle{
		Min: image.Pt(box.X1-before, box.Y1-before),
		Max: image.Pt(box.X2+after, box.Y2+after),
	}
	inner := image.Rectangle{
		Min: image.Pt(box.X1+after, box.Y1+after),
		Max: image.Pt(box.X2-before, box.Y2-before),
	}

	var bands []image.Rectangle
	if inner.Empty() {
		bands = []image.Rectangle{outer}
	} else {
		bands = []image.Rectangle{
			image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, inner.Min.Y), // top
			image.Rect(outer.Min.X, inner.Max.Y, outer.Max.X, outer.Max.Y), // bottom
			image.Rect(outer.Min.X, inner.Min.Y, inner.Min.X, inner.Max.Y), // left
			image.Rect(inner.Max.X, inner.Min.Y, outer.Max.X, inner.Max.Y), // right
		}
	}

	clipped := bands[:0]
	for _, b := range bands {
		if r := b.Intersect(bounds); !r.Empty() {
			clipped = append(clipped, r)
		}
	}
	return clipped
}
