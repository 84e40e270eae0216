// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

import "time"

// Presentation constants
const (
	// GalleryTitle is the heading of the gallery page and the web shell
	GalleryTitle = "Stack Overflow User Profiles and Face Detection"

	// UserAgent identifies outbound requests to the Stack Exchange API and avatar hosts
	UserAgent = "avatar-faces/1.0"
)

// Web server constants
const (
	// GenerateRequestTimeout bounds a single POST /api/v1/gallery request end to end
	GenerateRequestTimeout = 5 * time.Minute
)

// Capture constants
const (
	// CaptureTimeFormat names captured API responses (users_<timestamp>.json)
	CaptureTimeFormat = "20060102_150405"
)
