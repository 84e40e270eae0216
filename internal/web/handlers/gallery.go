package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/avatar-faces/internal/pipeline"
)

// Generator produces one gallery per call.
type Generator interface {
	Generate(ctx context.Context) (*pipeline.Result, error)
}

// GalleryHandler serves the Generate action of the UI shell.
type GalleryHandler struct {
	generator Generator
}

// NewGalleryHandler creates a new gallery handler
func NewGalleryHandler(gen Generator) *GalleryHandler {
	return &GalleryHandler{generator: gen}
}

// Generate runs the pipeline and returns the gallery HTML. A failed profile
// listing is still a 200: the body is the error fragment telling the user
// to try again.
func (h *GalleryHandler) Generate(w http.ResponseWriter, r *http.Request) {
	res, err := h.generator.Generate(r.Context())
	if err != nil {
		logrus.WithError(err).WithField("remote", sanitizeForLog(r.RemoteAddr)).Error("Gallery generation failed")
		respondError(w, http.StatusInternalServerError, "failed to render gallery")
		return
	}

	respondHTML(w, http.StatusOK, string(res.HTML))
}
