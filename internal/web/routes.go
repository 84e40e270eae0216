package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/avatar-faces/internal/web/handlers"
	"github.com/kozaktomas/avatar-faces/internal/web/static"
)

func (s *Server) setupRoutes() {
	configHandler := handlers.NewConfigHandler(s.config)
	galleryHandler := handlers.NewGalleryHandler(s.generator)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handlers.HealthCheck)
		r.Get("/config", configHandler.Get)
		r.Post("/gallery", galleryHandler.Generate)
	})

	// The shell and its assets
	s.router.Get("/*", s.serveShell)
}

// serveShell serves the embedded page and its assets.
func (s *Server) serveShell(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := static.Asset(r.URL.Path)
	if err != nil {
		logrus.WithError(err).Error("UI shell is not embedded")
		http.Error(w, "UI shell is not embedded", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
