package handlers

import (
	"net/http"

	"github.com/kozaktomas/avatar-faces/internal/config"
)

// ConfigHandler handles configuration endpoints
type ConfigHandler struct {
	config *config.Config
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{
		config: cfg,
	}
}

// ConfigResponse is the read-only view of the settings that shape a gallery.
type ConfigResponse struct {
	Endpoint             string  `json:"endpoint"`
	MaxProfiles          int     `json:"max_profiles"`
	Concurrency          int     `json:"concurrency"`
	RequestTimeout       string  `json:"request_timeout"`
	ConfidenceAdjustment float64 `json:"confidence_adjustment"`
	BoxColor             string  `json:"box_color"`
}

// Get returns the active configuration
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, ConfigResponse{
		Endpoint:             h.config.StackExchange.URL,
		MaxProfiles:          h.config.StackExchange.MaxProfiles,
		Concurrency:          h.config.Pipeline.Concurrency,
		RequestTimeout:       h.config.HTTP.Timeout.String(),
		ConfidenceAdjustment: h.config.Detector.ConfidenceAdjustment,
		BoxColor:             h.config.Annotation.BoxColor,
	})
}
