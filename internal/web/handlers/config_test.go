package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/avatar-faces/internal/config"
)

func TestConfigHandler_Get(t *testing.T) {
	cfg := config.Defaults()
	cfg.Pipeline.Concurrency = 3
	handler := NewConfigHandler(cfg)

	recorder := httptest.NewRecorder()
	handler.Get(recorder, httptest.NewRequest("GET", "/api/v1/config", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}

	var resp ConfigResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.MaxProfiles != 10 {
		t.Errorf("expected max_profiles 10, got %d", resp.MaxProfiles)
	}
	if resp.Concurrency != 3 {
		t.Errorf("expected concurrency 3, got %d", resp.Concurrency)
	}
	if resp.RequestTimeout != "10s" {
		t.Errorf("expected request_timeout 10s, got %q", resp.RequestTimeout)
	}
	if resp.ConfidenceAdjustment != -0.5 {
		t.Errorf("expected confidence_adjustment -0.5, got %v", resp.ConfidenceAdjustment)
	}
	if resp.BoxColor != "#00ff00" {
		t.Errorf("expected box_color #00ff00, got %q", resp.BoxColor)
	}
}
