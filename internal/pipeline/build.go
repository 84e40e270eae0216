package pipeline

import (
	"fmt"

	"github.com/kozaktomas/avatar-faces/internal/avatar"
	"github.com/kozaktomas/avatar-faces/internal/config"
	"github.com/kozaktomas/avatar-faces/internal/facedetect"
	"github.com/kozaktomas/avatar-faces/internal/fetch"
	"github.com/kozaktomas/avatar-faces/internal/gallery"
	"github.com/kozaktomas/avatar-faces/internal/stackexchange"
)

// BuildOptions carries settings that come from command flags rather than config.
type BuildOptions struct {
	CaptureDir string
	OnProgress func(ProgressInfo)
}

// DetectorParams maps the detector config section onto pigo parameters.
func DetectorParams(cfg config.DetectorConfig) facedetect.Params {
	return facedetect.Params{
		MinSize:              cfg.MinSize,
		MaxSize:              cfg.MaxSize,
		ShiftFactor:          cfg.ShiftFactor,
		ScaleFactor:          cfg.ScaleFactor,
		BaseThreshold:        cfg.BaseThreshold,
		ConfidenceAdjustment: cfg.ConfidenceAdjustment,
		IoUThreshold:         cfg.IoUThreshold,
	}
}

// Style maps the annotation config section onto a drawing style.
func Style(cfg config.AnnotationConfig) (facedetect.Style, error) {
	c, err := cfg.Color()
	if err != nil {
		return facedetect.Style{}, err
	}
	return facedetect.Style{
		Width:   cfg.BoxWidth,
		Color:   c,
		Quality: cfg.JPEGQuality,
	}, nil
}

// FromConfig assembles a pipeline with real network clients and the pigo
// detector. The embedded cascade is used unless a cascade path is configured.
func FromConfig(cfg *config.Config, opts BuildOptions) (*Pipeline, error) {
	detector, err := Detector(cfg.Detector)
	if err != nil {
		return nil, err
	}
	return FromConfigWithDetector(cfg, detector, opts)
}

// Detector builds the pigo detector described by cfg.
func Detector(cfg config.DetectorConfig) (*facedetect.PigoDetector, error) {
	if cfg.CascadePath == "" {
		return facedetect.NewDefaultPigoDetector(DetectorParams(cfg))
	}
	return facedetect.LoadPigoDetector(cfg.CascadePath, DetectorParams(cfg))
}

// FromConfigWithDetector is FromConfig with an already loaded detector, so
// one cascade can serve many pipelines.
func FromConfigWithDetector(cfg *config.Config, detector facedetect.Detector, opts BuildOptions) (*Pipeline, error) {
	style, err := Style(cfg.Annotation)
	if err != nil {
		return nil, fmt.Errorf("invalid annotation config: %w", err)
	}

	client := fetch.NewClient(fetch.Options{
		Timeout:           cfg.HTTP.Timeout,
		RequestsPerSecond: cfg.HTTP.RequestsPerSecond,
		Burst:             cfg.HTTP.Burst,
		UserAgent:         cfg.HTTP.UserAgent,
	})

	profiles, err := stackexchange.NewClient(cfg.StackExchange.URL, cfg.StackExchange.MaxProfiles, client)
	if err != nil {
		return nil, err
	}
	if err := profiles.SetCaptureDir(opts.CaptureDir); err != nil {
		return nil, err
	}

	renderer, err := gallery.NewRenderer()
	if err != nil {
		return nil, err
	}

	return New(profiles, avatar.NewFetcher(client), detector, renderer, Options{
		Concurrency: cfg.Pipeline.Concurrency,
		Style:       style,
		OnProgress:  opts.OnProgress,
	}), nil
}
