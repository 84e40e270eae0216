// Package pipeline produces the profile gallery: it fetches the top
// profiles, downloads and annotates each avatar, and renders one fragment
// per profile in listing order.
package pipeline

import (
	"context"
	"fmt"
	"html/template"
	"image"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/kozaktomas/avatar-faces/internal/facedetect"
	"github.com/kozaktomas/avatar-faces/internal/fetch"
	"github.com/kozaktomas/avatar-faces/internal/gallery"
	"github.com/kozaktomas/avatar-faces/internal/stackexchange"
)

// ProfileSource lists the profiles to show.
type ProfileSource interface {
	FetchProfiles(ctx context.Context) ([]stackexchange.Profile, error)
}

// ImageSource downloads and decodes one avatar.
type ImageSource interface {
	Fetch(ctx context.Context, url string) (*image.RGBA, error)
}

// ProgressInfo contains progress information for callbacks
type ProgressInfo struct {
	Current int
	Total   int
	Name    string
	Kind    gallery.OutcomeKind
}

// Options tunes a Pipeline.
type Options struct {
	Concurrency int                // Avatars processed in parallel; <= 1 is sequential
	Style       facedetect.Style   // Box outline and JPEG settings
	OnProgress  func(ProgressInfo) // Optional, called once per finished profile
}

// Result is one generated gallery.
type Result struct {
	HTML        template.HTML
	Profiles    int
	FacesFound  int
	ImageErrors int
	// ListingError is set when the profile listing failed and HTML holds
	// the single gallery-wide error fragment.
	ListingError error
}

// Pipeline turns the profile listing into gallery HTML. Generate may be
// called concurrently; each call is an independent run.
type Pipeline struct {
	profiles ProfileSource
	images   ImageSource
	detector facedetect.Detector
	renderer *gallery.Renderer
	opts     Options
}

// New creates a pipeline. A zero Style falls back to facedetect.DefaultStyle.
func New(profiles ProfileSource, images ImageSource, detector facedetect.Detector, renderer *gallery.Renderer, opts Options) *Pipeline {
	if opts.Style.Width <= 0 {
		opts.Style = facedetect.DefaultStyle()
	}
	return &Pipeline{
		profiles: profiles,
		images:   images,
		detector: detector,
		renderer: renderer,
		opts:     opts,
	}
}

// Generate runs one full pass. Failures of the listing or of single avatars
// are rendered into the HTML; the returned error is reserved for template
// failures.
func (p *Pipeline) Generate(ctx context.Context) (*Result, error) {
	log := logrus.WithField("run_id", uuid.NewString())

	profiles, err := p.profiles.FetchProfiles(ctx)
	if err != nil {
		log.WithError(err).WithField("kind", errorKind(err)).Warn("Profile listing failed")
		frag, rerr := p.renderer.GalleryError(err)
		if rerr != nil {
			return nil, rerr
		}
		return &Result{HTML: frag, ListingError: err}, nil
	}

	log.WithField("profiles", len(profiles)).Info("Generating gallery")

	outcomes := p.processAll(ctx, log, profiles)

	result := &Result{Profiles: len(outcomes)}
	fragments := make([]template.HTML, 0, len(outcomes))
	for _, o := range outcomes {
		frag, err := p.renderer.Profile(o)
		if err != nil {
			return nil, fmt.Errorf("failed to render profile %d: %w", len(fragments), err)
		}
		fragments = append(fragments, frag)

		switch o.Kind {
		case gallery.OutcomeImage:
			if o.Image.FaceFound {
				result.FacesFound++
			}
		case gallery.OutcomeImageError:
			result.ImageErrors++
		}
	}
	result.HTML = p.renderer.Join(fragments)

	log.WithFields(logrus.Fields{
		"profiles":     result.Profiles,
		"faces_found":  result.FacesFound,
		"image_errors": result.ImageErrors,
	}).Info("Gallery generated")

	return result, nil
}

// processAll resolves every profile to an outcome. Results are stored by
// index so the order matches the listing regardless of concurrency.
func (p *Pipeline) processAll(ctx context.Context, log *logrus.Entry, profiles []stackexchange.Profile) []gallery.Outcome {
	outcomes := make([]gallery.Outcome, len(profiles))

	var done int
	var progressMu sync.Mutex
	reportProgress := func(o gallery.Outcome) {
		if p.opts.OnProgress == nil {
			return
		}
		progressMu.Lock()
		defer progressMu.Unlock()
		done++
		p.opts.OnProgress(ProgressInfo{
			Current: done,
			Total:   len(profiles),
			Name:    displayName(o.Profile),
			Kind:    o.Kind,
		})
	}

	if p.opts.Concurrency <= 1 {
		for i, prof := range profiles {
			outcomes[i] = p.process(ctx, log, prof)
			reportProgress(outcomes[i])
		}
		return outcomes
	}

	// Workers never return an error: every failure becomes an outcome.
	var g errgroup.Group
	g.SetLimit(p.opts.Concurrency)
	for i := range profiles {
		g.Go(func() error {
			outcomes[i] = p.process(ctx, log, profiles[i])
			reportProgress(outcomes[i])
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (p *Pipeline) process(ctx context.Context, log *logrus.Entry, prof stackexchange.Profile) gallery.Outcome {
	log = log.WithField("user", displayName(prof))

	if !prof.HasImage() {
		log.Debug("Profile has no avatar")
		return gallery.Outcome{Profile: prof, Kind: gallery.OutcomeNoImage}
	}

	img, err := p.images.Fetch(ctx, *prof.ProfileImage)
	if err != nil {
		log.WithError(err).WithField("kind", errorKind(err)).Warn("Avatar unavailable")
		return gallery.Outcome{Profile: prof, Kind: gallery.OutcomeImageError, Err: err}
	}

	annotated, err := facedetect.Annotate(img, p.detector, p.opts.Style)
	if err != nil {
		log.WithError(err).Warn("Annotating avatar failed")
		return gallery.Outcome{Profile: prof, Kind: gallery.OutcomeImageError, Err: err}
	}

	log.WithField("faces", len(annotated.Faces)).Debug("Avatar annotated")
	return gallery.Outcome{Profile: prof, Kind: gallery.OutcomeImage, Image: annotated}
}

func errorKind(err error) string {
	fe, ok := fetch.AsError(err)
	if !ok {
		return "internal"
	}
	switch fe.Kind {
	case fetch.KindUpstream, fetch.KindNetwork, fetch.KindTimeout, fetch.KindDecode:
		return fe.Kind.String()
	default:
		return "unknown"
	}
}

func displayName(p stackexchange.Profile) string {
	if p.DisplayName == nil {
		return ""
	}
	return *p.DisplayName
}
