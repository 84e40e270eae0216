// Package gallery renders profile outcomes as HTML fragments.
package gallery

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kozaktomas/avatar-faces/internal/facedetect"
	"github.com/kozaktomas/avatar-faces/internal/stackexchange"
)

//go:embed templates/*.html
var templatesFS embed.FS

// User-facing text.
const (
	FaceFoundMessage    = "Face detected and highlighted..."
	NoFaceMessage       = "No face detected in this image."
	ImageMissingMessage = "Image for this user could not be fetched!"
	RetryMessage        = "Please try generating again."
	NotAvailable        = "Not available"
)

// OutcomeKind tags what happened to one profile's avatar.
type OutcomeKind int

const (
	// OutcomeImage means the avatar was fetched and annotated.
	OutcomeImage OutcomeKind = iota
	// OutcomeNoImage means the profile has no avatar URL; nothing was fetched.
	OutcomeNoImage
	// OutcomeImageError means fetching or decoding the avatar failed.
	OutcomeImageError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeImage:
		return "image"
	case OutcomeNoImage:
		return "no-image"
	case OutcomeImageError:
		return "image-error"
	default:
		return "unknown"
	}
}

// Outcome is the render input for one profile. Image is set only for
// OutcomeImage and Err only for OutcomeImageError.
type Outcome struct {
	Profile stackexchange.Profile
	Kind    OutcomeKind
	Image   *facedetect.Annotated
	Err     error
}

// Renderer turns outcomes into HTML.
type Renderer struct {
	tmpl    *template.Template
	printer *message.Printer
}

// NewRenderer parses the embedded fragment templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse gallery templates: %w", err)
	}
	return &Renderer{
		tmpl:    tmpl,
		printer: message.NewPrinter(language.English),
	}, nil
}

type profileView struct {
	Outcome      string
	Image        template.URL
	FaceMessage  string
	ImageError   string
	Retry        string
	Name         string
	Reputation   string
	Location     string
	Link         string
	NotAvailable string
}

// Profile renders one profile fragment.
func (r *Renderer) Profile(o Outcome) (template.HTML, error) {
	p := o.Profile
	view := profileView{
		Outcome:      o.Kind.String(),
		Name:         textOrDefault(p.DisplayName),
		Location:     textOrDefault(p.Location),
		Reputation:   NotAvailable,
		NotAvailable: NotAvailable,
	}
	if p.Reputation != nil {
		view.Reputation = r.printer.Sprintf("%d", *p.Reputation)
	}
	if p.Link != nil && *p.Link != "" {
		view.Link = *p.Link
	}

	switch o.Kind {
	case OutcomeImage:
		if o.Image == nil {
			return "", fmt.Errorf("image outcome without an image")
		}
		// Trusted: built from our own base64 encoding.
		view.Image = template.URL(o.Image.DataURI())
		view.FaceMessage = NoFaceMessage
		if o.Image.FaceFound {
			view.FaceMessage = FaceFoundMessage
		}
	case OutcomeNoImage:
		view.ImageError = ImageMissingMessage
		view.Retry = RetryMessage
	case OutcomeImageError:
		view.ImageError = ImageMissingMessage
		if o.Err != nil {
			view.ImageError = o.Err.Error()
		}
		view.Retry = RetryMessage
	default:
		return "", fmt.Errorf("unknown outcome kind %d", o.Kind)
	}

	return r.execute("profile", view)
}

// GalleryError renders the single fragment shown when the profile listing
// itself could not be fetched.
func (r *Renderer) GalleryError(err error) (template.HTML, error) {
	return r.execute("gallery-error", struct {
		Message string
		Retry   string
	}{
		Message: err.Error(),
		Retry:   RetryMessage,
	})
}

// Join concatenates fragments in order.
func (r *Renderer) Join(fragments []template.HTML) template.HTML {
	var sb strings.Builder
	for _, f := range fragments {
		sb.WriteString(string(f))
	}
	return template.HTML(sb.String())
}

// Page wraps a gallery in a standalone HTML document.
func (r *Renderer) Page(title string, gallery template.HTML) (string, error) {
	out, err := r.execute("page", struct {
		Title   string
		Gallery template.HTML
	}{
		Title:   title,
		Gallery: gallery,
	})
	return string(out), err
}

func (r *Renderer) execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// textOrDefault returns the API text with its HTML entities decoded, or
// NotAvailable when absent. The template escapes the result again.
func textOrDefault(s *string) string {
	if s == nil || *s == "" {
		return NotAvailable
	}
	return html.UnescapeString(*s)
}
