// Package fetch is the shared HTTP GET transport used for the profile
// listing and for avatar downloads. Every failure comes back as *Error.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/kozaktomas/avatar-faces/internal/constants"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultMaxBodyBytes = 10 << 20
)

// ErrBodyTooLarge is wrapped by the *Error returned when a response exceeds
// Options.MaxBodyBytes.
var ErrBodyTooLarge = errors.New("response body too large")

// Options configures a Client.
type Options struct {
	Timeout           time.Duration
	RequestsPerSecond float64 // <= 0 disables throttling
	Burst             int
	UserAgent         string
	MaxBodyBytes      int64             // <= 0 uses 10 MiB
	Transport         http.RoundTripper // nil uses http.DefaultTransport
}

// Client performs throttled, time-limited GET requests.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
	maxBody   int64
}

// NewClient creates a new fetch client
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = constants.UserAgent
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := max(opts.Burst, 1)
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}

	return &Client{
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
		},
		limiter:   rate.NewLimiter(limit, burst),
		userAgent: opts.UserAgent,
		maxBody:   opts.MaxBodyBytes,
	}
}

// Get fetches url and returns the body of a 200 response.
// Any other outcome is a *Error worded with msgs.
func (c *Client) Get(ctx context.Context, url string, msgs Messages) ([]byte, error) {
	log := logrus.WithField("url", url)
	start := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, msgs.transportError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, msgs.transportError(err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		fe := msgs.transportError(err)
		log.WithError(err).WithField("kind", fe.Kind).Warn("Request failed")
		return nil, fe
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		log.WithField("status", resp.StatusCode).Warn("Unexpected response status")
		return nil, msgs.StatusError(resp.StatusCode)
	}

	// One byte past the limit tells an oversized body from an exact fit.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err == nil && int64(len(body)) > c.maxBody {
		err = fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, c.maxBody)
	}
	if err != nil {
		fe := msgs.transportError(err)
		log.WithError(err).WithField("kind", fe.Kind).Warn("Reading response body failed")
		return nil, fe
	}

	log.WithFields(logrus.Fields{
		"bytes":    len(body),
		"duration": time.Since(start).String(),
	}).Debug("Fetched")

	return body, nil
}
