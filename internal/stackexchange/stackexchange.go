// Package stackexchange fetches the top user profiles from the Stack
// Exchange API.
package stackexchange

import (
	"context"
	"fmt"
	"net/url"

	"github.com/kozaktomas/avatar-faces/internal/fetch"
	"github.com/sirupsen/logrus"
)

var profileMessages = fetch.Messages{
	Status:  "Failed to retrieve Stack Overflow user data: Status Code %d",
	Network: "%s",
	Timeout: "User data request timed out",
	Decode:  "Stack Overflow user data could not be parsed: %s",
}

// Client represents a client for the Stack Exchange users endpoint
type Client struct {
	endpoint    string
	maxProfiles int
	fetcher     *fetch.Client
	captureDir  string
}

// NewClient creates a client for the users listing at endpoint.
// At most maxProfiles entries are kept from each response.
func NewClient(endpoint string, maxProfiles int, fetcher *fetch.Client) (*Client, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid Stack Exchange URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid Stack Exchange URL %q: scheme must be http or https", endpoint)
	}
	if maxProfiles <= 0 {
		return nil, fmt.Errorf("max profiles must be positive, got %d", maxProfiles)
	}
	return &Client{
		endpoint:    parsed.String(),
		maxProfiles: maxProfiles,
		fetcher:     fetcher,
	}, nil
}

// FetchProfiles returns the first profiles of the listing in API order.
// The returned error is always a *fetch.Error.
func (c *Client) FetchProfiles(ctx context.Context) ([]Profile, error) {
	resp, err := doGetJSON[usersResponse](ctx, c, "users")
	if err != nil {
		return nil, err
	}

	profiles := filterProfiles(resp.Items, c.maxProfiles)
	logrus.WithFields(logrus.Fields{
		"received":        len(resp.Items),
		"kept":            len(profiles),
		"quota_remaining": resp.QuotaRemaining,
	}).Info("Fetched Stack Overflow profiles")

	return profiles, nil
}

// filterProfiles keeps the first min(limit, len(items)) entries without
// reordering them.
func filterProfiles(items []Profile, limit int) []Profile {
	n := min(limit, len(items))
	out := make([]Profile, n)
	copy(out, items[:n])
	return out
}
