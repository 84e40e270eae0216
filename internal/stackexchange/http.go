package stackexchange

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/avatar-faces/internal/constants"
)

// doGetJSON fetches the client's endpoint and unmarshals the body into T.
func doGetJSON[T any](ctx context.Context, c *Client, name string) (*T, error) {
	body, err := c.fetcher.Get(ctx, c.endpoint, profileMessages)
	if err != nil {
		return nil, err
	}

	c.captureResponse(name, body)

	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, profileMessages.DecodeError(err)
	}
	return &result, nil
}

// SetCaptureDir enables API response capturing to the specified directory.
// Pass an empty string to disable capturing.
func (c *Client) SetCaptureDir(dir string) error {
	if dir == "" {
		c.captureDir = ""
		return nil
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("could not create capture directory: %w", err)
	}
	c.captureDir = dir
	return nil
}

// captureResponse saves the raw API response to a timestamped file when
// capturing is enabled. The gallery output never depends on it.
func (c *Client) captureResponse(name string, body []byte) {
	if c.captureDir == "" {
		return
	}

	filename := strings.ReplaceAll(name, "/", "_")
	filename = fmt.Sprintf("%s_%s.json", filename, time.Now().Format(constants.CaptureTimeFormat))
	path := filepath.Join(c.captureDir, filename)

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err == nil {
		body = pretty.Bytes()
	}

	if err := os.WriteFile(path, body, 0600); err != nil {
		logrus.WithError(err).WithField("path", path).Warn("Failed to capture response")
	}
}
