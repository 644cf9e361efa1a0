package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/icholy/digest"

	"github.com/ovationworks/cueboard-core/internal/cue"
	"github.com/ovationworks/cueboard-core/internal/infrastructure/config"
	"github.com/ovationworks/cueboard-core/internal/infrastructure/logging"
)

// transientStatesPath is the device endpoint that applies a batch of outlet
// states in one request.
const transientStatesPath = "/restapi/relay/set_outlet_transient_states/"

// snippetLimit bounds how much of a device response body is kept for error
// messages and logs.
const snippetLimit = 120

// Result is the device's answer to a successful send, kept for status
// display. The body is truncated to snippetLimit and never parsed.
type Result struct {
	Status int
	Body   string
}

// Client sends switch commands to one relay device.
//
// Thread Safety: Client is safe for concurrent use; the underlying
// http.Client handles connection pooling.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logging.Logger
}

// NewClient creates a relay client from device settings. Requests
// authenticate with HTTP Digest using the configured credentials and time
// out after the configured per-request timeout.
func NewClient(cfg config.DeviceConfig, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}

	return &Client{
		baseURL: fmt.Sprintf("%s://%s", cfg.Scheme, cfg.Host),
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
			Transport: &digest.Transport{
				Username: cfg.Username,
				Password: cfg.Password,
			},
		},
		logger: logger.Component("relay"),
	}
}

// Send applies the given channel states on the device as one transient
// batch. The request body is a single outer group wrapping every pair:
//
//	[[[0,true],[3,false]]]
//
// On success the returned Result carries the HTTP status and a truncated
// body snippet for status display. Failures return a *TransportError when
// the device never answered and a *DeviceError when it answered with a
// non-2xx status.
func (c *Client) Send(ctx context.Context, pairs []cue.Pair) (*Result, error) {
	body, err := json.Marshal([][]cue.Pair{pairs})
	if err != nil {
		return nil, fmt.Errorf("encoding relay command: %w", err)
	}

	url := c.baseURL + transientStatesPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// The device's REST API rejects state-changing requests without this
	// header; any value passes.
	req.Header.Set("X-CSRF", "x")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("relay send failed", "url", url, "error", err)
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	snippet := readSnippet(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("relay rejected command",
			"status", resp.StatusCode,
			"body", snippet,
		)
		return nil, &DeviceError{Status: resp.StatusCode, Body: snippet}
	}

	c.logger.Debug("relay command applied",
		"pairs", len(pairs),
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &Result{Status: resp.StatusCode, Body: snippet}, nil
}

// readSnippet drains up to snippetLimit bytes of a response body for
// diagnostics, then discards the rest so the connection can be reused.
func readSnippet(r io.Reader) string {
	buf := make([]byte, snippetLimit)
	n, _ := io.ReadFull(r, buf)
	io.Copy(io.Discard, r) //nolint:errcheck // Best effort drain for connection reuse
	return string(buf[:n])
}
