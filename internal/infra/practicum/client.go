// internal/infra/practicum/client.go
package practicum

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ruki-qq/homework-bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
)

const requestTimeout = 30 * time.Second

// errorBodyLimit caps how much of a non-success response body is carried
// into the error (and from there into logs and chat notifications).
const errorBodyLimit = 256

// Client queries the Practicum homework status endpoint. It implements
// homework.Client: transport-level failures come back as TransportError,
// non-success responses and unparseable payloads as ProtocolError.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	log      *logrus.Entry
}

func NewClient(endpoint, token string, log *logrus.Entry) *Client {
	return &Client{
		endpoint: endpoint,
		token:    token,
		http:     &http.Client{Timeout: requestTimeout},
		log:      log,
	}
}

// Fetch requests review statuses changed since from (Unix seconds) and
// returns the parsed JSON payload. Structural validation of the payload is
// left to homework.CheckAnswer.
func (c *Client) Fetch(ctx context.Context, from int64) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build status request: %w", err)
	}
	q := req.URL.Query()
	q.Set("from_date", strconv.FormatInt(from, 10))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "OAuth "+c.token)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).Error("Status endpoint is unreachable")
		return nil, &homework.TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.WithError(err).Error("Reading status endpoint response failed")
		return nil, &homework.TransportError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		c.log.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"from_date":   from,
		}).Error("Status endpoint returned a non-success code")
		return nil, &homework.ProtocolError{StatusCode: resp.StatusCode, Body: truncate(body)}
	}

	var payload json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		c.log.WithError(err).Error("Status endpoint returned unparseable JSON")
		return nil, &homework.ProtocolError{StatusCode: resp.StatusCode, Err: err}
	}

	c.log.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"from_date":   from,
		"duration":    time.Since(started).String(),
	}).Info("Status endpoint answered")
	return payload, nil
}

// Probe issues a minimal windowed request to verify the endpoint accepts the
// configured token. The window starts at "now", so a healthy endpoint has
// nothing to report and the response stays small.
func (c *Client) Probe(ctx context.Context) error {
	_, err := c.Fetch(ctx, time.Now().Unix())
	return err
}

func truncate(body []byte) string {
	if len(body) > errorBodyLimit {
		return string(body[:errorBodyLimit]) + "..."
	}
	return string(body)
}
