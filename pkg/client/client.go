// Package client calls the feedback service over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gofrs/uuid"

	"feedback/pkg/models"
)

const defaultTimeout = 5 * time.Second

var ErrUnexpectedStatus = fmt.Errorf("unexpected status code")

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(&c)
	}

	return &c
}

// Check sends text to the check endpoint with a fresh X-Request-Id.
func (c *Client) Check(ctx context.Context, text string, debug bool) (models.Result, error) {
	target, err := url.JoinPath(c.baseURL, "check_feedback")
	if err != nil {
		return models.Result{}, fmt.Errorf("invalid base url %q: %w", c.baseURL, err)
	}

	b, err := json.Marshal(models.Feedback{Text: text, Debug: debug})
	if err != nil {
		return models.Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(b))
	if err != nil {
		return models.Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	id, err := uuid.NewV4()
	if err != nil {
		return models.Result{}, err
	}
	req.Header.Set("X-Request-Id", id.String())

	resp, err := c.http.Do(req)
	if err != nil {
		return models.Result{}, fmt.Errorf("error calling feedback service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return models.Result{}, fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, bytes.TrimSpace(msg))
	}

	var res models.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return models.Result{}, fmt.Errorf("error decoding response from feedback service: %w", err)
	}

	return res, nil
}
