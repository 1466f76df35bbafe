// Package api is the HTTP/JSON client of the download service.
//
// Every route lives below a fixed prefix ("/api" by default). A non-2xx
// status fails the call as a *StatusError; transport failures wrap ErrConnect.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/ytgrab-cli/ytgrab/auth"
	"github.com/ytgrab-cli/ytgrab/config"
	"github.com/ytgrab-cli/ytgrab/constant"
	"github.com/ytgrab-cli/ytgrab/key"
	"github.com/ytgrab-cli/ytgrab/log"
	"github.com/ytgrab-cli/ytgrab/network"
	"github.com/ytgrab-cli/ytgrab/util"
)

// Routes relative to the prefix.
const (
	PathListQualities      = "/download/list-qualities"
	PathDownloadVideo      = "/download/download-video"
	PathScheduleDownload   = "/download/schedule-download"
	PathPastDownloads      = "/download/past-downloads"
	PathScheduledDownloads = "/download/scheduled-downloads"
	PathHealth             = "/health"
	PathRoot               = "/"
)

type Client struct {
	baseURL string
	prefix  string
	token   string
	timeout time.Duration
	http    *http.Client
}

type Option func(*Client)

// WithPrefix replaces the default "/api" route prefix. An empty prefix talks to the backend directly.
func WithPrefix(prefix string) Option {
	return func(c *Client) { c.prefix = normalizePrefix(prefix) }
}

// WithToken sends the token as a bearer credential.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout bounds every call. Zero leaves deadlines to the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		prefix:  "/api",
		http:    network.Client,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromConfig builds a client from api.* settings and the stored token.
func FromConfig() (*Client, error) {
	token, err := auth.Token()
	if err != nil {
		log.Warnf("read service token: %s", err)
		token = ""
	}

	base := viper.GetString(key.APIBaseURL)
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", key.APIBaseURL, base, err)
	}

	return New(
		base,
		WithPrefix(viper.GetString(key.APIPrefix)),
		WithToken(token),
		WithTimeout(config.Timeout()),
	), nil
}

// BaseURL is the service root including the prefix.
func (c *Client) BaseURL() string {
	return c.baseURL + c.prefix
}

// ListFormats returns the raw format entries for link, read from "formats" or "results".
func (c *Client) ListFormats(ctx context.Context, link string) ([]json.RawMessage, error) {
	var resp listFormatsResponse
	if err := c.do(ctx, http.MethodPost, PathListQualities, listFormatsRequest{Link: link}, &resp); err != nil {
		return nil, err
	}

	if resp.Formats != nil {
		return resp.Formats, nil
	}
	return resp.Results, nil
}

func (c *Client) Download(ctx context.Context, req DownloadRequest) (DownloadResponse, error) {
	var resp DownloadResponse
	err := c.do(ctx, http.MethodPost, PathDownloadVideo, req, &resp)
	return resp, err
}

func (c *Client) Schedule(ctx context.Context, req ScheduleRequest) (ScheduleResponse, error) {
	var resp ScheduleResponse
	err := c.do(ctx, http.MethodPost, PathScheduleDownload, req, &resp)
	return resp, err
}

// PastDownloads lists finished (and failed) jobs. A null body is an empty list.
func (c *Client) PastDownloads(ctx context.Context) ([]Job, error) {
	var jobs []Job
	err := c.do(ctx, http.MethodGet, PathPastDownloads, nil, &jobs)
	return jobs, err
}

func (c *Client) ScheduledDownloads(ctx context.Context) (ScheduledJobs, error) {
	var resp ScheduledJobs
	err := c.do(ctx, http.MethodGet, PathScheduledDownloads, nil, &resp)
	return resp, err
}

// DeleteScheduled cancels a job that has not started yet. The response body is ignored.
func (c *Client) DeleteScheduled(ctx context.Context, taskID string) error {
	if taskID == "" {
		return errors.New("empty task id")
	}
	return c.do(ctx, http.MethodDelete, PathScheduledDownloads+"/"+url.PathEscape(taskID), nil, nil)
}

// Health asks the health route and falls back to the service root when it is missing.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	err := c.do(ctx, http.MethodGet, PathHealth, nil, &h)
	if err == nil || errors.Is(err, ErrConnect) {
		return h, err
	}

	log.Debugf("health route failed (%s), trying service root", err)
	h = Health{}
	err = c.do(ctx, http.MethodGet, PathRoot, nil, &h)
	return h, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL()+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.Must(uuid.NewV7()).String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constant.UserAgent)
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	entry := log.With(log.Fields{"method": method, "path": path, "request_id": requestID})
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		entry.WithError(err).Warn("request failed")
		return fmt.Errorf("%w: %w", ErrConnect, err)
	}
	defer util.Ignore(resp.Body.Close)

	entry.WithField("status", resp.StatusCode).WithField("took", time.Since(started)).Debug("response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return "/" + prefix
}
