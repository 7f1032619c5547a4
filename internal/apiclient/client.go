package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultTimeout = 10 * time.Second
	maxBodyBytes   = 8 << 20
)

// TokenSource supplies the bearer credential for outgoing requests. Purge is
// called when the API answers 401.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
	Purge(ctx context.Context) error
}

type Config struct {
	BaseURL   string
	Timeout   time.Duration
	Envelope  EnvelopeMode
	Transport http.RoundTripper
}

// Client talks JSON to the remote REST API. A Client is safe for concurrent
// use; WithTokens returns a copy bound to one session.
type Client struct {
	base     *url.URL
	hc       *http.Client
	envelope EnvelopeMode
	tokens   TokenSource
	log      *logrus.Entry
}

func New(cfg Config, log *logrus.Entry) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", cfg.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rt := cfg.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	mode := cfg.Envelope
	if mode == "" {
		mode = EnvelopeAuto
	}
	return &Client{
		base:     base,
		hc:       &http.Client{Timeout: timeout, Transport: otelhttp.NewTransport(rt)},
		envelope: mode,
		log:      log.WithField("component", "apiclient"),
	}, nil
}

func (c *Client) WithTokens(ts TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPost, path, in, out)
}

func (c *Client) Patch(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPatch, path, in, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do sends one request. in is encoded as JSON when non-nil; the (unwrapped)
// response payload is decoded into out when out is non-nil. Every failure is
// an *Error.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	fail := func(kind Kind, status int, msg string, err error) *Error {
		return &Error{Kind: kind, Status: status, Message: msg, Method: method, Path: path, Err: err}
	}

	target, err := c.resolve(path)
	if err != nil {
		return fail(KindMalformed, 0, "", err)
	}
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fail(KindMalformed, 0, "", fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fail(KindMalformed, 0, "", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		tok, err := c.tokens.AccessToken(ctx)
		if err != nil {
			c.log.WithError(err).Warn("token source failed, sending without credentials")
		} else if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	started := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observe(method, 0, started)
		return fail(KindTransport, 0, "", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	observe(method, resp.StatusCode, started)
	if err != nil {
		return fail(KindTransport, resp.StatusCode, "", fmt.Errorf("read body: %w", err))
	}
	c.log.WithFields(logrus.Fields{
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(started).String(),
	}).Debug("api call")

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if c.tokens != nil {
			if err := c.tokens.Purge(ctx); err != nil {
				c.log.WithError(err).Error("purge credentials after 401")
			}
		}
		return fail(KindUnauthorized, resp.StatusCode, errorMessage(raw), nil)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fail(KindHTTP, resp.StatusCode, errorMessage(raw), nil)
	}

	payload, failed, err := unwrap(c.envelope, raw)
	if err != nil {
		return fail(KindMalformed, resp.StatusCode, "", err)
	}
	if failed {
		return fail(KindHTTP, resp.StatusCode, errorMessage(raw), nil)
	}
	if err := decode(payload, out); err != nil {
		return fail(KindMalformed, resp.StatusCode, "", err)
	}
	return nil
}

func (c *Client) resolve(path string) (string, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("parse path %q: %w", path, err)
	}
	if ref.IsAbs() || ref.Host != "" {
		return "", fmt.Errorf("path %q must be relative to the base url", path)
	}
	return c.base.ResolveReference(ref).String(), nil
}

// Path joins escaped segments, e.g. Path("posts", id, "comments").
func Path(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return strings.Join(escaped, "/")
}
