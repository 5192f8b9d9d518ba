// Package client talks to the research backend over HTTP JSON.
//
// Every call normalizes transport failures, non-success statuses and
// {success:false} replies into *Error. Calls are never retried and are only
// cancelled through the caller's context.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// maxErrorBody bounds how much of an error reply is read.
const maxErrorBody = 64 << 10

// Client is a typed backend client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        logrus.FieldLogger
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithToken sends "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) { c.log = l }
}

// New builds a client for baseURL (e.g. http://localhost:5000).
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	nop := logrus.New()
	nop.SetOutput(io.Discard)
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        nop,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the normalized backend address.
func (c *Client) BaseURL() string { return c.baseURL }

// envelope holds the fields shared by every JSON reply.
type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// send performs the request and returns the response for a 2xx status.
// Non-2xx replies are consumed and turned into KindStatus errors.
func (c *Client) send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	op := method + " " + path
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, Message: "build request", Err: err}
	}
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, Message: "request failed", Err: err}
	}
	c.log.WithFields(logrus.Fields{
		"endpoint": op,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var env envelope
		msg := ""
		if json.Unmarshal(raw, &env) == nil {
			msg = firstNonEmpty(env.Error, env.Message)
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &Error{Kind: KindStatus, Op: op, Status: resp.StatusCode, Message: msg}
	}
	return resp, nil
}

// do sends a JSON request and decodes a successful JSON reply into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, Status: resp.StatusCode, Message: "read response", Err: err}
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &Error{Kind: KindTransport, Op: op, Status: resp.StatusCode, Message: "decode response", Err: err}
	}
	if (env.Success != nil && !*env.Success) || (env.Success == nil && env.Error != "") {
		msg := firstNonEmpty(env.Error, env.Message, "request was not successful")
		return &Error{Kind: KindApplication, Op: op, Status: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Kind: KindTransport, Op: op, Status: resp.StatusCode, Message: "decode response", Err: err}
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
