// Package api implements the HTTP client for the VetSOAP backend: URL
// building, domain validation, auth and signing header injection, timeout
// handling, and structured error mapping. Endpoint wrappers for the REST
// surface live alongside it.
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
	"sync"
	"time"

	"github.com/vetsoap/vetsoap-go/internal/common"
	"github.com/vetsoap/vetsoap-go/internal/logging"
	"github.com/vetsoap/vetsoap-go/internal/securestore"
	"github.com/vetsoap/vetsoap-go/internal/signing"
	"github.com/vetsoap/vetsoap-go/internal/urlguard"
)

// TokenRefresher proactively renews the stored access token when it is
// expired or about to expire. session.Auth satisfies it.
type TokenRefresher interface {
	EnsureFresh(ctx context.Context) error
}

// Options configures a Client. Guard, Signer, Credentials and Logger are
// required; zero timeouts fall back to the defaults below.
type Options struct {
	BaseURL     string
	Guard       *urlguard.Guard
	Signer      *signing.Signer
	Credentials *securestore.CredentialStore
	Logger      logging.Logger

	// Refresher, when set, runs before every request so an expiring
	// session is renewed instead of 401ing into a forced sign-out.
	Refresher TokenRefresher

	// Verbose passes server-provided error messages through unchanged.
	// Leave false in production so backend detail never reaches end users.
	Verbose bool

	RequestTimeout time.Duration
	UploadTimeout  time.Duration

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

const (
	defaultRequestTimeout = 30 * time.Second
	defaultUploadTimeout  = 5 * time.Minute
)

// Client executes requests against the backend. All outbound URLs pass the
// domain guard before any network I/O, mutating requests carry signing
// headers, and a stored access token is attached as a bearer credential.
type Client struct {
	baseURL   string
	http      *http.Client
	guard     *urlguard.Guard
	signer    *signing.Signer
	creds     *securestore.CredentialStore
	refresher TokenRefresher
	log       logging.Logger
	verbose   bool

	requestTimeout time.Duration
	uploadTimeout  time.Duration

	mu             sync.Mutex
	onUnauthorized func()
}

func New(opts Options) *Client {
	c := &Client{
		baseURL:        opts.BaseURL,
		http:           opts.HTTPClient,
		guard:          opts.Guard,
		signer:         opts.Signer,
		creds:          opts.Credentials,
		refresher:      opts.Refresher,
		log:            opts.Logger,
		verbose:        opts.Verbose,
		requestTimeout: opts.RequestTimeout,
		uploadTimeout:  opts.UploadTimeout,
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.requestTimeout <= 0 {
		c.requestTimeout = defaultRequestTimeout
	}
	if c.uploadTimeout <= 0 {
		c.uploadTimeout = defaultUploadTimeout
	}
	return c
}

// SetOnUnauthorized registers the callback invoked on any 401 response,
// before the response is translated into an error. Used to force sign-out.
func (c *Client) SetOnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *Client) notifyUnauthorized() {
	c.mu.Lock()
	fn := c.onUnauthorized
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// buildURL joins the base URL, path, and defined query parameters. Empty
// parameter values are omitted entirely.
func (c *Client) buildURL(path string, params map[string]string) string {
	full := c.baseURL + path
	if len(params) == 0 {
		return full
	}

	q := url.Values{}
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}
	if enc := q.Encode(); enc != "" {
		full += "?" + enc
	}
	return full
}

func (c *Client) authHeader(ctx context.Context) (string, bool) {
	token, err := c.creds.GetToken(ctx)
	if err != nil || token == "" {
		return "", false
	}
	return "Bearer " + token, true
}

// Do executes a JSON request and decodes the response into out (which may
// be nil for requests without a meaningful body). The body is serialized
// exactly once; signing headers are computed from that serialization.
func (c *Client) Do(ctx context.Context, method, path string, params map[string]string, body any, out any) error {
	fullURL := c.buildURL(path, params)

	if err := c.guard.ValidateRequestURL(fullURL); err != nil {
		return err
	}

	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	if c.refresher != nil {
		if err := c.refresher.EnsureFresh(ctx); err != nil && !errors.Is(err, common.ErrNoCredential) {
			// The request proceeds with whatever token is stored; a
			// truly dead session surfaces as a 401.
			c.log.Warn(ctx, "token refresh failed", "error", err)
		}
	}

	var reader io.Reader
	if bodyBytes != nil {
		reader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if auth, ok := c.authHeader(ctx); ok {
		req.Header.Set(common.AuthorizationHeaderName, auth)
	}
	for k, v := range c.signer.Headers(ctx, method, path, bodyBytes) {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.responseError(ctx, resp)
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// Upload PUTs raw file bytes to a presigned URL, bypassing the backend.
// The target must pass the looser presigned-upload predicate, and the
// transfer runs under the long upload timeout rather than the default.
func (c *Client) Upload(ctx context.Context, uploadURL string, contentType string, data []byte) error {
	if err := c.guard.ValidateUploadURL(uploadURL); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &Error{
			Status:    resp.StatusCode,
			Message:   fmt.Sprintf("upload failed: %s", string(b)),
			Retryable: resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError,
		}
	}
	return nil
}

// transportError classifies a failure where no response arrived. Timeouts
// and cancellations are retryable by the caller; the aborted request is
// never retried automatically.
func (c *Client) transportError(ctx context.Context, err error) error {
	msg := "Network request failed. Please check your connection."
	if errors.Is(err, context.DeadlineExceeded) {
		msg = "The request timed out. Please try again."
	}
	c.log.Warn(ctx, "request transport failure", "error", err)
	return &Error{Message: msg, Retryable: true, cause: common.ErrUnavailable}
}

// responseError translates a non-2xx response into a typed error. A 401
// first fires the unauthorized callback. In verbose mode the
// server-provided message is passed through; otherwise a status-class
// user-safe message is used.
func (c *Client) responseError(ctx context.Context, resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		c.notifyUnauthorized()
	}

	var envelope struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 8192)).Decode(&envelope)

	msg := userSafeMessage(resp.StatusCode, envelope.Error)
	if c.verbose {
		if envelope.Error != "" {
			msg = envelope.Error
		} else {
			msg = fmt.Sprintf("request failed: %d", resp.StatusCode)
		}
	}

	c.log.Warn(ctx, "request failed", "status", resp.StatusCode)

	return &Error{
		Status:    resp.StatusCode,
		Message:   msg,
		Retryable: resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError,
	}
}

// Convenience wrappers in the usual REST shapes.

func (c *Client) Get(ctx context.Context, path string, params map[string]string, out any) error {
	return c.Do(ctx, http.MethodGet, path, params, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body any, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}
