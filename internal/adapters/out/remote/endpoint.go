// Package remote holds the plumbing shared by the outbound service clients:
// JSON request execution, bearer authorization, status classification.
//
// The typed clients live in sub-packages (userclient, shipmentclient) and
// wrap every call in resilience.Retry using IsTransient as the predicate.
package remote

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

	"orderflow/internal/pkg/errs"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	contentTypeJSON = "application/json"
	maxErrorBody    = 512
)

// Authorizer decorates an outbound request with credentials for service.
type Authorizer interface {
	Authorize(ctx context.Context, req *http.Request, service string) error
}

// TokenInvalidator is implemented by authorizers that cache tokens. Endpoint
// calls it when a service answers 401 to a bearer token, then authorizes and
// sends the request once more.
type TokenInvalidator interface {
	Invalidate(service, rejected string) bool
}

// NewHTTPClient returns a client whose transport propagates trace context.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// Endpoint performs JSON calls against one remote service.
type Endpoint struct {
	service string
	baseURL string
	client  *http.Client
	auth    Authorizer
}

// NewEndpoint validates baseURL. A nil httpClient gets NewHTTPClient defaults
// and a nil auth sends requests without credentials.
func NewEndpoint(service, baseURL string, httpClient *http.Client, auth Authorizer) (*Endpoint, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError(service + " base URL")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, errs.NewValueIsInvalidErrorWithCause(service+" base URL", fmt.Errorf("%q is not an absolute URL", baseURL))
	}
	if httpClient == nil {
		httpClient = NewHTTPClient(0)
	}

	return &Endpoint{
		service: service,
		baseURL: baseURL,
		client:  httpClient,
		auth:    auth,
	}, nil
}

// Service names the remote service in errors and logs.
func (e *Endpoint) Service() string {
	return e.service
}

// Do sends body (if any) as JSON to path and decodes a 2xx answer into out.
// Non-2xx answers are returned as *StatusError, except 401 and 403 which
// become *errs.RemoteAuthError. A 401 to a cached bearer token evicts the
// token and the request is sent once more with a fresh one.
func (e *Endpoint) Do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode %s request: %w", e.service, err)
		}
	}

	resp, token, err := e.send(ctx, method, path, payload)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && token != "" {
		if invalidator, ok := e.auth.(TokenInvalidator); ok && invalidator.Invalidate(e.service, token) {
			drain(resp)
			if resp, _, err = e.send(ctx, method, path, payload); err != nil {
				return err
			}
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := &StatusError{
			Service:    e.service,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return errs.NewRemoteAuthError(e.service, statusErr)
		}
		return statusErr
	}

	if out == nil {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", e.service, err)
	}
	return nil
}

// send builds a fresh request so the body can be replayed, authorizes it and
// returns the bearer token it went out with.
func (e *Endpoint) send(ctx context.Context, method, path string, payload []byte) (*http.Response, string, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, e.baseURL+path, reader)
	if err != nil {
		return nil, "", fmt.Errorf("build %s request: %w", e.service, err)
	}
	req.Header.Set("Accept", contentTypeJSON)
	if payload != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	if e.auth != nil {
		if err = e.auth.Authorize(ctx, req, e.service); err != nil {
			return nil, "", err
		}
	}
	token, bearer := strings.CutPrefix(req.Header.Get("Authorization"), "Bearer ")
	if !bearer {
		token = ""
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("call %s: %w", e.service, err)
	}
	return resp, token, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
}

// StatusError is a non-2xx answer from a remote service.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s responded %d: %s", e.Service, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s responded %d", e.Service, e.StatusCode)
}

// IsNotFound reports whether err is a 404 answer.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

// IsTransient decides whether a failed call is worth repeating: transport
// failures, timeouts, 5xx and 429 are; other 4xx, auth failures, domain
// errors and caller cancellation are not.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, errs.ErrRemoteAuth) || errors.Is(err, errs.ErrObjectNotFound) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= http.StatusInternalServerError ||
			statusErr.StatusCode == http.StatusTooManyRequests
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
