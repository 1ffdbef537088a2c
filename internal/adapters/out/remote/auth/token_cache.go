// Package auth obtains machine-to-machine bearer tokens for outbound calls.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"orderflow/internal/pkg/errs"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var errNoCredentials = errors.New("no client credentials configured")

// Identity is the client-credentials registration used for one remote service.
type Identity struct {
	Service     string
	Credentials clientcredentials.Config
	// AllowAnonymous lets calls proceed without a token when none can be
	// obtained. The remote service then decides whether to serve them.
	AllowAnonymous bool
}

type entry struct {
	mu       sync.Mutex
	identity Identity
	token    *oauth2.Token
}

// TokenCache keeps one token per service and exchanges a new one when the
// cached token is absent or expired. It is safe for concurrent use; callers
// of the same service wait for a single exchange.
type TokenCache struct {
	entries    map[string]*entry
	httpClient *http.Client
	logger     *slog.Logger
}

// NewTokenCache registers identities. httpClient is used for the token
// exchange; nil means http.DefaultClient.
func NewTokenCache(httpClient *http.Client, logger *slog.Logger, identities ...Identity) *TokenCache {
	if logger == nil {
		logger = slog.Default()
	}
	entries := make(map[string]*entry, len(identities))
	for _, identity := range identities {
		entries[identity.Service] = &entry{identity: identity}
	}

	return &TokenCache{
		entries:    entries,
		httpClient: httpClient,
		logger:     logger.With("component", "token-cache"),
	}
}

// Token returns a valid access token for service.
func (c *TokenCache) Token(ctx context.Context, service string) (string, error) {
	e, ok := c.entries[service]
	if !ok {
		return "", errNoCredentials
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.token.Valid() {
		return e.token.AccessToken, nil
	}
	if e.identity.Credentials.TokenURL == "" || e.identity.Credentials.ClientID == "" {
		return "", errNoCredentials
	}

	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}
	token, err := e.identity.Credentials.Token(ctx)
	if err != nil {
		return "", err
	}

	e.token = token
	c.logger.DebugContext(ctx, "obtained service token",
		slog.String("service", service),
		slog.Time("expiry", token.Expiry),
	)
	return token.AccessToken, nil
}

// Invalidate drops the cached token of service if it is still rejected, the
// access token a remote service answered 401 to. A token exchanged in the
// meantime by another caller is kept. It reports whether a token was dropped.
func (c *TokenCache) Invalidate(service, rejected string) bool {
	e, ok := c.entries[service]
	if !ok || rejected == "" {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.token == nil || e.token.AccessToken != rejected {
		return false
	}

	e.token = nil
	c.logger.Info("service rejected cached token, dropping it", slog.String("service", service))
	return true
}

// Authorize sets the bearer token on req. When no token can be obtained the
// request goes out unauthenticated if the service allows it; otherwise
// *errs.RemoteAuthError is returned.
func (c *TokenCache) Authorize(ctx context.Context, req *http.Request, service string) error {
	token, err := c.Token(ctx, service)
	if err == nil {
		req.Header.Set("Authorization", "Bearer "+token)
		return nil
	}

	if e, ok := c.entries[service]; ok && e.identity.AllowAnonymous {
		c.logger.WarnContext(ctx, "calling service without token",
			slog.String("service", service),
			slog.String("error", err.Error()),
		)
		return nil
	}

	c.logger.ErrorContext(ctx, "could not obtain service token",
		slog.String("service", service),
		slog.String("error", err.Error()),
	)
	return errs.NewRemoteAuthError(service, err)
}
