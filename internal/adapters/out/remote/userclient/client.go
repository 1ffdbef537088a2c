// Package userclient implements ports.UserClient against the identity service.
package userclient

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"orderflow/internal/adapters/out/remote"
	"orderflow/internal/adapters/out/remote/resilience"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// ServiceName identifies the identity service in tokens, policies and errors.
const ServiceName = "user-service"

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var _ ports.UserClient = (*Client)(nil)

// Client fetches user records from the identity service. Every call is
// authorized by the configured Authorizer and retried on transient failures.
type Client struct {
	endpoint *remote.Endpoint
	policy   resilience.Policy
	logger   *slog.Logger
}

// New builds a client for the service at baseURL. The policy logger is
// replaced by the client's own; a nil logger means slog.Default.
//
// Example:
//
//	users, err := userclient.New("http://localhost:8081/api/v1", remote.NewHTTPClient(5*time.Second),
//		tokens, resilience.Policy{Name: "userService", MaxAttempts: 3}, logger)
func New(
	baseURL string,
	httpClient *http.Client,
	authorizer remote.Authorizer,
	policy resilience.Policy,
	logger *slog.Logger,
) (*Client, error) {
	endpoint, err := remote.NewEndpoint(ServiceName, baseURL, httpClient, authorizer)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "user-client")
	policy.Logger = logger

	return &Client{
		endpoint: endpoint,
		policy:   policy,
		logger:   logger,
	}, nil
}

// FetchUser loads a user by id. A 404 answer is not retried.
func (c *Client) FetchUser(ctx context.Context, id kernel.UUID) (ports.UserRecord, error) {
	if err := id.Validate(); err != nil {
		return ports.UserRecord{}, err
	}
	c.logger.InfoContext(ctx, "fetching user", slog.String("user_id", id.String()))

	resp, err := resilience.Retry(ctx, c.policy, remote.IsTransient,
		func(ctx context.Context) (userResponse, error) {
			var out userResponse
			err := c.endpoint.Do(ctx, http.MethodGet, "/users/"+id.String(), nil, &out)
			if remote.IsNotFound(err) {
				return out, errs.NewObjectNotFoundErrorWithCause("user", id.String(), err)
			}
			return out, err
		})
	if err != nil {
		return ports.UserRecord{}, err
	}

	return toRecord(resp)
}

func toRecord(resp userResponse) (ports.UserRecord, error) {
	id, err := kernel.UUIDFromString(resp.ID)
	if err != nil {
		return ports.UserRecord{}, err
	}
	return ports.UserRecord{
		ID:        id,
		Email:     resp.Email,
		FirstName: resp.FirstName,
		LastName:  resp.LastName,
		Role:      resp.Role,
		Status:    resp.Status,
		CreatedAt: resp.CreatedAt.UTC(),
		UpdatedAt: resp.UpdatedAt.UTC(),
	}, nil
}
