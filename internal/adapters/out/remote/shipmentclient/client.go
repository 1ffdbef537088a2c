// Package shipmentclient implements ports.ShipmentClient against the
// shipment service. All calls share one retry policy.
package shipmentclient

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"orderflow/internal/adapters/out/remote"
	"orderflow/internal/adapters/out/remote/resilience"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/shipment"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

const (
	// ServiceName identifies the shipment service for tokens and errors.
	ServiceName = "shipment-service"
	// PolicyName is the retry policy shared by every shipment call.
	PolicyName = "shipmentService"
)

type shipmentRequest struct {
	OrderID          string `json:"orderId"`
	RecipientName    string `json:"recipientName"`
	RecipientAddress string `json:"recipientAddress"`
}

type shipmentResponse struct {
	ID               string     `json:"id"`
	TrackingNumber   string     `json:"trackingNumber"`
	OrderID          string     `json:"orderId"`
	RecipientName    string     `json:"recipientName"`
	RecipientAddress string     `json:"recipientAddress"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"createdAt"`
	ShippedAt        *time.Time `json:"shippedAt"`
	DeliveredAt      *time.Time `json:"deliveredAt"`
}

var _ ports.ShipmentClient = (*Client)(nil)

// Client creates and reads shipments through the shipment service API.
type Client struct {
	endpoint *remote.Endpoint
	policy   resilience.Policy
	logger   *slog.Logger
}

// New builds a client. policy.Name is forced to PolicyName.
//
// Example:
//
//	shipments, err := shipmentclient.New("http://localhost:8082/api/v1", httpClient, tokens, policy, logger)
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
	logger = logger.With("component", "shipment-client")
	policy.Name = PolicyName
	policy.Logger = logger

	return &Client{
		endpoint: endpoint,
		policy:   policy,
		logger:   logger,
	}, nil
}

// CreateShipment asks the shipment service for a new Pending shipment.
func (c *Client) CreateShipment(ctx context.Context, req ports.CreateShipmentRequest) (ports.ShipmentRecord, error) {
	if err := req.OrderID.Validate(); err != nil {
		return ports.ShipmentRecord{}, err
	}
	c.logger.InfoContext(ctx, "creating shipment", slog.String("order_id", req.OrderID.String()))

	body := shipmentRequest{
		OrderID:          req.OrderID.String(),
		RecipientName:    req.RecipientName,
		RecipientAddress: req.RecipientAddress,
	}
	return c.call(ctx, http.MethodPost, "/shipments", body, "shipment", req.OrderID.String())
}

func (c *Client) FetchShipment(ctx context.Context, id kernel.UUID) (ports.ShipmentRecord, error) {
	if err := id.Validate(); err != nil {
		return ports.ShipmentRecord{}, err
	}
	c.logger.DebugContext(ctx, "fetching shipment", slog.String("shipment_id", id.String()))

	return c.call(ctx, http.MethodGet, "/shipments/"+id.String(), nil, "shipment", id.String())
}

// FetchShipmentByTracking returns errs.ObjectNotFoundError for unknown numbers.
func (c *Client) FetchShipmentByTracking(ctx context.Context, trackingNumber string) (ports.ShipmentRecord, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return ports.ShipmentRecord{}, errs.NewValueIsRequiredError("trackingNumber")
	}
	c.logger.DebugContext(ctx, "fetching shipment by tracking number", slog.String("tracking_number", trackingNumber))

	return c.call(ctx, http.MethodGet, "/shipments/tracking/"+url.PathEscape(trackingNumber), nil,
		"trackingNumber", trackingNumber)
}

func (c *Client) call(ctx context.Context, method, path string, body any, param, id string) (ports.ShipmentRecord, error) {
	resp, err := resilience.Retry(ctx, c.policy, remote.IsTransient,
		func(ctx context.Context) (shipmentResponse, error) {
			var out shipmentResponse
			err := c.endpoint.Do(ctx, method, path, body, &out)
			if remote.IsNotFound(err) {
				return out, errs.NewObjectNotFoundErrorWithCause(param, id, err)
			}
			return out, err
		})
	if err != nil {
		return ports.ShipmentRecord{}, err
	}

	return toRecord(resp)
}

func toRecord(resp shipmentResponse) (ports.ShipmentRecord, error) {
	id, err := kernel.UUIDFromString(resp.ID)
	if err != nil {
		return ports.ShipmentRecord{}, err
	}
	orderID, err := kernel.UUIDFromString(resp.OrderID)
	if err != nil {
		return ports.ShipmentRecord{}, err
	}
	status, err := shipment.ParseStatus(resp.Status)
	if err != nil {
		return ports.ShipmentRecord{}, err
	}

	return ports.ShipmentRecord{
		ID:               id,
		TrackingNumber:   resp.TrackingNumber,
		OrderID:          orderID,
		RecipientName:    resp.RecipientName,
		RecipientAddress: resp.RecipientAddress,
		Status:           status,
		CreatedAt:        resp.CreatedAt.UTC(),
		ShippedAt:        utc(resp.ShippedAt),
		DeliveredAt:      utc(resp.DeliveredAt),
	}, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
