package http

import (
	"time"

	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/shipment"

	"github.com/shopspring/decimal"
)

type CreateOrderRequest struct {
	UserID          string          `json:"userId"`
	ProductName     string          `json:"productName"`
	Quantity        int             `json:"quantity"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	ShippingAddress string          `json:"shippingAddress"`
}

type ConfirmOrderRequest struct {
	RecipientName string `json:"recipientName"`
}

type CreateShipmentRequest struct {
	OrderID          string `json:"orderId"`
	RecipientName    string `json:"recipientName"`
	RecipientAddress string `json:"recipientAddress"`
}

type UpdateShipmentStatusRequest struct {
	Status string `json:"status"`
}

type OrderResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	ProductName     string          `json:"productName"`
	Quantity        int             `json:"quantity"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	ShippingAddress string          `json:"shippingAddress"`
	Status          string          `json:"status"`
	ShipmentID      *string         `json:"shipmentId"`
	TrackingNumber  *string         `json:"trackingNumber"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type ShipmentResponse struct {
	ID               string     `json:"id"`
	TrackingNumber   string     `json:"trackingNumber"`
	OrderID          string     `json:"orderId"`
	RecipientName    string     `json:"recipientName"`
	RecipientAddress string     `json:"recipientAddress"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	ShippedAt        *time.Time `json:"shippedAt"`
	DeliveredAt      *time.Time `json:"deliveredAt"`
}

func orderFromAggregate(o *order.Order) OrderResponse {
	resp := OrderResponse{
		ID:              o.ID().String(),
		UserID:          o.UserID().String(),
		ProductName:     o.ProductName(),
		Quantity:        o.Quantity(),
		TotalPrice:      o.TotalPrice().Amount(),
		ShippingAddress: o.ShippingAddress().String(),
		Status:          o.Status().String(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	}
	if id := o.ShipmentID(); id != nil {
		s := id.String()
		resp.ShipmentID = &s
	}
	if tn := o.TrackingNumber(); tn != "" {
		resp.TrackingNumber = &tn
	}
	return resp
}

func orderFromView(v queries.OrderView) OrderResponse {
	resp := OrderResponse{
		ID:              v.ID.String(),
		UserID:          v.UserID.String(),
		ProductName:     v.ProductName,
		Quantity:        v.Quantity,
		TotalPrice:      v.TotalPrice,
		ShippingAddress: v.ShippingAddress,
		Status:          v.Status.String(),
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
	if v.ShipmentID != nil {
		s := v.ShipmentID.String()
		resp.ShipmentID = &s
	}
	if v.TrackingNumber != "" {
		tn := v.TrackingNumber
		resp.TrackingNumber = &tn
	}
	return resp
}

func ordersFromViews(views []queries.OrderView) []OrderResponse {
	out := make([]OrderResponse, len(views))
	for i, v := range views {
		out[i] = orderFromView(v)
	}
	return out
}

func shipmentFromAggregate(s *shipment.Shipment) ShipmentResponse {
	return ShipmentResponse{
		ID:               s.ID().String(),
		TrackingNumber:   s.TrackingNumber(),
		OrderID:          s.OrderID().String(),
		RecipientName:    s.RecipientName(),
		RecipientAddress: s.RecipientAddress().String(),
		Status:           s.Status().String(),
		CreatedAt:        s.CreatedAt(),
		UpdatedAt:        s.UpdatedAt(),
		ShippedAt:        s.ShippedAt(),
		DeliveredAt:      s.DeliveredAt(),
	}
}

func shipmentFromView(v queries.ShipmentView) ShipmentResponse {
	return ShipmentResponse{
		ID:               v.ID.String(),
		TrackingNumber:   v.TrackingNumber,
		OrderID:          v.OrderID.String(),
		RecipientName:    v.RecipientName,
		RecipientAddress: v.RecipientAddress,
		Status:           v.Status.String(),
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
		ShippedAt:        v.ShippedAt,
		DeliveredAt:      v.DeliveredAt,
	}
}
