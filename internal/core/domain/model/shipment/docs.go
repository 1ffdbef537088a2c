// Package shipment provides the Shipment aggregate owned by the shipment
// service core: its status transition table, the tracking number format and
// the timestamping rules for the Shipped and Delivered transitions.
package shipment
