// Package services holds domain logic that spans the order and shipment
// aggregates without belonging to either.
//
// The package includes:
//   - ShipmentLinker: checks a shipment reported by the shipment service
//     against its order, links them on Shipped, and follows delivery
package services
