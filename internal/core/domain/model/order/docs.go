// Package order provides the Order aggregate and its status state machine.
//
// The package includes:
//   - Order: the aggregate root holding the order's identity, the ordered
//     product, its price, the shipping address and the shipment linkage
//   - Status: the lifecycle with its transition graph and the pure
//     CanTransition check
//
// Key business rules:
//   - Orders start Pending and move Pending -> Confirmed -> Shipped -> Delivered
//   - Only Pending and Confirmed orders can be cancelled
//   - Shipment id and tracking number are written once, together with Shipped
//   - Illegal transitions fail with errs.InvalidTransitionError
package order
