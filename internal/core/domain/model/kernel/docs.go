// Package kernel provides the value objects shared by the order and shipment
// aggregates:
//   - UUID: entity identifier backed by github.com/google/uuid
//   - Money: non-negative decimal amount with a fixed scale of two digits
//   - Address: trimmed, non-empty postal address
//
// Values are immutable. Money and Address embed a guard.ConstructorGuard, so a
// zero value fails Validate.
package kernel
