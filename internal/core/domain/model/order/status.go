package order

import (
	"fmt"
	"strings"

	"orderflow/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Shipped ──> Delivered
//	   │            │
//	   └────────────┴──> Cancelled
//
// Delivered and Cancelled are terminal.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of an order whose user was validated.
	Pending

	// Confirmed orders are claimed for shipping. An order stays here when the
	// shipment service could not be reached, so confirming again resumes it.
	Confirmed

	// Shipped orders carry the shipment id and tracking number.
	Shipped

	// Delivered is reported by the shipment service and is final.
	Delivered

	// Cancelled is final.
	Cancelled
)

const entityName = "order"

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "UNKNOWN",
		Pending:   "PENDING",
		Confirmed: "CONFIRMED",
		Shipped:   "SHIPPED",
		Delivered: "DELIVERED",
		Cancelled: "CANCELLED",
	}
}

// getTransitions returns the allowed targets per source status.
func getTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal and unknown statuses have no targets
	return map[Status][]Status{
		Pending:   {Confirmed, Cancelled},
		Confirmed: {Shipped, Cancelled},
		Shipped:   {Delivered},
	}
}

// ParseStatus converts a persisted or transported name (case-insensitive) back
// into a Status.
func ParseStatus(s string) (Status, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range getStatusStrings() {
		if status != Unknown && str == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid order status", s))
}

// Validate rejects Unknown and out-of-range values coming from persistence or
// callers.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the upper-case name used on the wire and in the database.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// AllowedTargets lists the statuses reachable from s in one step.
func (s Status) AllowedTargets() []Status {
	targets := getTransitions()[s]
	out := make([]Status, len(targets))
	copy(out, targets)
	return out
}

// CanTransition is the pure transition check for orders. It returns nil when
// to is an allowed target of from, and an *errs.InvalidTransitionError
// otherwise.
func CanTransition(from, to Status) error {
	for _, target := range getTransitions()[from] {
		if target == to {
			return nil
		}
	}
	return errs.NewInvalidTransitionError(entityName, from.String(), to.String())
}

// Confirm transitions Pending -> Confirmed.
func (s Status) Confirm() (Status, error) {
	return s.moveTo(Confirmed)
}

// Ship transitions Confirmed -> Shipped.
func (s Status) Ship() (Status, error) {
	return s.moveTo(Shipped)
}

// Deliver transitions Shipped -> Delivered.
func (s Status) Deliver() (Status, error) {
	return s.moveTo(Delivered)
}

// Cancel transitions Pending or Confirmed -> Cancelled.
func (s Status) Cancel() (Status, error) {
	return s.moveTo(Cancelled)
}

// ValidateCanHaveShipment checks the consistency between status and shipment
// linkage: Shipped and Delivered orders must carry it, Pending and Confirmed
// must not. Cancelled orders keep whatever they had when cancelled.
func (s Status) ValidateCanHaveShipment(linked bool) error {
	shipped := s == Shipped || s == Delivered
	if linked && !shipped && s != Cancelled {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a shipment", s),
		)
	}
	if !linked && shipped {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no shipment", s),
		)
	}
	return nil
}

func (s Status) moveTo(target Status) (Status, error) {
	if err := CanTransition(s, target); err != nil {
		return Unknown, err
	}
	return target, nil
}
