package shipment

import (
	"fmt"
	"strings"

	"orderflow/internal/pkg/errs"
)

// Status is the lifecycle state of a shipment.
//
// Transition table:
//
//	Pending   -> Shipped, Cancelled
//	Shipped   -> InTransit, Delivered
//	InTransit -> Delivered
//	Delivered, Cancelled: terminal
type Status int

const (
	Unknown Status = iota
	Pending
	Shipped
	InTransit
	Delivered
	Cancelled
)

const entityName = "shipment"

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "UNKNOWN",
		Pending:   "PENDING",
		Shipped:   "SHIPPED",
		InTransit: "IN_TRANSIT",
		Delivered: "DELIVERED",
		Cancelled: "CANCELLED",
	}
}

func getTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal and unknown statuses have no targets
	return map[Status][]Status{
		Pending:   {Shipped, Cancelled},
		Shipped:   {InTransit, Delivered},
		InTransit: {Delivered},
	}
}

// ParseStatus accepts the wire names, case-insensitively.
func ParseStatus(s string) (Status, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range getStatusStrings() {
		if status != Unknown && str == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid shipment status", s))
}

func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

func (s Status) IsTerminal() bool {
	return len(getTransitions()[s]) == 0
}

// AllowedTargets returns a copy of the table row for s.
func (s Status) AllowedTargets() []Status {
	targets := getTransitions()[s]
	out := make([]Status, len(targets))
	copy(out, targets)
	return out
}

// CanTransition looks up from's row in the transition table and fails with an
// *errs.InvalidTransitionError when to is absent.
func CanTransition(from, to Status) error {
	for _, target := range getTransitions()[from] {
		if target == to {
			return nil
		}
	}
	return errs.NewInvalidTransitionError(entityName, from.String(), to.String())
}
