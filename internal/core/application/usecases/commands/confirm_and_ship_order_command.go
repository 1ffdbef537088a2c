package commands

import (
	"errors"
	"strings"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrConfirmAndShipOrderCommandIsNotConstructed = errors.New(
	"ConfirmAndShipOrderCommand must be created via NewConfirmAndShipOrderCommand constructor",
)

// ConfirmAndShipOrderCommand asks to confirm an order and hand it to the
// shipment service for the named recipient.
type ConfirmAndShipOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	recipientName string

	guard guard.ConstructorGuard
}

func NewConfirmAndShipOrderCommand(orderID kernel.UUID, recipientName string) (ConfirmAndShipOrderCommand, error) {
	cmd := ConfirmAndShipOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRecipientName(recipientName),
	); err != nil {
		return ConfirmAndShipOrderCommand{}, err
	}

	return cmd, nil
}

func (c ConfirmAndShipOrderCommand) Validate() error {
	return c.guard.Validate(ErrConfirmAndShipOrderCommandIsNotConstructed)
}

func (c ConfirmAndShipOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ConfirmAndShipOrderCommand) RecipientName() string {
	return c.recipientName
}

func (c *ConfirmAndShipOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ConfirmAndShipOrderCommand) setRecipientName(recipientName string) error {
	recipientName = strings.TrimSpace(recipientName)
	if recipientName == "" {
		return errs.NewValueIsRequiredError("recipientName")
	}
	c.recipientName = recipientName
	return nil
}
