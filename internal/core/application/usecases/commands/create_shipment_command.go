package commands

import (
	"errors"
	"strings"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrCreateShipmentCommandIsNotConstructed = errors.New(
	"CreateShipmentCommand must be created via NewCreateShipmentCommand constructor",
)

// CreateShipmentCommand asks the shipment side to open a shipment for an order.
type CreateShipmentCommand struct { //nolint:recvcheck //using for validation
	orderID          kernel.UUID
	recipientName    string
	recipientAddress kernel.Address

	guard guard.ConstructorGuard
}

func NewCreateShipmentCommand(
	orderID kernel.UUID,
	recipientName string,
	recipientAddress kernel.Address,
) (CreateShipmentCommand, error) {
	cmd := CreateShipmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRecipientName(recipientName),
		cmd.setRecipientAddress(recipientAddress),
	); err != nil {
		return CreateShipmentCommand{}, err
	}

	return cmd, nil
}

func (c CreateShipmentCommand) Validate() error {
	return c.guard.Validate(ErrCreateShipmentCommandIsNotConstructed)
}

func (c CreateShipmentCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateShipmentCommand) RecipientName() string {
	return c.recipientName
}

func (c CreateShipmentCommand) RecipientAddress() kernel.Address {
	return c.recipientAddress
}

func (c *CreateShipmentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	c.orderID = orderID
	return nil
}

func (c *CreateShipmentCommand) setRecipientName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("recipientName")
	}
	c.recipientName = name
	return nil
}

func (c *CreateShipmentCommand) setRecipientAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	c.recipientAddress = address
	return nil
}
