package commands

import (
	"errors"
	"fmt"
	"strings"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to place a new order for an
// existing user.
//
// Example:
//
//	price, _ := kernel.MoneyFromString("2499.99")
//	address, _ := kernel.NewAddress("123 Main St")
//	cmd, err := NewCreateOrderCommand(userID, "Laptop", 2, price, address)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	o, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	userID          kernel.UUID
	productName     string
	quantity        int
	totalPrice      kernel.Money
	shippingAddress kernel.Address

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the request shape. The order aggregate
// repeats these checks when it is built.
func NewCreateOrderCommand(
	userID kernel.UUID,
	productName string,
	quantity int,
	totalPrice kernel.Money,
	shippingAddress kernel.Address,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setUserID(userID),
		cmd.setProductName(productName),
		cmd.setQuantity(quantity),
		cmd.setTotalPrice(totalPrice),
		cmd.setShippingAddress(shippingAddress),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) UserID() kernel.UUID {
	return c.userID
}

func (c CreateOrderCommand) ProductName() string {
	return c.productName
}

func (c CreateOrderCommand) Quantity() int {
	return c.quantity
}

func (c CreateOrderCommand) TotalPrice() kernel.Money {
	return c.totalPrice
}

func (c CreateOrderCommand) ShippingAddress() kernel.Address {
	return c.shippingAddress
}

func (c *CreateOrderCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("userId", err)
	}
	c.userID = userID
	return nil
}

func (c *CreateOrderCommand) setProductName(productName string) error {
	productName = strings.TrimSpace(productName)
	if productName == "" {
		return errs.NewValueIsRequiredError("productName")
	}
	c.productName = productName
	return nil
}

func (c *CreateOrderCommand) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	c.quantity = quantity
	return nil
}

func (c *CreateOrderCommand) setTotalPrice(totalPrice kernel.Money) error {
	if err := totalPrice.Validate(); err != nil {
		return err
	}
	if !totalPrice.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("totalPrice", fmt.Errorf("%s is not greater than 0", totalPrice))
	}
	c.totalPrice = totalPrice
	return nil
}

func (c *CreateOrderCommand) setShippingAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	c.shippingAddress = address
	return nil
}
