package kernel

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// AddressMaxLength bounds the stored shipping address.
const AddressMaxLength = 500

// ErrAddressIsNotConstructed is returned when a zero-value Address is validated.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError("address must be created via NewAddress")

// Address is a free-form postal address. Surrounding whitespace is trimmed and
// the remaining text must be non-empty.
type Address struct { //nolint:recvcheck //using for validation
	value string
	guard guard.ConstructorGuard
}

func NewAddress(value string) (Address, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Address{}, errs.NewValueIsRequiredError("shippingAddress")
	}
	if n := utf8.RuneCountInString(trimmed); n > AddressMaxLength {
		return Address{}, errs.NewValueIsInvalidErrorWithCause(
			"shippingAddress",
			fmt.Errorf("%d characters exceeds %d", n, AddressMaxLength),
		)
	}
	return Address{value: trimmed, guard: guard.NewConstructorGuard()}, nil
}

func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

func (a Address) String() string {
	return a.value
}

func (a Address) IsEqual(other Address) bool {
	return a.value == other.value
}
