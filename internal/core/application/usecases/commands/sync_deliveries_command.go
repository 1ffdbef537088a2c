package commands

import (
	"errors"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// DefaultSyncBatchSize bounds how many shipped orders one run inspects.
const DefaultSyncBatchSize = 100

var ErrSyncDeliveriesCommandIsNotConstructed = errors.New(
	"SyncDeliveriesCommand must be created via NewSyncDeliveriesCommand constructor",
)

// SyncDeliveriesCommand asks to pull delivery state for shipped orders.
type SyncDeliveriesCommand struct { //nolint:recvcheck //using for validation
	batchSize int

	guard guard.ConstructorGuard
}

// NewSyncDeliveriesCommand uses DefaultSyncBatchSize when batchSize is zero.
func NewSyncDeliveriesCommand(batchSize int) (SyncDeliveriesCommand, error) {
	if batchSize < 0 {
		return SyncDeliveriesCommand{}, errs.NewValueIsOutOfRangeError("batchSize", batchSize, 0, "unbounded")
	}
	if batchSize == 0 {
		batchSize = DefaultSyncBatchSize
	}

	return SyncDeliveriesCommand{
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c SyncDeliveriesCommand) Validate() error {
	return c.guard.Validate(ErrSyncDeliveriesCommandIsNotConstructed)
}

func (c SyncDeliveriesCommand) BatchSize() int {
	return c.batchSize
}
