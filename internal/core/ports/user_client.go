package ports

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"
)

// UserRecord is the identity service's view of a user.
type UserRecord struct {
	ID        kernel.UUID
	Email     string
	FirstName string
	LastName  string
	Role      string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserClient looks users up in the identity service.
type UserClient interface {
	// FetchUser returns errs.ObjectNotFoundError when the user does not exist,
	// errs.RemoteAuthError when the call could not be authenticated and
	// errs.RemoteServiceUnavailableError once transient failures exhausted the
	// retry budget.
	FetchUser(ctx context.Context, id kernel.UUID) (UserRecord, error)
}
