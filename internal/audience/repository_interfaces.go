package audience

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Record is implemented by every audience model.
type Record interface {
	GetID() uuid.UUID
	SetID(uuid.UUID)
	GetEmail() string
}

// Repository exposes persistence operations for one audience model.
type Repository[T Record] interface {
	Create(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, record T) (T, error)
	GetByID(ctx context.Context, id uuid.UUID) (T, error)
	GetByEmail(ctx context.Context, email string) (T, error)
	List(ctx context.Context, opts ListOptions) ([]T, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type (
	WaitlistRepository   = Repository[*WaitlistEntry]
	SubscriberRepository = Repository[*Subscriber]
	UserRepository       = Repository[*User]
)

// ListOptions paginates List calls. Limit <= 0 returns every record.
type ListOptions struct {
	Limit  int
	Offset int
}

// NotFoundError is returned when a record cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}
