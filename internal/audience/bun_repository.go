package audience

import (
	"context"
	"fmt"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-pacer/internal/storage"
)

// BunRepository implements Repository on top of go-repository-bun.
type BunRepository[T Record] struct {
	repo      repository.Repository[T]
	resource  string
	newRecord func() T
	columns   []string
}

var (
	_ WaitlistRepository   = (*BunRepository[*WaitlistEntry])(nil)
	_ SubscriberRepository = (*BunRepository[*Subscriber])(nil)
	_ UserRepository       = (*BunRepository[*User])(nil)
)

// NewBunWaitlistRepository stores waitlist entries in waitlist_entries.
func NewBunWaitlistRepository(db *bun.DB) *BunRepository[*WaitlistEntry] {
	return newBunRepository(db, "waitlist entry", func() *WaitlistEntry { return &WaitlistEntry{} },
		"email", "name", "goal", "source", "method", "ip_address", "user_agent", "updated_at")
}

// NewBunSubscriberRepository stores subscribers in subscribers.
func NewBunSubscriberRepository(db *bun.DB) *BunRepository[*Subscriber] {
	return newBunRepository(db, "subscriber", func() *Subscriber { return &Subscriber{} },
		"email", "name", "status", "source", "subscribed_at", "unsubscribed_at", "updated_at")
}

// NewBunUserRepository stores users in users.
func NewBunUserRepository(db *bun.DB) *BunRepository[*User] {
	return newBunRepository(db, "user", func() *User { return &User{} },
		"email", "name", "role", "updated_at")
}

func newBunRepository[T Record](db *bun.DB, resource string, newRecord func() T, columns ...string) *BunRepository[T] {
	repo := repository.MustNewRepository(db, repository.ModelHandlers[T]{
		NewRecord: newRecord,
		GetID: func(record T) uuid.UUID {
			return record.GetID()
		},
		SetID: func(record T, id uuid.UUID) {
			record.SetID(id)
		},
		GetIdentifier: func() string {
			return "email"
		},
		GetIdentifierValue: func(record T) string {
			return record.GetEmail()
		},
	})
	return &BunRepository[T]{
		repo:      repo,
		resource:  resource,
		newRecord: newRecord,
		columns:   columns,
	}
}

func (r *BunRepository[T]) Create(ctx context.Context, record T) (T, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		var zero T
		if storage.IsUniqueViolation(err) {
			return zero, ErrEmailExists
		}
		return zero, fmt.Errorf("%s repository error: %w", r.resource, err)
	}
	return created, nil
}

func (r *BunRepository[T]) Update(ctx context.Context, record T) (T, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.GetID().String()),
		repository.UpdateColumns(r.columns...),
	)
	if err != nil {
		var zero T
		if storage.IsUniqueViolation(err) {
			return zero, ErrEmailExists
		}
		return zero, mapRepositoryError(err, r.resource, record.GetID().String())
	}
	return updated, nil
}

func (r *BunRepository[T]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		var zero T
		return zero, mapRepositoryError(err, r.resource, id.String())
	}
	return record, nil
}

func (r *BunRepository[T]) GetByEmail(ctx context.Context, email string) (T, error) {
	record, err := r.repo.GetByIdentifier(ctx, email)
	if err != nil {
		var zero T
		return zero, mapRepositoryError(err, r.resource, email)
	}
	return record, nil
}

func (r *BunRepository[T]) List(ctx context.Context, opts ListOptions) ([]T, int, error) {
	order := repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.created_at DESC").OrderExpr("?TableAlias.email ASC")
	})

	var (
		records []T
		total   int
		err     error
	)
	if opts.Limit > 0 {
		records, total, err = r.repo.List(ctx, order, repository.SelectPaginate(opts.Limit, max(opts.Offset, 0)))
	} else {
		records, total, err = r.repo.List(ctx, order)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%s repository error: %w", r.resource, err)
	}
	return records, total, nil
}

func (r *BunRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	record := r.newRecord()
	record.SetID(id)
	return r.repo.Delete(ctx, record)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if errors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
