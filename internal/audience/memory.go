package audience

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type memoryRepository[T Record] struct {
	mu       sync.RWMutex
	resource string
	clone    func(T) T
	created  func(T) int64
	byID     map[uuid.UUID]T
	byEmail  map[string]uuid.UUID
}

// NewMemoryWaitlistRepository constructs an in-memory waitlist repository.
func NewMemoryWaitlistRepository() WaitlistRepository {
	return newMemoryRepository("waitlist entry",
		func(e *WaitlistEntry) *WaitlistEntry {
			c := *e
			return &c
		},
		func(e *WaitlistEntry) int64 { return e.CreatedAt.UnixNano() },
	)
}

// NewMemorySubscriberRepository constructs an in-memory subscriber repository.
func NewMemorySubscriberRepository() SubscriberRepository {
	return newMemoryRepository("subscriber",
		func(s *Subscriber) *Subscriber {
			c := *s
			if s.UnsubscribedAt != nil {
				at := *s.UnsubscribedAt
				c.UnsubscribedAt = &at
			}
			return &c
		},
		func(s *Subscriber) int64 { return s.CreatedAt.UnixNano() },
	)
}

// NewMemoryUserRepository constructs an in-memory user repository.
func NewMemoryUserRepository() UserRepository {
	return newMemoryRepository("user",
		func(u *User) *User {
			c := *u
			return &c
		},
		func(u *User) int64 { return u.CreatedAt.UnixNano() },
	)
}

func newMemoryRepository[T Record](resource string, clone func(T) T, created func(T) int64) *memoryRepository[T] {
	return &memoryRepository[T]{
		resource: resource,
		clone:    clone,
		created:  created,
		byID:     make(map[uuid.UUID]T),
		byEmail:  make(map[string]uuid.UUID),
	}
}

func (m *memoryRepository[T]) Create(_ context.Context, record T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	email := emailKey(record.GetEmail())
	if _, exists := m.byEmail[email]; exists {
		return zero, ErrEmailExists
	}
	if _, exists := m.byID[record.GetID()]; exists {
		return zero, ErrEmailExists
	}
	cloned := m.clone(record)
	m.byID[cloned.GetID()] = cloned
	m.byEmail[email] = cloned.GetID()
	return m.clone(cloned), nil
}

func (m *memoryRepository[T]) Update(_ context.Context, record T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	existing, ok := m.byID[record.GetID()]
	if !ok {
		return zero, &NotFoundError{Resource: m.resource, Key: record.GetID().String()}
	}
	oldEmail := emailKey(existing.GetEmail())
	newEmail := emailKey(record.GetEmail())
	if owner, taken := m.byEmail[newEmail]; taken && owner != record.GetID() {
		return zero, ErrEmailExists
	}

	cloned := m.clone(record)
	m.byID[cloned.GetID()] = cloned
	if oldEmail != newEmail {
		delete(m.byEmail, oldEmail)
	}
	m.byEmail[newEmail] = cloned.GetID()
	return m.clone(cloned), nil
}

func (m *memoryRepository[T]) GetByID(_ context.Context, id uuid.UUID) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		var zero T
		return zero, &NotFoundError{Resource: m.resource, Key: id.String()}
	}
	return m.clone(record), nil
}

func (m *memoryRepository[T]) GetByEmail(_ context.Context, email string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key := emailKey(email)
	id, ok := m.byEmail[key]
	if !ok {
		var zero T
		return zero, &NotFoundError{Resource: m.resource, Key: key}
	}
	return m.clone(m.byID[id]), nil
}

func (m *memoryRepository[T]) List(_ context.Context, opts ListOptions) ([]T, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]T, 0, len(m.byID))
	for _, record := range m.byID {
		records = append(records, m.clone(record))
	}
	sort.Slice(records, func(i, j int) bool {
		ci, cj := m.created(records[i]), m.created(records[j])
		if ci != cj {
			return ci > cj
		}
		return records[i].GetEmail() < records[j].GetEmail()
	})

	total := len(records)
	if opts.Limit <= 0 {
		return records, total, nil
	}
	start := min(max(opts.Offset, 0), total)
	end := min(start+opts.Limit, total)
	return records[start:end], total, nil
}

func (m *memoryRepository[T]) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: m.resource, Key: id.String()}
	}
	delete(m.byEmail, emailKey(record.GetEmail()))
	delete(m.byID, id)
	return nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
