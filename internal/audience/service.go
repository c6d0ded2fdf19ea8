package audience

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-pacer/internal/identity"
	"github.com/goliatone/go-pacer/internal/logging"
	"github.com/goliatone/go-pacer/internal/validation"
	"github.com/goliatone/go-pacer/pkg/interfaces"
)

// Service manages waitlist, subscriber and user records.
type Service interface {
	CreateWaitlistEntry(ctx context.Context, input WaitlistInput) (*WaitlistEntry, error)
	RecordWaitlistEntry(ctx context.Context, input WaitlistInput) (*WaitlistEntry, bool, error)
	UpdateWaitlistEntry(ctx context.Context, input WaitlistUpdate) (*WaitlistEntry, error)
	GetWaitlistEntry(ctx context.Context, id uuid.UUID) (*WaitlistEntry, error)
	ListWaitlistEntries(ctx context.Context, opts ListOptions) ([]*WaitlistEntry, int, error)
	DeleteWaitlistEntry(ctx context.Context, id uuid.UUID) error

	CreateSubscriber(ctx context.Context, input SubscriberInput) (*Subscriber, error)
	Subscribe(ctx context.Context, input SubscriberInput) (*Subscriber, error)
	Unsubscribe(ctx context.Context, email string) (*Subscriber, error)
	UpdateSubscriber(ctx context.Context, input SubscriberUpdate) (*Subscriber, error)
	GetSubscriber(ctx context.Context, id uuid.UUID) (*Subscriber, error)
	ListSubscribers(ctx context.Context, opts ListOptions) ([]*Subscriber, int, error)
	DeleteSubscriber(ctx context.Context, id uuid.UUID) error

	CreateUser(ctx context.Context, input UserInput) (*User, error)
	UpdateUser(ctx context.Context, input UserUpdate) (*User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	ListUsers(ctx context.Context, opts ListOptions) ([]*User, int, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

var (
	ErrRepositoryRequired = errors.New("audience: repository required")
	ErrInvalidInput       = errors.New("audience: invalid input")
	ErrEmailExists        = errors.New("audience: email already exists")
	ErrIDRequired         = errors.New("audience: id required")
)

const (
	maxNameLength   = 120
	maxGoalLength   = 280
	maxSourceLength = 64
)

// WaitlistInput captures a new waitlist entry.
type WaitlistInput struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Goal      string `json:"goal"`
	Source    string `json:"source"`
	Method    string `json:"method"`
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
}

func (in WaitlistInput) Validate() error {
	return ozzo.ValidateStruct(&in,
		ozzo.Field(&in.Email, ozzo.Required, validation.EmailRule),
		ozzo.Field(&in.Name, ozzo.RuneLength(0, maxNameLength)),
		ozzo.Field(&in.Goal, ozzo.RuneLength(0, maxGoalLength)),
		ozzo.Field(&in.Source, ozzo.RuneLength(0, maxSourceLength)),
	)
}

// WaitlistUpdate changes the mutable fields of a waitlist entry. Nil fields
// are left untouched.
type WaitlistUpdate struct {
	ID     uuid.UUID `json:"-"`
	Name   *string   `json:"name"`
	Goal   *string   `json:"goal"`
	Source *string   `json:"source"`
}

func (in WaitlistUpdate) Validate() error {
	return ozzo.ValidateStruct(&in,
		ozzo.Field(&in.Name, ozzo.RuneLength(0, maxNameLength)),
		ozzo.Field(&in.Goal, ozzo.RuneLength(0, maxGoalLength)),
		ozzo.Field(&in.Source, ozzo.RuneLength(0, maxSourceLength)),
	)
}

// SubscriberInput captures a newsletter signup.
type SubscriberInput struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Source string `json:"source"`
}

func (in SubscriberInput) Validate() error {
	return ozzo.ValidateStruct(&in,
		ozzo.Field(&in.Email, ozzo.Required, validation.EmailRule),
		ozzo.Field(&in.Name, ozzo.RuneLength(0, maxNameLength)),
		ozzo.Field(&in.Source, ozzo.RuneLength(0, maxSourceLength)),
	)
}

// SubscriberUpdate changes subscriber fields. Nil fields are left untouched.
type SubscriberUpdate struct {
	ID     uuid.UUID `json:"-"`
	Email  *string   `json:"email"`
	Name   *string   `json:"name"`
	Status *string   `json:"status"`
}

func (in SubscriberUpdate) Validate() error {
	return ozzo.ValidateStruct(&in,
		ozzo.Field(&in.Email, ozzo.NilOrNotEmpty, validation.EmailRule),
		ozzo.Field(&in.Name, ozzo.RuneLength(0, maxNameLength)),
		ozzo.Field(&in.Status, ozzo.NilOrNotEmpty, ozzo.In(SubscriberActive, SubscriberUnsubscribed)),
	)
}

// UserInput captures a new user.
type UserInput struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (in UserInput) Validate() error {
	return ozzo.ValidateStruct(&in,
		ozzo.Field(&in.Email, ozzo.Required, validation.EmailRule),
		ozzo.Field(&in.Name, ozzo.RuneLength(0, maxNameLength)),
		ozzo.Field(&in.Role, ozzo.In(RoleAdmin, RoleEditor, RoleMember)),
	)
}

// UserUpdate changes user fields. Nil fields are left untouched.
type UserUpdate struct {
	ID    uuid.UUID `json:"-"`
	Email *string   `json:"email"`
	Name  *string   `json:"name"`
	Role  *string   `json:"role"`
}

func (in UserUpdate) Validate() error {
	return ozzo.ValidateStruct(&in,
		ozzo.Field(&in.Email, ozzo.NilOrNotEmpty, validation.EmailRule),
		ozzo.Field(&in.Name, ozzo.RuneLength(0, maxNameLength)),
		ozzo.Field(&in.Role, ozzo.NilOrNotEmpty, ozzo.In(RoleAdmin, RoleEditor, RoleMember)),
	)
}

// ServiceOption configures service behaviour.
type ServiceOption func(*service)

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides random id generation for users.
func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger overrides the no-op logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	waitlist    WaitlistRepository
	subscribers SubscriberRepository
	users       UserRepository
	now         func() time.Time
	id          func() uuid.UUID
	logger      interfaces.Logger
}

// NewService constructs an audience service. Nil repositories fall back to
// in-memory implementations.
func NewService(waitlist WaitlistRepository, subscribers SubscriberRepository, users UserRepository, opts ...ServiceOption) Service {
	if waitlist == nil {
		waitlist = NewMemoryWaitlistRepository()
	}
	if subscribers == nil {
		subscribers = NewMemorySubscriberRepository()
	}
	if users == nil {
		users = NewMemoryUserRepository()
	}

	s := &service{
		waitlist:    waitlist,
		subscribers: subscribers,
		users:       users,
		now:         time.Now,
		id:          uuid.New,
		logger:      logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) CreateWaitlistEntry(ctx context.Context, input WaitlistInput) (*WaitlistEntry, error) {
	input = input.normalized()
	if err := input.Validate(); err != nil {
		return nil, invalid(err)
	}
	if err := ensureEmailAvailable(ctx, s.waitlist, input.Email); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	entry := &WaitlistEntry{
		ID:        identity.WaitlistUUID(input.Email),
		Email:     input.Email,
		Name:      input.Name,
		Goal:      input.Goal,
		Source:    input.Source,
		Method:    input.Method,
		IPAddress: input.IPAddress,
		UserAgent: input.UserAgent,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.waitlist.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	s.logger.Info("audience.waitlist.created", "waitlist_id", created.ID, "source", created.Source)
	return created, nil
}

// RecordWaitlistEntry stores a signup, returning the existing entry with
// duplicate=true when the email is already on the list.
func (s *service) RecordWaitlistEntry(ctx context.Context, input WaitlistInput) (*WaitlistEntry, bool, error) {
	entry, err := s.CreateWaitlistEntry(ctx, input)
	if err == nil {
		return entry, false, nil
	}
	if !errors.Is(err, ErrEmailExists) {
		return nil, false, err
	}
	existing, getErr := s.waitlist.GetByEmail(ctx, validation.NormalizeEmail(input.Email))
	if getErr != nil {
		return nil, false, getErr
	}
	s.logger.Debug("audience.waitlist.duplicate", "waitlist_id", existing.ID)
	return existing, true, nil
}

func (s *service) UpdateWaitlistEntry(ctx context.Context, input WaitlistUpdate) (*WaitlistEntry, error) {
	if input.ID == uuid.Nil {
		return nil, ErrIDRequired
	}
	input.Name = trimPtr(input.Name)
	input.Goal = trimPtr(input.Goal)
	input.Source = trimPtr(input.Source)
	if err := input.Validate(); err != nil {
		return nil, invalid(err)
	}
	entry, err := s.waitlist.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	assign(&entry.Name, input.Name)
	assign(&entry.Goal, input.Goal)
	assign(&entry.Source, input.Source)
	entry.UpdatedAt = s.now().UTC()
	return s.waitlist.Update(ctx, entry)
}

func (s *service) GetWaitlistEntry(ctx context.Context, id uuid.UUID) (*WaitlistEntry, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	return s.waitlist.GetByID(ctx, id)
}

func (s *service) ListWaitlistEntries(ctx context.Context, opts ListOptions) ([]*WaitlistEntry, int, error) {
	return s.waitlist.List(ctx, opts)
}

func (s *service) DeleteWaitlistEntry(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrIDRequired
	}
	return s.waitlist.Delete(ctx, id)
}

func (s *service) CreateSubscriber(ctx context.Context, input SubscriberInput) (*Subscriber, error) {
	input = input.normalized()
	if err := input.Validate(); err != nil {
		return nil, invalid(err)
	}
	if err := ensureEmailAvailable(ctx, s.subscribers, input.Email); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	return s.subscribers.Create(ctx, &Subscriber{
		ID:           identity.SubscriberUUID(input.Email),
		Email:        input.Email,
		Name:         input.Name,
		Status:       SubscriberActive,
		Source:       input.Source,
		SubscribedAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// Subscribe creates a subscriber or reactivates an unsubscribed one. Active
// subscribers are returned unchanged.
func (s *service) Subscribe(ctx context.Context, input SubscriberInput) (*Subscriber, error) {
	input = input.normalized()
	if err := input.Validate(); err != nil {
		return nil, invalid(err)
	}

	existing, err := s.subscribers.GetByEmail(ctx, input.Email)
	if err != nil {
		if isNotFound(err) {
			return s.CreateSubscriber(ctx, input)
		}
		return nil, err
	}
	if existing.Status == SubscriberActive {
		return existing, nil
	}

	now := s.now().UTC()
	existing.Status = SubscriberActive
	existing.SubscribedAt = now
	existing.UnsubscribedAt = nil
	existing.UpdatedAt = now
	if input.Name != "" {
		existing.Name = input.Name
	}
	s.logger.Info("audience.subscriber.reactivated", "subscriber_id", existing.ID)
	return s.subscribers.Update(ctx, existing)
}

func (s *service) Unsubscribe(ctx context.Context, email string) (*Subscriber, error) {
	normalized := validation.NormalizeEmail(email)
	if !validation.ValidEmail(normalized) {
		return nil, invalid(ozzo.Errors{"email": ozzo.NewError("validation_is_email", "must be a valid email address")})
	}
	existing, err := s.subscribers.GetByEmail(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if existing.Status == SubscriberUnsubscribed {
		return existing, nil
	}
	now := s.now().UTC()
	existing.Status = SubscriberUnsubscribed
	existing.UnsubscribedAt = &now
	existing.UpdatedAt = now
	return s.subscribers.Update(ctx, existing)
}

func (s *service) UpdateSubscriber(ctx context.Context, input SubscriberUpdate) (*Subscriber, error) {
	if input.ID == uuid.Nil {
		return nil, ErrIDRequired
	}
	input.Email = normalizeEmailPtr(input.Email)
	input.Name = trimPtr(input.Name)
	input.Status = lowerPtr(input.Status)
	if err := input.Validate(); err != nil {
		return nil, invalid(err)
	}
	sub, err := s.subscribers.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	assign(&sub.Email, input.Email)
	assign(&sub.Name, input.Name)
	if input.Status != nil && *input.Status != sub.Status {
		sub.Status = *input.Status
		if sub.Status == SubscriberUnsubscribed {
			sub.UnsubscribedAt = &now
		} else {
			sub.UnsubscribedAt = nil
			sub.SubscribedAt = now
		}
	}
	sub.UpdatedAt = now
	return s.subscribers.Update(ctx, sub)
}

func (s *service) GetSubscriber(ctx context.Context, id uuid.UUID) (*Subscriber, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	return s.subscribers.GetByID(ctx, id)
}

func (s *service) ListSubscribers(ctx context.Context, opts ListOptions) ([]*Subscriber, int, error) {
	return s.subscribers.List(ctx, opts)
}

func (s *service) DeleteSubscriber(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrIDRequired
	}
	return s.subscribers.Delete(ctx, id)
}

func (s *service) CreateUser(ctx context.Context, input UserInput) (*User, error) {
	input.Email = validation.NormalizeEmail(input.Email)
	input.Name = strings.TrimSpace(input.Name)
	input.Role = strings.ToLower(strings.TrimSpace(input.Role))
	if input.Role == "" {
		input.Role = RoleMember
	}
	if err := input.Validate(); err != nil {
		return nil, invalid(err)
	}
	if err := ensureEmailAvailable(ctx, s.users, input.Email); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user, err := s.users.Create(ctx, &User{
		ID:        s.id(),
		Email:     input.Email,
		Name:      input.Name,
		Role:      input.Role,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("audience.user.created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *service) UpdateUser(ctx context.Context, input UserUpdate) (*User, error) {
	if input.ID == uuid.Nil {
		return nil, ErrIDRequired
	}
	input.Email = normalizeEmailPtr(input.Email)
	input.Name = trimPtr(input.Name)
	input.Role = lowerPtr(input.Role)
	if err := input.Validate(); err != nil {
		return nil, invalid(err)
	}
	user, err := s.users.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	assign(&user.Email, input.Email)
	assign(&user.Name, input.Name)
	assign(&user.Role, input.Role)
	user.UpdatedAt = s.now().UTC()
	return s.users.Update(ctx, user)
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	return s.users.GetByID(ctx, id)
}

func (s *service) ListUsers(ctx context.Context, opts ListOptions) ([]*User, int, error) {
	return s.users.List(ctx, opts)
}

func (s *service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrIDRequired
	}
	return s.users.Delete(ctx, id)
}

func (in WaitlistInput) normalized() WaitlistInput {
	in.Email = validation.NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.Goal = strings.TrimSpace(in.Goal)
	in.Source = strings.TrimSpace(in.Source)
	in.Method = strings.TrimSpace(in.Method)
	in.UserAgent = strings.TrimSpace(in.UserAgent)
	return in
}

func (in SubscriberInput) normalized() SubscriberInput {
	in.Email = validation.NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.Source = strings.TrimSpace(in.Source)
	return in
}

func ensureEmailAvailable[T Record](ctx context.Context, repo Repository[T], email string) error {
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return ErrEmailExists
	} else if !isNotFound(err) {
		return err
	}
	return nil
}

// IsNotFound reports whether err is a missing record.
func IsNotFound(err error) bool {
	return isNotFound(err)
}

func isNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}

func assign(target *string, value *string) {
	if value != nil {
		*target = *value
	}
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}

func lowerPtr(value *string) *string {
	if value == nil {
		return nil
	}
	lowered := strings.ToLower(strings.TrimSpace(*value))
	return &lowered
}

func normalizeEmailPtr(value *string) *string {
	if value == nil {
		return nil
	}
	normalized := validation.NormalizeEmail(*value)
	return &normalized
}
