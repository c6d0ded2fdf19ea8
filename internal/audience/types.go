package audience

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	SubscriberActive       = "active"
	SubscriberUnsubscribed = "unsubscribed"

	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleMember = "member"
)

// WaitlistEntry records a waitlist signup.
type WaitlistEntry struct {
	bun.BaseModel `bun:"table:waitlist_entries,alias:we"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Email     string    `bun:"email,notnull,unique" json:"email"`
	Name      string    `bun:"name" json:"name,omitempty"`
	Goal      string    `bun:"goal" json:"goal,omitempty"`
	Source    string    `bun:"source" json:"source,omitempty"`
	Method    string    `bun:"method" json:"method,omitempty"`
	IPAddress string    `bun:"ip_address" json:"ip_address,omitempty"`
	UserAgent string    `bun:"user_agent" json:"user_agent,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// Subscriber is a newsletter recipient.
type Subscriber struct {
	bun.BaseModel `bun:"table:subscribers,alias:sub"`

	ID             uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Email          string     `bun:"email,notnull,unique" json:"email"`
	Name           string     `bun:"name" json:"name,omitempty"`
	Status         string     `bun:"status,notnull,default:'active'" json:"status"`
	Source         string     `bun:"source" json:"source,omitempty"`
	SubscribedAt   time.Time  `bun:"subscribed_at,nullzero" json:"subscribed_at"`
	UnsubscribedAt *time.Time `bun:"unsubscribed_at,nullzero" json:"unsubscribed_at,omitempty"`
	CreatedAt      time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// User is an account with access to the admin API.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Email     string    `bun:"email,notnull,unique" json:"email"`
	Name      string    `bun:"name" json:"name,omitempty"`
	Role      string    `bun:"role,notnull,default:'member'" json:"role"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// Models lists the bun models owned by this package, in migration order.
func Models() []any {
	return []any{
		(*WaitlistEntry)(nil),
		(*Subscriber)(nil),
		(*User)(nil),
	}
}

func (e *WaitlistEntry) GetID() uuid.UUID   { return e.ID }
func (e *WaitlistEntry) SetID(id uuid.UUID) { e.ID = id }
func (e *WaitlistEntry) GetEmail() string   { return e.Email }

func (s *Subscriber) GetID() uuid.UUID   { return s.ID }
func (s *Subscriber) SetID(id uuid.UUID) { s.ID = id }
func (s *Subscriber) GetEmail() string   { return s.Email }

func (u *User) GetID() uuid.UUID   { return u.ID }
func (u *User) SetID(id uuid.UUID) { u.ID = id }
func (u *User) GetEmail() string   { return u.Email }
