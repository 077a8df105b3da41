package entity

import (
	"time"

	"github.com/tasklane/tasklane/internal/domain/event"
	"github.com/tasklane/tasklane/internal/domain/valueobject"
)

// User is an aggregate root. Todo lists reference the user by id; they are a
// separate consistency boundary and are never loaded through the user.
// Deletion is soft: the domain layer only flips the flag, physical removal is
// not its job.
type User struct {
	aggregate

	id          valueobject.EntityID
	name        valueobject.UserName
	email       valueobject.Email
	createdAt   time.Time
	lastLoginAt *time.Time
	deleted     bool
}

// NewUser is the factory for fresh users; name and email arrive already
// validated as value objects.
func NewUser(name valueobject.UserName, email valueobject.Email) *User {
	return &User{
		id:        valueobject.NewEntityID(),
		name:      name,
		email:     email,
		createdAt: time.Now().UTC(),
	}
}

// RehydrateUser reconstructs a user from persisted state without raising
// events. Only the persistence layer should call it.
func RehydrateUser(
	id valueobject.EntityID,
	name valueobject.UserName,
	email valueobject.Email,
	createdAt time.Time,
	lastLoginAt *time.Time,
	deleted bool,
) *User {
	return &User{
		id:          id,
		name:        name,
		email:       email,
		createdAt:   createdAt,
		lastLoginAt: lastLoginAt,
		deleted:     deleted,
	}
}

func (u *User) ID() valueobject.EntityID   { return u.id }
func (u *User) Name() valueobject.UserName { return u.name }
func (u *User) Email() valueobject.Email   { return u.email }
func (u *User) CreatedAt() time.Time       { return u.createdAt }
func (u *User) IsDeleted() bool            { return u.deleted }

// LastLoginAt returns nil when the user has never logged in.
func (u *User) LastLoginAt() *time.Time {
	if u.lastLoginAt == nil {
		return nil
	}
	t := *u.lastLoginAt
	return &t
}

func (u *User) UpdateName(name valueobject.UserName) {
	u.name = name
}

func (u *User) UpdateEmail(email valueobject.Email) {
	u.email = email
}

func (u *User) UpdateLastLogin() {
	now := time.Now().UTC()
	u.lastLoginAt = &now
}

// Delete marks the user deleted and raises UserDeleted. Idempotent.
func (u *User) Delete() {
	if u.deleted {
		return
	}
	u.deleted = true
	u.record(event.NewUserDeleted(u.id))
}
