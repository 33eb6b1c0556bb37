package model

import (
	"context"
	"time"
)

// User domain object defining a user
// swagger:model
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Email     string    `gorm:"index;unique" json:"email"`
	Password  string    `json:"-"`

	Administrator bool `json:"administrator"`
	// ViewInstances grants read access to the multi-cluster dashboard.
	ViewInstances bool `json:"viewInstances"`
}

// CanViewInstances reports whether the user may see nodes and instances
// across clusters.
func (u *User) CanViewInstances() bool {
	return u.Administrator || u.ViewInstances
}

type userContextKey int

var userKey userContextKey

// NewContextWithUser returns a new [context.Context] that carries the
// authenticated user.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext returns the user stored in ctx, if any.
func GetUserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userKey).(*User)
	return user, ok
}
