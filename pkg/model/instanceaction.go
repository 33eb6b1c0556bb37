package model

import "time"

// ActionKind enumerates the operations that require an emailed confirmation
// before they are executed.
type ActionKind uint8

const (
	ActionReinstall   ActionKind = 1
	ActionDestroy     ActionKind = 2
	ActionRename      ActionKind = 3
	ActionEmailChange ActionKind = 4
)

func (k ActionKind) Valid() bool {
	return k >= ActionReinstall && k <= ActionEmailChange
}

func (k ActionKind) String() string {
	switch k {
	case ActionReinstall:
		return "reinstall"
	case ActionDestroy:
		return "destroy"
	case ActionRename:
		return "rename"
	case ActionEmailChange:
		return "email change"
	default:
		return "unknown"
	}
}

// InstanceAction is a pending operation awaiting confirmation via an emailed
// single-use link. Expiry is computed from CreatedAt at read time, it is
// deliberately not stored.
type InstanceAction struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ActivationKey string `json:"-" gorm:"uniqueIndex"`

	UserID uint  `json:"userId"`
	User   *User `json:"user,omitempty"`

	// Instance and Cluster are unset for email changes, which touch no backend.
	Instance  string     `json:"instance"`
	ClusterID *uint      `json:"clusterId,omitempty"`
	Cluster   *Cluster   `json:"cluster,omitempty"`
	Action    ActionKind `json:"action"`
	Value     string     `json:"value"`

	Activated bool `json:"activated"`
}
