package model

// RoleName is the access level of a user.
type RoleName string

const (
	RoleAdmin     RoleName = "admin"
	RoleAgent     RoleName = "agent"
	RoleRequester RoleName = "requester"
)

// Valid reports whether r is one of the known roles.
func (r RoleName) Valid() bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleRequester:
		return true
	}
	return false
}

// IsStaff reports whether r may work on tickets raised by others.
func (r RoleName) IsStaff() bool {
	return r == RoleAdmin || r == RoleAgent
}

// Role assigns a RoleName to a user. Each user has at most one.
type Role struct {
	UserID string   `json:"user_id" gorm:"column:user_id;primaryKey"`
	Role   RoleName `json:"role" gorm:"column:role"`
}

func (Role) TableName() string {
	return "roles"
}
