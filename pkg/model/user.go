package model

// User is an account that can sign in.
type User struct {
	ID       string `json:"id" gorm:"column:id;primaryKey"`
	Email    string `json:"email" gorm:"column:email"`
	Password string `json:"-" cbor:"password,omitempty" gorm:"column:password"`
	// CreatedAt is an ISO-8601 timestamp.
	CreatedAt string `json:"created_at" gorm:"column:created_at"`
}

func (User) TableName() string {
	return "users"
}
