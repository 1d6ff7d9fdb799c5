package model

// Category groups tickets by department.
type Category struct {
	ID   int64  `json:"id" gorm:"column:id;primaryKey"`
	Name string `json:"name" gorm:"column:name"`
}

func (Category) TableName() string {
	return "categories"
}

// Priority ranks tickets; a larger ID is more urgent.
type Priority struct {
	ID   int64  `json:"id" gorm:"column:id;primaryKey"`
	Name string `json:"name" gorm:"column:name"`
}

func (Priority) TableName() string {
	return "priorities"
}

// NamedRef is the embedded form of a category or priority.
type NamedRef struct {
	Name string `json:"name"`
}

// UserRef is the embedded form of a user.
type UserRef struct {
	Email string `json:"email"`
}
