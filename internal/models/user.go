package models

// User is a meter-owning customer. Created the first time one of their
// meters is validated; one user may own many meters.
type User struct {
	BaseModel

	Name        string `json:"name" gorm:"size:255"`
	Email       string `json:"email" gorm:"size:255;index"`
	PhoneNumber string `json:"phone_number" gorm:"size:20"`
	Address     string `json:"address" gorm:"size:255"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
