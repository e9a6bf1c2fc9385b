package models

// Partner is an API consumer of the vending platform (a bank or payment
// channel). Partners authenticate with bearer tokens or an API key pair.
type Partner struct {
	BaseModel

	Name          string `json:"name" gorm:"size:255"`
	Email         string `json:"email" gorm:"not null;size:255;uniqueIndex"`
	PasswordHash  string `json:"-" gorm:"not null;size:255"`
	EmailVerified bool   `json:"email_verified" gorm:"default:false"`
	IsActive      bool   `json:"is_active" gorm:"default:true"`
}

// TableName specifies the table name
func (Partner) TableName() string {
	return "partners"
}
