package models

// VendType distinguishes prepaid from postpaid meters.
type VendType string

const (
	VendTypePrepaid  VendType = "PREPAID"
	VendTypePostpaid VendType = "POSTPAID"
)

// Meter is a validated electricity meter. Created once per meter number and
// looked up by that number on subsequent vend requests.
type Meter struct {
	BaseModel

	MeterNumber string   `json:"meter_number" gorm:"not null;size:50;uniqueIndex"`
	Address     string   `json:"address" gorm:"size:255"`
	Disco       string   `json:"disco" gorm:"size:50"`
	VendType    VendType `json:"vend_type" gorm:"size:20"`
	UserID      string   `json:"user_id" gorm:"size:36;index"`
}

// TableName specifies the table name
func (Meter) TableName() string {
	return "meters"
}
