package models

// PowerUnit is the record of an issued electricity token. Exactly one is
// created per successful vend.
type PowerUnit struct {
	BaseModel

	TransactionID string `json:"transaction_id" gorm:"size:36;index"`
	MeterID       string `json:"meter_id" gorm:"size:36;index"`
	Disco         string `json:"disco" gorm:"size:50"`
	Amount        string `json:"amount"`
	Token         string `json:"token" gorm:"size:255"`
	TokenNumber   string `json:"token_number" gorm:"size:100"`
	TokenUnits    string `json:"token_units" gorm:"size:50"`
	Superagent    string `json:"superagent" gorm:"size:50"`
	Address       string `json:"address" gorm:"size:255"`
}

// TableName specifies the table name
func (PowerUnit) TableName() string {
	return "power_units"
}
