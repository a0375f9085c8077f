package domain

// Housing is a stored record. Price is nil only when it was never computed.
type Housing struct {
	ID    int64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Rooms int      `json:"rooms" gorm:"not null"`
	Price *float64 `json:"price" gorm:"column:price"`
}

// TableName sets the database table name.
func (Housing) TableName() string { return "housing" }
