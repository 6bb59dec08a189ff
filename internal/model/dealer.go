package model

import "time"

// Dealer is a physical selling outlet, distinct from the Dealer-role user
// who may manage it.
type Dealer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Address   string    `gorm:"type:text" json:"address"`
	Phone     string    `gorm:"type:varchar(30)" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

func (Dealer) TableName() string {
	return "dealers"
}
