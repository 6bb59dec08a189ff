package model

import "time"

// Barang is a catalog item referenced by transaction items and price
// records.
type Barang struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	CreatedAt time.Time `json:"created_at"`

	Prices []BarangPrice `gorm:"foreignKey:BarangID" json:"prices,omitempty"`
}

func (Barang) TableName() string {
	return "mst_barang"
}
