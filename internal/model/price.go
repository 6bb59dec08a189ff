package model

import "time"

// BarangPrice is one entry in an item's time-ordered price history. The
// current price is the newest record with effective_date <= now, but any
// historical price can still be selected explicitly.
type BarangPrice struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	BarangID      uint      `gorm:"not null;index" json:"barang_id" validate:"required"`
	Barang        *Barang   `gorm:"foreignKey:BarangID" json:"barang,omitempty"`
	Price         int64     `gorm:"not null" json:"price" validate:"required,gt=0"`
	EffectiveDate time.Time `gorm:"type:date;not null;index" json:"effective_date" validate:"required"`
	CreatedAt     time.Time `json:"created_at"`
}

func (BarangPrice) TableName() string {
	return "mst_barang_price"
}
