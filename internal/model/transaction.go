package model

import "time"

// Transaction statuses. The initial state is always Pending; updates accept
// any of the four values so finance can correct a mistaken decision. Every
// change is recorded in the append-only status log.
const (
	StatusPending = "Pending"
	StatusProses  = "Proses"
	StatusDone    = "Done"
	StatusReject  = "Reject"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusProses, StatusDone, StatusReject:
		return true
	}
	return false
}

// TrxHeader is the central aggregate: a submitted purchase note. It is
// created once, atomically with its items and initial log entry; afterwards
// only the status (and log) change.
type TrxHeader struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	InvoiceNumber    string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"invoice_number"`
	DealerID         uint      `gorm:"not null;index" json:"dealer_id"`
	Dealer           *Dealer   `gorm:"foreignKey:DealerID" json:"dealer,omitempty"`
	TotalAmount      int64     `gorm:"not null" json:"total_amount"`
	Discount         int64     `gorm:"default:0" json:"discount"`
	PromoDescription *string   `gorm:"type:text" json:"promo_description,omitempty"`
	Status           string    `gorm:"type:varchar(20);not null;default:Pending;index" json:"status"`
	CreatedAt        time.Time `json:"created_at"`

	Items []TrxItem      `gorm:"foreignKey:HeaderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Logs  []TrxStatusLog `gorm:"foreignKey:TrxHeaderID;constraint:OnDelete:CASCADE" json:"logs,omitempty"`
}

func (TrxHeader) TableName() string {
	return "trx_header"
}

// TrxItem is one cart line. Subtotal = Qty * UnitPrice; the server
// recomputes and verifies this before committing.
type TrxItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	HeaderID  uint    `gorm:"not null;index" json:"header_id"`
	BarangID  uint    `gorm:"not null;index" json:"barang_id"`
	Barang    *Barang `gorm:"foreignKey:BarangID" json:"barang,omitempty"`
	Qty       int     `gorm:"not null" json:"qty"`
	UnitPrice int64   `gorm:"not null" json:"unit_price"`
	Subtotal  int64   `gorm:"not null" json:"subtotal"`
}

func (TrxItem) TableName() string {
	return "trx_items"
}

// TrxStatusLog is the append-only audit trail of every status a
// transaction has held. Rows are only ever inserted.
type TrxStatusLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TrxHeaderID uint      `gorm:"not null;index" json:"trx_header_id"`
	Status      string    `gorm:"type:varchar(20);not null" json:"status"`
	Notes       string    `gorm:"type:text" json:"notes"`
	UpdatedBy   uint      `gorm:"not null" json:"updated_by"`
	User        *User     `gorm:"foreignKey:UpdatedBy" json:"user,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (TrxStatusLog) TableName() string {
	return "trx_status_log"
}
