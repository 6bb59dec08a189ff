package repository

import (
	"time"

	"sinfoni-api/internal/model"

	"gorm.io/gorm"
)

// TransactionFilter narrows the transaction list. Zero values mean "not
// filtered"; Start/End are already expanded to full-day bounds by the
// service.
type TransactionFilter struct {
	Status    string
	DealerIDs []uint
	Start     time.Time
	End       time.Time
	Query     string
	Page      int
	Limit     int
}

// TransactionRow is one listing row, the header joined with the dealer
// name.
type TransactionRow struct {
	ID               uint      `json:"id"`
	InvoiceNumber    string    `json:"invoice_number"`
	DealerID         uint      `json:"dealer_id"`
	DealerName       string    `json:"dealer_name"`
	TotalAmount      int64     `json:"total_amount"`
	Discount         int64     `json:"discount"`
	PromoDescription *string   `json:"promo_description,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// StatusCounts backs the dashboard widgets.
type StatusCounts struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Done       int64 `json:"done"`
	Reject     int64 `json:"reject"`
	Total      int64 `json:"total"`
}

// TrendPoint is one month of submission volume.
type TrendPoint struct {
	Month  string `json:"month"`
	Count  int64  `json:"count"`
	Amount int64  `json:"amount"`
}

type TransactionRepository interface {
	FindByID(id uint) (*model.TrxHeader, error)
	List(f TransactionFilter) ([]TransactionRow, int64, error)
	CountByStatus(dealerIDs []uint) (*StatusCounts, error)
	MonthlyTrend(since time.Time, dealerIDs []uint) ([]TrendPoint, error)
	Recent(limit int, dealerIDs []uint) ([]TransactionRow, error)
	ExportRows() ([]TransactionRow, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

// FindByID loads the full aggregate: items with their catalog entries and
// the status log (with acting users) newest-first.
func (r *transactionRepo) FindByID(id uint) (*model.TrxHeader, error) {
	var header model.TrxHeader
	err := r.db.
		Preload("Dealer").
		Preload("Items.Barang").
		Preload("Logs", func(db *gorm.DB) *gorm.DB {
			return db.Order("trx_status_log.created_at DESC, trx_status_log.id DESC")
		}).
		Preload("Logs.User").
		First(&header, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &header, nil
}

func (r *transactionRepo) baseQuery(f TransactionFilter) *gorm.DB {
	q := r.db.Model(&model.TrxHeader{}).
		Joins("JOIN dealers ON dealers.id = trx_header.dealer_id")

	if f.Status != "" {
		q = q.Where("trx_header.status = ?", f.Status)
	}
	if len(f.DealerIDs) > 0 {
		q = q.Where("trx_header.dealer_id IN ?", f.DealerIDs)
	}
	if !f.Start.IsZero() && !f.End.IsZero() {
		q = q.Where("trx_header.created_at BETWEEN ? AND ?", f.Start, f.End)
	}
	if f.Query != "" {
		pattern := "%" + f.Query + "%"
		q = q.Where("LOWER(trx_header.invoice_number) LIKE LOWER(?) OR LOWER(dealers.name) LIKE LOWER(?)", pattern, pattern)
	}
	return q
}

func (r *transactionRepo) List(f TransactionFilter) ([]TransactionRow, int64, error) {
	var total int64
	if err := r.baseQuery(f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []TransactionRow
	err := r.baseQuery(f).
		Select("trx_header.*, dealers.name AS dealer_name").
		Order("trx_header.created_at DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Scan(&rows).Error
	return rows, total, err
}

func (r *transactionRepo) CountByStatus(dealerIDs []uint) (*StatusCounts, error) {
	var counts StatusCounts
	q := r.db.Model(&model.TrxHeader{}).Select(`
		COALESCE(SUM(CASE WHEN status = 'Pending' THEN 1 ELSE 0 END), 0) AS pending,
		COALESCE(SUM(CASE WHEN status = 'Proses' THEN 1 ELSE 0 END), 0) AS processing,
		COALESCE(SUM(CASE WHEN status = 'Done' THEN 1 ELSE 0 END), 0) AS done,
		COALESCE(SUM(CASE WHEN status = 'Reject' THEN 1 ELSE 0 END), 0) AS reject,
		COUNT(*) AS total
	`)
	if len(dealerIDs) > 0 {
		q = q.Where("dealer_id IN ?", dealerIDs)
	}
	err := q.Scan(&counts).Error
	return &counts, err
}

func (r *transactionRepo) MonthlyTrend(since time.Time, dealerIDs []uint) ([]TrendPoint, error) {
	var points []TrendPoint
	q := r.db.Model(&model.TrxHeader{}).
		Select("to_char(date_trunc('month', created_at), 'Mon YYYY') AS month, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS amount").
		Where("created_at >= ?", since)
	if len(dealerIDs) > 0 {
		q = q.Where("dealer_id IN ?", dealerIDs)
	}
	err := q.
		Group("date_trunc('month', created_at)").
		Order("date_trunc('month', created_at) ASC").
		Scan(&points).Error
	return points, err
}

func (r *transactionRepo) Recent(limit int, dealerIDs []uint) ([]TransactionRow, error) {
	var rows []TransactionRow
	q := r.db.Model(&model.TrxHeader{}).
		Joins("JOIN dealers ON dealers.id = trx_header.dealer_id").
		Select("trx_header.*, dealers.name AS dealer_name")
	if len(dealerIDs) > 0 {
		q = q.Where("trx_header.dealer_id IN ?", dealerIDs)
	}
	err := q.Order("trx_header.created_at DESC").Limit(limit).Scan(&rows).Error
	return rows, err
}

// ExportRows feeds the spreadsheet report: every transaction, newest first.
func (r *transactionRepo) ExportRows() ([]TransactionRow, error) {
	var rows []TransactionRow
	err := r.db.Model(&model.TrxHeader{}).
		Joins("JOIN dealers ON dealers.id = trx_header.dealer_id").
		Select("trx_header.*, dealers.name AS dealer_name").
		Order("trx_header.created_at DESC").
		Scan(&rows).Error
	return rows, err
}
