package repository

import (
	"strings"
	"time"

	"sinfoni-api/internal/model"

	"gorm.io/gorm"
)

type BarangRepository interface {
	FindAll() ([]model.Barang, error)
	FindByCode(code string) (*model.Barang, error)
	Create(barang *model.Barang) error
	SearchByName(fragment string) ([]model.Barang, error)
}

type barangRepo struct {
	db *gorm.DB
}

func NewBarangRepo(db *gorm.DB) BarangRepository {
	return &barangRepo{db}
}

func (r *barangRepo) FindAll() ([]model.Barang, error) {
	var items []model.Barang
	err := r.db.Order("name ASC").Find(&items).Error
	return items, err
}

func (r *barangRepo) FindByCode(code string) (*model.Barang, error) {
	var item model.Barang
	if err := r.db.Where("code = ?", code).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *barangRepo) Create(barang *model.Barang) error {
	return r.db.Create(barang).Error
}

// SearchByName matches a case-insensitive substring against item names,
// used to turn OCR line guesses into catalog suggestions.
func (r *barangRepo) SearchByName(fragment string) ([]model.Barang, error) {
	var items []model.Barang
	pattern := "%" + strings.ToLower(fragment) + "%"
	err := r.db.Where("LOWER(name) LIKE ?", pattern).Order("name ASC").Find(&items).Error
	return items, err
}

type PriceRepository interface {
	Create(price *model.BarangPrice) error
	FindAll(barangID uint) ([]model.BarangPrice, error)
	CurrentPrice(barangID uint, at time.Time) (*model.BarangPrice, error)
}

type priceRepo struct {
	db *gorm.DB
}

func NewPriceRepo(db *gorm.DB) PriceRepository {
	return &priceRepo{db}
}

func (r *priceRepo) Create(price *model.BarangPrice) error {
	return r.db.Create(price).Error
}

// FindAll lists price history newest-effective-first; barangID 0 means all
// items.
func (r *priceRepo) FindAll(barangID uint) ([]model.BarangPrice, error) {
	var prices []model.BarangPrice
	q := r.db.Preload("Barang").Order("effective_date DESC")
	if barangID != 0 {
		q = q.Where("barang_id = ?", barangID)
	}
	err := q.Find(&prices).Error
	return prices, err
}

// CurrentPrice is the most recent record effective at the given time.
func (r *priceRepo) CurrentPrice(barangID uint, at time.Time) (*model.BarangPrice, error) {
	var price model.BarangPrice
	err := r.db.
		Where("barang_id = ? AND effective_date <= ?", barangID, at).
		Order("effective_date DESC").
		First(&price).Error
	if err != nil {
		return nil, err
	}
	return &price, nil
}
