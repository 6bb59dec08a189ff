package repository

import (
	"sinfoni-api/internal/model"

	"gorm.io/gorm"
)

type DealerRepository interface {
	FindAll() ([]model.Dealer, error)
	FindAllForUser(userID uint) ([]model.Dealer, error)
	Create(dealer *model.Dealer) error
}

type dealerRepo struct {
	db *gorm.DB
}

func NewDealerRepo(db *gorm.DB) DealerRepository {
	return &dealerRepo{db}
}

func (r *dealerRepo) FindAll() ([]model.Dealer, error) {
	var dealers []model.Dealer
	err := r.db.Order("name ASC").Find(&dealers).Error
	return dealers, err
}

// FindAllForUser returns only the dealers the user is mapped to.
func (r *dealerRepo) FindAllForUser(userID uint) ([]model.Dealer, error) {
	var dealers []model.Dealer
	err := r.db.
		Joins("JOIN user_dealer_mapping m ON m.dealer_id = dealers.id").
		Where("m.user_id = ?", userID).
		Order("dealers.name ASC").
		Find(&dealers).Error
	return dealers, err
}

func (r *dealerRepo) Create(dealer *model.Dealer) error {
	return r.db.Create(dealer).Error
}
