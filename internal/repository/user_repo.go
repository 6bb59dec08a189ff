package repository

import (
	"time"

	"sinfoni-api/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	FindByEmail(email string) (*model.User, error)
	FindByID(id uint) (*model.User, error)
	FindAll() ([]model.User, error)
	Create(user *model.User) error
	Update(user *model.User) error
	Delete(id uint) error
	UpdateLastLogin(id uint) error
	SetResetToken(id uint, token string, expiry time.Time) error
	FindByResetToken(token string) (*model.User, error)
	ClearResetToken(id uint, hashedPassword string) error
	DealerIDsForUser(userID uint) ([]uint, error)
	ReplaceDealerMappings(userID uint, dealerIDs []uint) error
	FindDealerUserForDealer(dealerID uint) (*model.User, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindAll() ([]model.User, error) {
	var users []model.User
	err := r.db.Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *userRepo) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepo) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *userRepo) Delete(id uint) error {
	return r.db.Delete(&model.User{}, "id = ?", id).Error
}

func (r *userRepo) UpdateLastLogin(id uint) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Update("last_login", time.Now()).Error
}

func (r *userRepo) SetResetToken(id uint, token string, expiry time.Time) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"reset_token":        token,
		"reset_token_expiry": expiry,
	}).Error
}

func (r *userRepo) FindByResetToken(token string) (*model.User, error) {
	var user model.User
	err := r.db.Where("reset_token = ? AND reset_token_expiry > ?", token, time.Now()).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ClearResetToken stores the new password hash and invalidates the reset
// token in one update, so a token can only be used once.
func (r *userRepo) ClearResetToken(id uint, hashedPassword string) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password":           hashedPassword,
		"reset_token":        nil,
		"reset_token_expiry": nil,
	}).Error
}

func (r *userRepo) DealerIDsForUser(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Table("user_dealer_mapping").Where("user_id = ?", userID).Pluck("dealer_id", &ids).Error
	return ids, err
}

// ReplaceDealerMappings swaps the full set of dealer assignments for a user
// in one transaction: either the new set applies or the old one survives.
// Every submitted dealer id must exist; an unknown id aborts the whole swap
// with gorm.ErrRecordNotFound. The join rows are written directly so the
// dealers table itself is never touched.
func (r *userRepo) ReplaceDealerMappings(userID uint, dealerIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if len(dealerIDs) > 0 {
			var count int64
			if err := tx.Model(&model.Dealer{}).Where("id IN ?", dealerIDs).Count(&count).Error; err != nil {
				return err
			}
			if count != int64(len(dealerIDs)) {
				return gorm.ErrRecordNotFound
			}
		}

		if err := tx.Exec("DELETE FROM user_dealer_mapping WHERE user_id = ?", userID).Error; err != nil {
			return err
		}
		for _, id := range dealerIDs {
			if err := tx.Exec("INSERT INTO user_dealer_mapping (user_id, dealer_id) VALUES (?, ?)", userID, id).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindDealerUserForDealer resolves the notification contact for a dealer
// outlet through the user_dealer_mapping relation.
func (r *userRepo) FindDealerUserForDealer(dealerID uint) (*model.User, error) {
	var user model.User
	err := r.db.
		Joins("JOIN user_dealer_mapping m ON m.user_id = users.id").
		Where("m.dealer_id = ? AND users.role = ?", dealerID, model.RoleDealer).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
