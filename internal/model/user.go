package model

import (
	"time"

	"sinfoni-api/pkg/crypto"
)

// User is an authenticated account. A Dealer-role user may be restricted to
// a subset of dealer outlets through the user_dealer_mapping relation.
type User struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Name             string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Email            string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password         string     `gorm:"type:varchar(255);not null" json:"-"`
	Role             string     `gorm:"type:varchar(20);not null" json:"role" validate:"required,oneof=Superadmin Finance Dealer"`
	IsActive         bool       `gorm:"default:true" json:"is_active"`
	LastLogin        *time.Time `json:"last_login,omitempty"`
	ResetToken       *string    `gorm:"type:varchar(128);index" json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Dealers []Dealer `gorm:"many2many:user_dealer_mapping;" json:"dealers,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// SetPassword hashes and sets the user's password.
func (u *User) SetPassword(password string) error {
	hashed, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return crypto.CheckPassword(password, u.Password)
}

// UserResponse is used for API responses (without sensitive data).
type UserResponse struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
}
