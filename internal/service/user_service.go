package service

import (
	"errors"

	"sinfoni-api/internal/model"
	"sinfoni-api/internal/repository"
	"sinfoni-api/pkg/validator"

	"gorm.io/gorm"
)

var (
	ErrEmailTaken     = errors.New("user already exists")
	ErrUserNotFound   = errors.New("user not found")
	ErrInvalidRole    = errors.New("invalid role value")
	ErrDealerNotFound = errors.New("dealer not found")
)

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required"`
}

type UpdateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required"`
	IsActive *bool  `json:"is_active" validate:"required"`
	Password string `json:"password"` // optional: blank keeps the current one
}

type UpdateProfileRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password"` // optional
}

type UserService interface {
	List() ([]model.UserResponse, error)
	Create(req *CreateUserRequest) (*model.UserResponse, error)
	Update(id uint, req *UpdateUserRequest) error
	Delete(id uint) error
	Profile(id uint) (*model.UserResponse, error)
	UpdateProfile(id uint, req *UpdateProfileRequest) error
	DealerMapping(userID uint) ([]uint, error)
	ReplaceDealerMapping(userID uint, dealerIDs []uint) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}
	responses := make([]model.UserResponse, len(users))
	for i := range users {
		responses[i] = users[i].ToResponse()
	}
	return responses, nil
}

func (s *userService) Create(req *CreateUserRequest) (*model.UserResponse, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs[0])
	}
	if !model.ValidRole(req.Role) {
		return nil, ErrInvalidRole
	}

	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, ErrEmailTaken
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		IsActive: true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) Update(id uint, req *UpdateUserRequest) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs[0])
	}
	if !model.ValidRole(req.Role) {
		return ErrInvalidRole
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return ErrUserNotFound
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Role = req.Role
	user.IsActive = *req.IsActive
	if req.Password != "" {
		if err := user.SetPassword(req.Password); err != nil {
			return err
		}
	}

	return s.userRepo.Update(user)
}

func (s *userService) Delete(id uint) error {
	return s.userRepo.Delete(id)
}

func (s *userService) Profile(id uint) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) UpdateProfile(id uint, req *UpdateProfileRequest) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs[0])
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return ErrUserNotFound
	}

	user.Name = req.Name
	if req.Password != "" {
		if err := user.SetPassword(req.Password); err != nil {
			return err
		}
	}

	return s.userRepo.Update(user)
}

func (s *userService) DealerMapping(userID uint) ([]uint, error) {
	return s.userRepo.DealerIDsForUser(userID)
}

func (s *userService) ReplaceDealerMapping(userID uint, dealerIDs []uint) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return ErrUserNotFound
	}
	if err := s.userRepo.ReplaceDealerMappings(userID, dealerIDs); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDealerNotFound
		}
		return err
	}
	return nil
}
