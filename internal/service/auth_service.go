package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"sinfoni-api/internal/model"
	"sinfoni-api/internal/repository"
	"sinfoni-api/pkg/crypto"
	"sinfoni-api/pkg/jwt"
	"sinfoni-api/pkg/mailer"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrResetTokenInvalid  = errors.New("invalid or expired reset token")
)

const resetTokenTTL = time.Hour

type AuthService interface {
	Login(email, password string) (*LoginResult, error)
	ForgotPassword(email string) error
	ResetPassword(token, newPassword string) error
}

type LoginResult struct {
	Token string             `json:"-"`
	User  model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	mail     mailer.Mailer
	appURL   string
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, mail mailer.Mailer, appURL string) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		mail:     mail,
		appURL:   appURL,
	}
}

func (s *authService) Login(email, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// An inactive account never obtains a session, even with correct
	// credentials.
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Name, user.Email, user.Role)
	if err != nil {
		return nil, errors.New("failed to generate session token")
	}

	if err := s.userRepo.UpdateLastLogin(user.ID); err != nil {
		log.Printf("auth: failed to update last login for user %d: %v", user.ID, err)
	}

	return &LoginResult{Token: token, User: user.ToResponse()}, nil
}

// ForgotPassword stores a one-hour reset token and mails the reset link.
// It succeeds silently for unknown emails so the endpoint never reveals
// which addresses exist.
func (s *authService) ForgotPassword(email string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil
	}

	token, err := crypto.RandomToken(32)
	if err != nil {
		return err
	}

	if err := s.userRepo.SetResetToken(user.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.appURL, token)
	go func() {
		err := s.mail.Send(mailer.Message{
			To:      user.Email,
			Subject: "Reset Your SINFONI Password",
			Text: fmt.Sprintf(
				"Hello %s,\n\nYou requested a password reset. Please click the link below to reset your password:\n%s\n\nThis link will expire in 1 hour.",
				user.Name, resetLink,
			),
			HTML: fmt.Sprintf(
				"<p>Hello %s,</p><p>You requested a password reset. Please click the link below to reset your password:</p><p><a href=%q>Reset Password</a></p><p>This link will expire in 1 hour.</p><p>If you did not request this, please ignore this email.</p>",
				user.Name, resetLink,
			),
		})
		if err != nil {
			log.Printf("auth: failed to send reset email to %s: %v", user.Email, err)
		}
	}()

	return nil
}

func (s *authService) ResetPassword(token, newPassword string) error {
	user, err := s.userRepo.FindByResetToken(token)
	if err != nil {
		return ErrResetTokenInvalid
	}

	hashed, err := crypto.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.userRepo.ClearResetToken(user.ID, hashed)
}
