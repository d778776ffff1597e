package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"toko-online/models"
	"toko-online/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const otpTTL = 10 * time.Minute

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID int, hashedPassword string) error
}

type OTPStore interface {
	Set(ctx context.Context, email, otp string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}

type Mailer interface {
	SendOTPEmail(toEmail, otp string) error
}

type GoogleTokenVerifier interface {
	Verify(ctx context.Context, token string) (*GoogleUser, error)
}

type GoogleUser struct {
	Email   string
	Name    string
	Picture string
}

type AuthService struct {
	users  UserStore
	otps   OTPStore
	mailer Mailer
	google GoogleTokenVerifier
}

func NewAuthService(users UserStore, otps OTPStore, mailer Mailer, google GoogleTokenVerifier) *AuthService {
	return &AuthService{users: users, otps: otps, mailer: mailer, google: google}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName:   req.FullName,
		Email:      req.Email,
		Password:   hashedPassword,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Unique index backstop for two concurrent registers on one email.
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return s.issueToken(user)
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.VerifyPassword(user.Password, req.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

// GoogleLogin verifies the Google ID token and signs the user in,
// creating the account on first sign-in. Google accounts get a random
// throwaway password so the local login path stays unusable for them.
func (s *AuthService) GoogleLogin(ctx context.Context, token string) (*models.AuthResponse, error) {
	if s.google == nil {
		return nil, errors.New("google sign-in is not configured")
	}

	googleUser, err := s.google.Verify(ctx, token)
	if err != nil {
		return nil, ErrInvalidGoogleToken
	}

	user, err := s.users.FindByEmail(ctx, googleUser.Email)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}

		hashedPassword, err := utils.HashPassword(uuid.NewString())
		if err != nil {
			return nil, err
		}

		user = &models.User{
			FullName:       googleUser.Name,
			Email:          googleUser.Email,
			Password:       hashedPassword,
			ProfilePicture: googleUser.Picture,
		}
		if err := s.users.Create(ctx, user); err != nil {
			if !isUniqueViolation(err) {
				return nil, err
			}
			// Lost the race against a concurrent first sign-in.
			if user, err = s.users.FindByEmail(ctx, googleUser.Email); err != nil {
				return nil, err
			}
		}
	}

	return s.issueToken(user)
}

// ForgotPassword always reports success so the endpoint cannot be used to
// probe which emails have accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	// Checked before the lookup so a missing SMTP setup fails the same
	// way for registered and unregistered emails.
	if s.mailer == nil {
		log.Printf("Email service is not configured, dropping password reset for %s", email)
		return nil
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}

	if err := s.otps.Set(ctx, user.Email, otp, otpTTL); err != nil {
		return err
	}

	if err := s.mailer.SendOTPEmail(user.Email, otp); err != nil {
		log.Printf("Failed to send OTP email to %s: %v", user.Email, err)
		return err
	}

	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	stored, err := s.otps.Get(ctx, req.Email)
	if err != nil {
		return err
	}
	if stored == "" || stored != req.OTP {
		return ErrInvalidOTP
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return ErrInvalidOTP
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		return err
	}

	return s.otps.Delete(ctx, req.Email)
}

func (s *AuthService) issueToken(user *models.User) (*models.AuthResponse, error) {
	token, err := utils.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: *user}, nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
