package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/utsavhq/utsav/internal/model"
	"github.com/utsavhq/utsav/internal/repository"
)

const minPasswordLength = 6

// UserStore is the persistence surface the auth service needs.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, u *model.User) error
}

// TokenIssuer signs a token for an authenticated user.
type TokenIssuer interface {
	Generate(u *model.User) (string, error)
}

// AuthService handles signup, login, and profile management.
type AuthService struct {
	users  UserStore
	tokens TokenIssuer
}

// NewAuthService constructs an AuthService with its dependencies.
func NewAuthService(users UserStore, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Signup validates the request, hashes the password, and creates the user.
// Returns the user and a signed token.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (*model.User, string, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	fields := make(map[string]string)
	if req.Name == "" {
		fields["name"] = "name_required"
	}
	if req.Email == "" {
		fields["email"] = "email_required"
	} else if _, err := mail.ParseAddress(req.Email); err != nil {
		fields["email"] = "invalid_email"
	}
	if req.Password == "" {
		fields["password"] = "password_required"
	} else if len(req.Password) < minPasswordLength {
		fields["password"] = "password_too_short"
	}
	if len(fields) > 0 {
		return nil, "", &ValidationError{Fields: fields}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:          req.Email,
		Name:           req.Name,
		Gender:         req.Gender,
		Stream:         req.Stream,
		DateOfBirth:    req.DateOfBirth,
		PassingOutYear: req.PassingOutYear,
		PasswordHash:   string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	return user, token, nil
}

// Login checks the credentials and returns the user with a signed token.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.User, string, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	return user, token, nil
}

// LookupByEmail resolves an email to a minimal user reference. The
// registration form uses this to add team members.
func (s *AuthService) LookupByEmail(ctx context.Context, email string) (model.UserRef, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return model.UserRef{}, fieldError("email", "email_required")
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.UserRef{}, repository.ErrNotFound
		}
		return model.UserRef{}, fmt.Errorf("lookup user: %w", err)
	}
	return user.Ref(), nil
}

// Profile returns the caller's own profile.
func (s *AuthService) Profile(ctx context.Context, userID string) (*model.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile applies the mutable profile fields and returns the updated
// user.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req model.UpdateProfileRequest) (*model.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, fieldError("name", "name_required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Name = req.Name
	user.Gender = req.Gender
	user.Stream = req.Stream
	user.DateOfBirth = req.DateOfBirth
	user.PassingOutYear = req.PassingOutYear
	user.Phone = req.Phone
	user.Address = req.Address
	user.Bio = req.Bio

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}
