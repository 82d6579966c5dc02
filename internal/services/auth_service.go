package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/collabridge/collabridge-api/internal/auth"
	"github.com/collabridge/collabridge-api/internal/constants"
	"github.com/collabridge/collabridge-api/internal/models"
	"github.com/collabridge/collabridge-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken        = errors.New("username already exists")
	ErrEmailTaken           = errors.New("email already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserNotFound         = errors.New("user not found")
	ErrUnauthenticated      = errors.New("not authenticated")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	revoked  auth.RevocationList
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager, revoked auth.RevocationList) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		revoked:  revoked,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

// AuthResult is a freshly issued token with the user it identifies.
type AuthResult struct {
	Token string
	User  *models.User
}

// Register creates a new user and issues a token for it.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(input.Name)
	username := normalizeUsername(input.Username)
	email := normalizeEmail(input.Email)

	if name == "" || username == "" || email == "" || input.Password == "" {
		return nil, invalid("", "All fields are required")
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, invalid("password", fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         models.UserRoleMember,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent registration won the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.duplicateOf(ctx, username)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issue(user)
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Identifier string
	Password   string
}

// Login verifies credentials and issues a token. The identifier is matched
// against the email when it contains "@" and against the username otherwise.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	identifier := strings.ToLower(strings.TrimSpace(input.Identifier))
	if identifier == "" || input.Password == "" {
		return nil, invalid("", "Identifier and password are required")
	}

	var (
		user *models.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.FindByEmail(ctx, identifier)
	} else {
		user, err = s.userRepo.FindByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Authenticate resolves a bearer token to a live user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, auth.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, auth.Claims{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, auth.Claims{}, err
	}
	if revoked {
		return nil, auth.Claims{}, ErrUnauthenticated
	}

	user, err := s.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, auth.Claims{}, ErrUnauthenticated
		}
		return nil, auth.Claims{}, err
	}
	return user, claims, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// duplicateOf names the unique column a lost insert collided with.
func (s *AuthService) duplicateOf(ctx context.Context, username string) error {
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	}
	return ErrEmailTaken
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, _, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}
