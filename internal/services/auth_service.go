package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yukikurage/event-task-api/internal/auth"
	"github.com/yukikurage/event-task-api/internal/constants"
	apierrors "github.com/yukikurage/event-task-api/internal/errors"
	"github.com/yukikurage/event-task-api/internal/models"
	"github.com/yukikurage/event-task-api/internal/repository"
)

var (
	passwordLower   = regexp.MustCompile(`[a-z]`)
	passwordUpper   = regexp.MustCompile(`[A-Z]`)
	passwordDigit   = regexp.MustCompile(`\d`)
	passwordSpecial = regexp.MustCompile(`[@$!%*?&]`)
	passwordAllowed = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]+$`)
)

var (
	errInvalidCredentials = apierrors.Unauthorized("Invalid credentials")
	errEmailTaken         = &apierrors.Error{
		Kind:       apierrors.KindConflict,
		Constraint: "email",
		Reason:     "User with this email already exists",
	}
)

// AuthService handles authentication related business logic.
type AuthService struct {
	store  repository.Store
	tokens *auth.TokenIssuer
	cost   int
}

// NewAuthService creates a new AuthService.
func NewAuthService(store repository.Store, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
		cost:   constants.BcryptCost,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new user with a hashed password.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apierrors.MalformedInput("name", "should not be empty")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	if _, err := s.store.Users().FindByEmail(email); err == nil {
		return nil, errEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierrors.Translate(fmt.Errorf("failed to check email: %w", err))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return nil, apierrors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	// A concurrent registration with the same email fails on the unique index.
	if err := s.store.Users().Create(user); err != nil {
		translated := apierrors.Translate(fmt.Errorf("failed to create user: %w", err))
		if apierrors.KindOf(translated) == apierrors.KindConflict {
			return nil, errEmailTaken
		}
		return nil, translated
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the user with a signed access token.
func (s *AuthService) Login(input LoginInput) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	user, err := s.store.Users().FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", errInvalidCredentials
		}
		return nil, "", apierrors.Translate(fmt.Errorf("failed to find user: %w", err))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", errInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", apierrors.Internal(err)
	}
	return user, token, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.store.Users().FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NotFound("User", fmt.Sprint(id))
		}
		return nil, apierrors.Translate(fmt.Errorf("failed to find user: %w", err))
	}
	return user, nil
}

// ValidatePassword enforces length and character class rules.
func ValidatePassword(password string) error {
	if len(password) < constants.MinPasswordLength {
		return apierrors.MalformedInput("password", fmt.Sprintf("must be longer than or equal to %d characters", constants.MinPasswordLength))
	}
	if !passwordAllowed.MatchString(password) ||
		!passwordLower.MatchString(password) ||
		!passwordUpper.MatchString(password) ||
		!passwordDigit.MatchString(password) ||
		!passwordSpecial.MatchString(password) {
		return apierrors.MalformedInput("password", "must contain uppercase, lowercase, number and special character")
	}
	return nil
}
