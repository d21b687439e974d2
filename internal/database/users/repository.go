// Package users provides database operations for catalog accounts.
//
// # Usage
//
//	repo := users.NewRepository(db, log, bcryptCost)
//	user, err := repo.Authenticate("alice", password)
package users

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/bookshelf/bookshelf/internal/auth"
	"github.com/bookshelf/bookshelf/internal/database"
	"github.com/bookshelf/bookshelf/internal/entities"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameInvalid  = errors.New("username must be 3-64 characters, alphanumeric and underscore/hyphen only")
)

// Repository handles all user database operations.
type Repository struct {
	db         *gorm.DB
	log        zerolog.Logger
	bcryptCost int
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB, log zerolog.Logger, bcryptCost int) *Repository {
	return &Repository{db: db, log: log, bcryptCost: bcryptCost}
}

// Register creates an account with a bcrypt-hashed password. A username that
// is already taken returns ErrDuplicateUsername.
func (r *Repository) Register(username, password string) (*entities.User, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if !usernamePattern.MatchString(username) {
		return nil, ErrUsernameInvalid
	}

	passwordHash, err := auth.HashPassword(password, r.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username:     username,
		PasswordHash: passwordHash,
	}
	if err := r.db.Create(user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			r.log.Warn().Str("username", username).Msg("username already exists")
			return nil, database.ErrDuplicateUsername
		}
		r.log.Error().Err(err).Str("username", username).Msg("failed to create user")
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Authenticate validates credentials and returns the account. An unknown
// username is ErrNotFound; a wrong password is auth.ErrInvalidPassword.
func (r *Repository) Authenticate(username, password string) (*entities.User, error) {
	user, err := r.GetByUsername(username)
	if err != nil {
		return nil, err
	}

	if err := auth.CheckPassword(password, user.PasswordHash); err != nil {
		r.log.Warn().Str("username", username).Msg("failed login attempt")
		return nil, err
	}

	return user, nil
}

// GetByUsername retrieves an account by username.
func (r *Repository) GetByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, database.ErrNotFound
		}
		r.log.Error().Err(err).Str("username", username).Msg("failed to get user")
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// GetByID retrieves an account by identifier.
func (r *Repository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, database.ErrNotFound
		}
		r.log.Error().Err(err).Uint("id", id).Msg("failed to get user")
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}
