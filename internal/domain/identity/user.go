package identity

import (
	"regexp"
	"strings"

	"github.com/accounting/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is deliberately above the library default; password hashing
// happens only on login and user management paths.
const bcryptCost = 12

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is a global principal. Users are not tenant-scoped; they gain access
// to companies through memberships.
type User struct {
	shared.BaseAggregateRoot
	Email        string `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(200);not null"`
	FullName     string `gorm:"type:varchar(200);not null"`
	IsActive     bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new active user with a bcrypt-hashed password
func NewUser(email, password, fullName string) (*User, error) {
	if err := validateUserEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if err := validateFullName(fullName); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             strings.TrimSpace(email),
		PasswordHash:      string(hash),
		FullName:          strings.TrimSpace(fullName),
		IsActive:          true,
	}, nil
}

// CheckPassword compares a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the stored password hash
func (u *User) ChangePassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.Touch()
	return nil
}

// UpdateProfile updates the user's display name and email
func (u *User) UpdateProfile(email, fullName string) error {
	if err := validateUserEmail(email); err != nil {
		return err
	}
	if err := validateFullName(fullName); err != nil {
		return err
	}
	u.Email = strings.TrimSpace(email)
	u.FullName = strings.TrimSpace(fullName)
	u.Touch()
	return nil
}

// Activate marks the user as active
func (u *User) Activate() {
	u.IsActive = true
	u.Touch()
}

// Deactivate marks the user as inactive; inactive users cannot log in
func (u *User) Deactivate() {
	u.IsActive = false
	u.Touch()
}

func validateUserEmail(email string) error {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(trimmed) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(trimmed) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		// bcrypt truncates beyond 72 bytes
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func validateFullName(fullName string) error {
	trimmed := strings.TrimSpace(fullName)
	if trimmed == "" {
		return shared.NewDomainError("INVALID_NAME", "Full name cannot be empty")
	}
	if len(trimmed) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Full name cannot exceed 200 characters")
	}
	return nil
}
