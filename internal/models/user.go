package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	AdminRole Role = "admin"
	UserRole  Role = "user"
)

type User struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id" validate:"omitempty"`
	Username  string    `json:"username" db:"username" validate:"required,lte=30"`
	Email     string    `json:"email" db:"email" validate:"required,email,lte=60"`
	Password  string    `json:"password,omitempty" db:"password" validate:"required,min=8"`
	Fullname  string    `json:"fullname" db:"fullname" validate:"required,lte=60"`
	APIkey    string    `json:"api_key" db:"api_key" validate:"omitempty"`
	Role      Role      `json:"role" db:"role" validate:"required,oneof=admin user,lte=10"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type StorageUsage struct {
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	TotalSize  int64     `json:"total_size" db:"total_size"`
	VideoCount int       `json:"video_count" db:"video_count"`
}

type UserWithToken struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

func (u *User) SanitizePassword() {
	u.Password = ""
}

func (u *User) HashPassword() error {
	hashedPass, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	u.Password = string(hashedPass)
	return nil
}

func (u *User) ComparePassword(password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return fmt.Errorf("error comparing password: %w", err)
	}
	return nil
}

func (u *User) PrepareCreate() error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if !isValidEmail(u.Email) {
		return fmt.Errorf("invalid email format")
	}

	u.Password = strings.TrimSpace(u.Password)
	if err := u.HashPassword(); err != nil {
		return err
	}

	switch u.Role {
	case UserRole, AdminRole:
	case "":
		u.Role = UserRole
	default:
		return fmt.Errorf("invalid role: %s", u.Role)
	}
	return nil
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func isValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
