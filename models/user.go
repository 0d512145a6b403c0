package models

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	RoleDesigner = "designer"
	RoleAdmin    = "admin"

	MinPasswordLength = 8
)

var ErrPasswordTooShort = errors.New("password must be at least 8 characters")

// User is a designer account, the tenant root every other record hangs from
type User struct {
	Base
	Name          string     `gorm:"size:80;not null" json:"name"`
	Email         string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash  string     `gorm:"not null" json:"-"`
	StudioName    string     `gorm:"size:120" json:"studio_name"`
	Phone         string     `json:"phone"`
	LogoKey       string     `json:"-"`
	LogoURL       string     `gorm:"-" json:"logo_url,omitempty"` // resolved from LogoKey per response
	Address       string     `json:"address"`
	Website       string     `json:"website"`
	WhatsApp      string     `gorm:"column:whatsapp" json:"whatsapp"`
	Role          string     `gorm:"not null;default:'designer'" json:"role"` // designer or admin
	IsActive      bool       `gorm:"not null;default:true" json:"is_active"`
	Plan          string     `gorm:"not null;default:'free'" json:"plan"` // free, pro, enterprise
	PlanExpiresAt *time.Time `json:"plan_expires_at,omitempty"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// NormalizeEmail lowercases and trims an address so lookups are case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetPassword hashes plain with bcrypt at the given cost
func (u *User) SetPassword(plain string, cost int) error {
	if len(plain) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether plain matches the stored hash
func (u *User) CheckPassword(plain string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// IsAdmin reports whether the account carries the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
