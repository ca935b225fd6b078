package db_models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleManager  Role = "Manager"
	RoleStaff    Role = "Staff"
	RoleCustomer Role = "Customer"
)

// ParseRole rejects unknown role strings at the deserialization boundary.
// Matching is case-insensitive; stored casing is canonical.
func ParseRole(s string) (Role, error) {
	for _, r := range []Role{RoleAdmin, RoleManager, RoleStaff, RoleCustomer} {
		if strings.EqualFold(s, string(r)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type Account struct {
	BaseModel
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	Role         Role `gorm:"size:16;index"`

	Profile *UserProfile `gorm:"foreignKey:AccountID"`
}

// UserProfile is the 1:1 extension of Account, created lazily on the first
// profile write or at registration.
type UserProfile struct {
	BaseModel
	AccountID      uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	FullName       string
	Phone          string
	Address        string
	DateOfBirth    *time.Time
	SignatureImage string `gorm:"type:text"`
}
