package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser   = "user"
	RoleAdmin  = "admin"
	RoleMaster = "master"
)

// ValidRole reports whether role is one of the known access tiers.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleMaster:
		return true
	}
	return false
}

type User struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Email             string    `gorm:"uniqueIndex;not null"  json:"email"`
	PasswordHash      string    `gorm:"not null"              json:"-"`
	Role              string    `gorm:"not null;default:user" json:"role"`
	Verified          bool      `gorm:"not null;default:false" json:"verified"`
	VerificationToken string    `gorm:"not null;default:''"   json:"-"`
	CreatedAt         time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsMaster reports whether the user holds the superuser tier, which
// passes every role check.
func (u *User) IsMaster() bool {
	return u.Role == RoleMaster
}
