package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminUser is an account allowed into the dashboard.
type AdminUser struct {
	ID           uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	Username     string     `json:"username" db:"username" gorm:"type:varchar(150);not null;uniqueIndex:idx_admin_users_username"`
	PasswordHash string     `json:"-" db:"password_hash" gorm:"type:text;not null"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
}

func (u *AdminUser) BeforeCreate(tx *gorm.DB) error {
	assignID(&u.ID)
	return nil
}
