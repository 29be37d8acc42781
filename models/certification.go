package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/jonasmwansa/portfolio-backend/errs"
)

// Certification represents a professional certificate
type Certification struct {
	ID                  uuid.UUID       `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	Title               string          `json:"title" db:"title" gorm:"type:varchar(200);not null"`
	IssuingOrganization string          `json:"issuing_organization" db:"issuing_organization" gorm:"type:varchar(200);not null"`
	IssueDate           datatypes.Date  `json:"issue_date" db:"issue_date" gorm:"not null;index"`
	ExpiryDate          *datatypes.Date `json:"expiry_date,omitempty" db:"expiry_date"`
	CredentialID        string          `json:"credential_id" db:"credential_id" gorm:"type:varchar(100);not null"`
	CredentialURL       string          `json:"credential_url" db:"credential_url" gorm:"type:text;not null"`
	IsVerified          bool            `json:"is_verified" db:"is_verified" gorm:"not null"`
	DisplayOnHomepage   bool            `json:"display_on_homepage" db:"display_on_homepage" gorm:"not null"`

	Expired bool `json:"is_expired" gorm:"-"`
}

// NewCertification returns a certification carrying the form defaults.
func NewCertification() Certification {
	return Certification{IsVerified: true}
}

// IsExpiredOn reports whether the certificate expired strictly before the
// given day. Certificates without an expiry date never expire.
func (c Certification) IsExpiredOn(today time.Time) bool {
	if c.ExpiryDate == nil {
		return false
	}
	return dateKey(time.Time(*c.ExpiryDate)) < dateKey(today)
}

func (c *Certification) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

func (c *Certification) BeforeSave(tx *gorm.DB) error {
	c.Title = strings.TrimSpace(c.Title)
	if err := requireText("title", c.Title); err != nil {
		return err
	}
	if err := requireText("issuing_organization", strings.TrimSpace(c.IssuingOrganization)); err != nil {
		return err
	}
	if time.Time(c.IssueDate).IsZero() {
		return errs.NewValidationError("issue_date", "this field is required")
	}
	if c.ExpiryDate != nil && dateKey(time.Time(*c.ExpiryDate)) < dateKey(time.Time(c.IssueDate)) {
		return errs.NewValidationError("expiry_date", "must not be before the issue date")
	}
	return maxRunes("credential_id", c.CredentialID, 100)
}

func (c *Certification) AfterFind(tx *gorm.DB) error {
	c.Expired = c.IsExpiredOn(tx.NowFunc())
	return nil
}
