package models

import (
	"time"
)

// CustomerDocument represents an identity/licence document awaiting verification
type CustomerDocument struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"not null;index" json:"user_id"`
	DocumentType    string     `gorm:"size:50;not null" json:"document_type"`
	FilePath        string     `gorm:"not null" json:"-"`
	Status          string     `gorm:"default:pending;index" json:"status"`
	RejectionReason *string    `gorm:"type:text" json:"rejection_reason"`
	ReviewedBy      *uint      `gorm:"index" json:"reviewed_by"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Associations
	User     User  `gorm:"foreignKey:UserID" json:"-"`
	Reviewer *User `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
}

// TableName specifies the table name for CustomerDocument
func (CustomerDocument) TableName() string {
	return "customer_documents"
}

// Document status constants
const (
	DocumentStatusPending  = "pending"
	DocumentStatusVerified = "verified"
	DocumentStatusRejected = "rejected"
)

// Document type constants
const (
	DocumentTypeLicence  = "driving_licence"
	DocumentTypeIdentity = "identity_proof"
)

// IsVerified returns true if the document passed review
func (d *CustomerDocument) IsVerified() bool {
	return d.Status == DocumentStatusVerified
}
