package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an operator or customer account
type User struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Email             string     `gorm:"uniqueIndex;not null" json:"email"`
	EncryptedPassword string     `gorm:"column:encrypted_password;not null" json:"-"`
	Role              string     `gorm:"default:customer;index" json:"role"`
	FullName          string     `json:"full_name"`
	Phone             string     `json:"phone"`
	Status            string     `gorm:"default:active" json:"status"`
	StoreID           *uint      `gorm:"index" json:"store_id"` // set for managers
	DiscardedAt       *time.Time `gorm:"index" json:"-"`
	Address           *string    `json:"address"`
	CreatedBy         *uint      `json:"created_by"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// Associations
	Store         *Store             `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	Creator       *User              `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Bookings      []Booking          `gorm:"foreignKey:CustomerID" json:"bookings,omitempty"`
	Documents     []CustomerDocument `gorm:"foreignKey:UserID" json:"documents,omitempty"`
	Notifications []Notification     `gorm:"foreignKey:UserID" json:"notifications,omitempty"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook for setting defaults
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleCustomer
	}
	if u.Status == "" {
		u.Status = StatusActive
	}
	return nil
}

// Role constants
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleCustomer = "customer"
)

// Status constants
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// IsAdmin returns true if user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsManager returns true if user has manager role
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// IsActive returns true if user status is active
func (u *User) IsActive() bool {
	return u.Status == StatusActive && u.DiscardedAt == nil
}

// IsDiscarded returns true if user is soft-deleted
func (u *User) IsDiscarded() bool {
	return u.DiscardedAt != nil
}

// UserResponse is the JSON response format for users
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Status    string    `json:"status"`
	StoreID   *uint     `json:"store_id"`
	StoreName string    `json:"store_name,omitempty"`
	Address   *string   `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		FullName:  u.FullName,
		Phone:     u.Phone,
		Status:    u.Status,
		StoreID:   u.StoreID,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
	}
	if u.Store != nil {
		resp.StoreName = u.Store.Name
	}
	return resp
}
