package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RoleResident Role = "resident"
)

// User represents an account in the system (resident, barangay staff or admin)
type User struct {
	BaseModel
	Email      string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password   string `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	FirstName  string `gorm:"size:100" json:"firstName"`
	LastName   string `gorm:"size:100" json:"lastName"`
	Role       Role   `gorm:"size:20;default:'resident'" json:"role"`
	IsApproved bool   `gorm:"default:false" json:"isApproved"`

	// Relations (not always preloaded)
	Profile       *ResidentProfile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	RefreshTokens []RefreshToken   `gorm:"foreignKey:UserID" json:"-"`
	Appointments  []Appointment    `gorm:"foreignKey:ResidentID" json:"-"`
}

// ResidentProfile holds the personal details a resident submits on registration.
type ResidentProfile struct {
	BaseModel
	UserID      string     `gorm:"size:36;uniqueIndex" json:"userId"`
	MiddleName  string     `gorm:"size:100" json:"middleName,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Sex         string     `gorm:"size:10" json:"sex,omitempty"`
	Address     string     `gorm:"size:255" json:"address,omitempty"`
	PhoneNumber string     `gorm:"size:20" json:"phoneNumber,omitempty"`
	CivilStatus string     `gorm:"size:20" json:"civilStatus,omitempty"`
	Citizenship string     `gorm:"size:50" json:"citizenship,omitempty"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID         string           `json:"id"`
	Email      string           `json:"email"`
	FirstName  string           `json:"firstName"`
	LastName   string           `json:"lastName"`
	Role       Role             `json:"role"`
	IsApproved bool             `json:"isApproved"`
	Profile    *ResidentProfile `json:"profile,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       u.Role,
		IsApproved: u.IsApproved,
		Profile:    u.Profile,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
