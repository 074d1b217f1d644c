package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// STATUS_ACTIVE is the only status that may log in
const STATUS_ACTIVE = "active"

type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;type:varchar(100);not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;type:varchar(200);not null" json:"email,omitempty"`
	Password  string         `gorm:"type:text;not null" json:"-"`
	Mobile    string         `gorm:"type:varchar(30)" json:"mobile,omitempty"`
	Role      Role           `gorm:"type:varchar(20);index;default:'audience'" json:"role,omitempty"`
	Status    string         `gorm:"type:varchar(20);default:'active'" json:"status,omitempty"`
	CreatedBy *uint          `gorm:"index" json:"createdBy"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// NewUser builds an account with a hashed password. The plain password is never kept.
func NewUser(username, email, password, mobile string, role Role, createdBy *uint) (*User, error) {
	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &User{
		Username:  username,
		Email:     email,
		Password:  pw,
		Mobile:    mobile,
		Role:      role,
		Status:    STATUS_ACTIVE,
		CreatedBy: createdBy,
	}, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// IsActive reports whether the user status is active
func (u *User) IsActive() bool {
	return u.Status == STATUS_ACTIVE
}

// CheckPassword verifies if the provided password matches the user's stored password
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.Password)
}

// Actor returns the identity used when this user calls a service.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Username: u.Username, Role: u.Role}
}
