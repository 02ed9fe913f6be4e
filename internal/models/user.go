// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Name          string     `json:"name" gorm:"size:50;not null"`
	Email         string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash  string     `json:"-" gorm:"size:255"`
	ImgProfile    string     `json:"img_profile,omitempty" gorm:"size:512"`
	Phone         string     `json:"phone,omitempty" gorm:"size:20"`
	Country       string     `json:"country,omitempty" gorm:"size:50"`
	Address       string     `json:"address,omitempty" gorm:"size:255"`
	Role          UserRole   `json:"role" gorm:"type:varchar(20);default:'regular'"`
	IsActive      bool       `json:"is_active" gorm:"default:true"`
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`
	ProfileData   JSONB      `json:"profile_data,omitempty" gorm:"type:jsonb"`

	StripeCustomerID string `json:"-" gorm:"size:128"`

	// Relationships
	Auctions []Auction `json:"auctions,omitempty" gorm:"foreignKey:OwnerID"`
	Bids     []Bid     `json:"bids,omitempty" gorm:"foreignKey:BidderID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
