package models

import (
	"time"
)

// Client представляє профіль клієнта прокату
type Client struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    uint      `gorm:"column:user_id;unique;not null"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	FullName  string    `gorm:"column:full_name;not null;size:200"`
	Address   string    `gorm:"column:address;type:text"`
	Phone     string    `gorm:"column:phone;size:20"`
	IsBlocked bool      `gorm:"column:is_blocked;not null;default:false"`
	Rentals   []Rental  `gorm:"foreignKey:ClientID"`
	CreatedAt time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Client) TableName() string {
	return "clients"
}
