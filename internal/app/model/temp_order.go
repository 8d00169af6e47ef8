package model

import (
	"time"

	"gorm.io/gorm"
)

// TempOrderItem is the "buy now" staging line. The write path deletes all
// prior rows for the user before inserting, so at most one live row exists
// per user.
type TempOrderItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	ProductID uint           `gorm:"not null;index" json:"product_id"`
	Quantity  int            `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (TempOrderItem) TableName() string {
	return "temp_orders"
}
