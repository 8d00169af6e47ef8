package model

import (
	"time"

	"gorm.io/gorm"
)

type MovementType string

const (
	MovementAdd    MovementType = "add"
	MovementDeduct MovementType = "deduct"
)

// InventoryMovement is the audit trail for every stock change. Manual
// receipts carry receiving metadata; order deductions reference the order.
type InventoryMovement struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	ProductID     uint           `gorm:"not null;index" json:"product_id"`
	ChangeType    MovementType   `gorm:"type:varchar(10);not null" json:"change_type"`
	Quantity      int            `gorm:"not null" json:"quantity"`
	OrderID       *uint          `gorm:"index" json:"order_id,omitempty"`
	ReceivedBy    string         `json:"received_by,omitempty"`
	ReceivedDate  *time.Time     `json:"received_date,omitempty"`
	InvoiceNumber string         `json:"invoice_number,omitempty"`
	Note          string         `gorm:"type:text" json:"note,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (InventoryMovement) TableName() string {
	return "inventory_movements"
}
