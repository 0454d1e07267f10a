package models

import (
	"time"

	"gorm.io/gorm"
)

type SparePart struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Name              string         `gorm:"size:150;not null" json:"name"`
	Description       string         `gorm:"type:text" json:"description"`
	CarModel          string         `gorm:"size:100;index" json:"car_model"`
	UnitPrice         float64        `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	StockQuantity     int            `gorm:"default:0" json:"stock_quantity"`
	LowStockThreshold int            `gorm:"default:10" json:"low_stock_threshold"`
	ImageURL          string         `gorm:"size:500" json:"image_url"`
	IsActive          bool           `gorm:"default:true" json:"is_active"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// StockEntry records every restock so inventory movements stay auditable.
type StockEntry struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	SparePartID   uint      `json:"spare_part_id"`
	SparePart     SparePart `gorm:"foreignKey:SparePartID" json:"spare_part"`
	QuantityAdded int       `json:"quantity_added"`
	AddedBy       uint      `json:"added_by"`
	User          User      `gorm:"foreignKey:AddedBy" json:"user"`
	EntryDate     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"entry_date"`
}
