package models

import "time"

type Ad struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:150;not null" json:"title"`
	ImageURL    string    `gorm:"size:500" json:"image_url"`
	RedirectURL string    `gorm:"size:500" json:"redirect_url"`
	Active      bool      `gorm:"default:true" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}
