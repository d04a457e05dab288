package models

import "time"

// BaseModel replaces gorm.Model for rows that are hard-deleted. Soft
// deletes would keep emails reserved and leave zero-member projects behind.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
