package models

import "time"

// ProjectMembership is the project/user join row. The pair is the key.
type ProjectMembership struct {
	ProjectID uint `gorm:"primaryKey;autoIncrement:false"`
	UserID    uint `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time
}

func (ProjectMembership) TableName() string {
	return "project_users"
}
