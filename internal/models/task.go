package models

type Task struct {
	BaseModel

	ProjectID   uint       `gorm:"not null;index"`
	Title       string     `gorm:"not null;index"`
	Description *string    `gorm:"type:text"`
	Status      TaskStatus `gorm:"type:varchar(16);not null;index"`
}
