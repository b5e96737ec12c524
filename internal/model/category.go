package model

import "time"

// Category groups tasks by area (work, personal, study, etc.).
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" json:"nome"`
	Description *string   `gorm:"type:text" json:"descricao"`
	Color       *string   `gorm:"size:7" json:"cor"`
	CreatedAt   time.Time `json:"data_criacao"`
	UpdatedAt   time.Time `json:"-"`
	Tasks       []Task    `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE" json:"-"`

	TotalTasks int64 `gorm:"-" json:"total_tarefas"`
}
