package model

import "time"

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pendente"
	StatusInProgress TaskStatus = "em_andamento"
	StatusCompleted  TaskStatus = "concluida"
	StatusCanceled   TaskStatus = "cancelada"
)

// TaskPriority ranks how urgent a task is.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "baixa"
	PriorityMedium TaskPriority = "media"
	PriorityHigh   TaskPriority = "alta"
	PriorityUrgent TaskPriority = "urgente"
)

// Statuses lists every status in declaration order.
func Statuses() []TaskStatus {
	return []TaskStatus{StatusPending, StatusInProgress, StatusCompleted, StatusCanceled}
}

// Priorities lists every priority in declaration order.
func Priorities() []TaskPriority {
	return []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
}

func ParseStatus(raw string) (TaskStatus, bool) {
	for _, st := range Statuses() {
		if string(st) == raw {
			return st, true
		}
	}
	return "", false
}

func ParsePriority(raw string) (TaskPriority, bool) {
	for _, p := range Priorities() {
		if string(p) == raw {
			return p, true
		}
	}
	return "", false
}

// Task represents a single unit of work.
type Task struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Title       string       `gorm:"size:200;not null" json:"titulo"`
	Description *string      `gorm:"type:text" json:"descricao"`
	Status      TaskStatus   `gorm:"size:20;not null;default:pendente;index" json:"status"`
	Priority    TaskPriority `gorm:"size:20;not null;default:media;index" json:"prioridade"`
	CreatedAt   time.Time    `gorm:"not null" json:"data_criacao"`
	DueDate     *time.Time   `json:"data_vencimento"`
	CompletedAt *time.Time   `json:"data_conclusao"`
	Owner       *string      `gorm:"size:100" json:"responsavel"`
	CategoryID  *uint        `gorm:"index" json:"categoria_id"`
	UpdatedAt   time.Time    `json:"data_atualizacao"`
}

// IsOverdue reports whether the task is past due and still not completed.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != StatusCompleted
}
