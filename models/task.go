package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTaskStatus is applied when a task is created without a status
const DefaultTaskStatus = "Personal"

// Task represents a task owned by a user, keyed by the owner's subject id
type Task struct {
	ID        uuid.UUID `json:"task_id" db:"id"`
	OwnerSub  string    `json:"user_id" db:"owner_sub"`
	Text      string    `json:"task_text" db:"task_text"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the Task model
func (Task) TableName() string {
	return "tasks"
}

// NewTask creates a new Task owned by the given subject
func NewTask(ownerSub, text, status string) *Task {
	if status == "" {
		status = DefaultTaskStatus
	}
	return &Task{
		ID:        uuid.New(),
		OwnerSub:  ownerSub,
		Text:      text,
		Status:    status,
		CreatedAt: time.Now(),
	}
}
