package models

import "time"

// TaskAssignment links one task to one user. The pair is the identity.
type TaskAssignment struct {
	TaskID    string    `gorm:"type:varchar(36);primarykey" json:"task_id"`
	UserID    uint64    `gorm:"primarykey;autoIncrement:false;index:idx_task_assignments_user_id" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
