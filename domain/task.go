package domain

import "time"

// Task is a unit of work grouped under an activity and optionally
// assigned to a user. Relations are plain id fields; display names are
// joined at read time.
type Task struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	ActivityID  int64        `json:"activity_id"`
	AssigneeID  *int64       `json:"assignee_id,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	CreatedBy   int64        `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	IsActive    bool         `json:"is_active"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

func (t *Task) IsAssigned() bool {
	return t != nil && t.AssigneeID != nil
}
