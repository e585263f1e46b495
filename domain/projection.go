package domain

import "time"

// UnassignedName is the display sentinel for tasks with no assignee.
const UnassignedName = "Unassigned"

// TaskProjection is the flattened read view pushed to observers and
// returned by the API. Relational references are replaced by ids plus
// denormalized display names.
type TaskProjection struct {
	TaskID       int64        `json:"task_id"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	ActivityID   int64        `json:"activity_id"`
	ActivityName string       `json:"activity_name"`
	AssigneeID   *int64       `json:"assignee_id,omitempty"`
	AssigneeName string       `json:"assignee_name"`
	Status       TaskStatus   `json:"status"`
	Priority     TaskPriority `json:"priority"`
	DueDate      *time.Time   `json:"due_date,omitempty"`
	CreatedBy    int64        `json:"created_by"`
	CreatorName  string       `json:"creator_name"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
}

// UserProjection backs selection inputs.
type UserProjection struct {
	UserID   int64    `json:"user_id"`
	Username string   `json:"username"`
	FullName string   `json:"full_name"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`
}

// ActivityProjection backs selection inputs and activity listings.
type ActivityProjection struct {
	ActivityID  int64      `json:"activity_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	CreatedBy   int64      `json:"created_by"`
	CreatorName string     `json:"creator_name"`
	TaskCount   int        `json:"task_count"`
}

// ProjectUser flattens a user entity.
func ProjectUser(u *User) *UserProjection {
	if u == nil {
		return nil
	}
	return &UserProjection{
		UserID:   u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     u.Role,
	}
}
