package transport

// Request payloads carry only recognized fields; handlers decode them with
// unknown-field rejection so loosely-shaped bodies fail before any domain
// logic runs.

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ActivityID  int64  `json:"activity_id"`
	AssigneeID  *int64 `json:"assignee_id"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status"`
}

type AssignTaskRequest struct {
	UserID int64 `json:"user_id"`
}

type CreateActivityRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username"`
}

type SessionRequest struct {
	SessionID string `json:"session_id"`
}
