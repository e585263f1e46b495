package domain

// TaskStatus is the fixed task state enumeration.
type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusInProgress TaskStatus = "InProgress"
	StatusCompleted  TaskStatus = "Completed"
	StatusOnHold     TaskStatus = "OnHold"
)

// TaskPriority is the fixed task priority enumeration.
type TaskPriority string

const (
	PriorityLow      TaskPriority = "Low"
	PriorityMedium   TaskPriority = "Medium"
	PriorityHigh     TaskPriority = "High"
	PriorityCritical TaskPriority = "Critical"
)

// UserRole is the fixed user role enumeration.
type UserRole string

const (
	RoleAdmin UserRole = "Admin"
	RoleUser  UserRole = "User"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusOnHold:
		return true
	}
	return false
}

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ParseTaskStatus validates a raw status value.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	s := TaskStatus(raw)
	if !s.Valid() {
		return "", NewError(ErrCodeEnum, "unknown task status: "+raw)
	}
	return s, nil
}

// ParseTaskPriority validates a raw priority value.
func ParseTaskPriority(raw string) (TaskPriority, error) {
	p := TaskPriority(raw)
	if !p.Valid() {
		return "", NewError(ErrCodeEnum, "unknown task priority: "+raw)
	}
	return p, nil
}

// ParseUserRole validates a raw role value.
func ParseUserRole(raw string) (UserRole, error) {
	r := UserRole(raw)
	if !r.Valid() {
		return "", NewError(ErrCodeEnum, "unknown user role: "+raw)
	}
	return r, nil
}
