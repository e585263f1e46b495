package usecase

// Event names emitted by the lifecycle services, matching what observer
// clients subscribe to.
const (
	EventTaskCreated       = "taskCreated"
	EventTaskUpdated       = "taskUpdated"
	EventTaskStatusChanged = "taskStatusChanged"
	EventTaskAssigned      = "taskAssigned"
	EventTaskDeleted       = "taskDeleted"
	EventNotification      = "receiveNotification"
)

// Broadcaster abstracts the notification hub so services stay transport
// agnostic. Delivery is best-effort fan-out: implementations must never
// block the caller on observer I/O and never report per-observer failures
// back to the write path.
type Broadcaster interface {
	// BroadcastAll delivers an event to every connected observer.
	BroadcastAll(event string, args ...interface{})
	// BroadcastUser delivers an event only to the connections a user has
	// joined to their group.
	BroadcastUser(userID int64, event string, args ...interface{})
}
