package monitor

import "time"

type Status struct {
	PostgreSQL   bool      `json:"postgresql"`
	Redis        bool      `json:"redis"`
	EventLog     bool      `json:"event_log"`
	EventLogSize int       `json:"event_log_size"`
	Observers    int       `json:"observers"`
	LastCheck    time.Time `json:"last_check"`
}
