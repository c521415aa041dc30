package models

// SessionStats is the monitoring aggregate returned by the session store
type SessionStats struct {
	ActiveSessions int `json:"active_sessions"`
	TotalSessions  int `json:"total_sessions"`
	LastHour       int `json:"last_hour"` // sessions with activity in the past hour
}
