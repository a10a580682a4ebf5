package model

import "time"

// SessionEntry is one persisted console value (token or preference) scoped
// to a namespace so several consoles can share a database.
type SessionEntry struct {
	Namespace string `gorm:"primaryKey;size:64"`
	Name      string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (SessionEntry) TableName() string {
	return "console_sessions"
}
