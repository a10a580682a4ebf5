package resp

import (
	"time"

	v1 "yoladmin/pkg/api/v1"
)

type MeResp struct {
	User        *v1.AuthUser `json:"user"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty"`
	SidebarOpen bool         `json:"sidebar_open"`
}

type LoginStateResp struct {
	Authenticated bool `json:"authenticated"`
}
