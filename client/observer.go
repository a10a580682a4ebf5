package client

import "time"

// Refresh outcomes reported to Observer.RecordRefresh.
const (
	RefreshSuccess   = "success"
	RefreshFailure   = "failure"
	RefreshCoalesced = "coalesced"
	RefreshSkipped   = "skipped"
)

// Observer receives request and refresh telemetry. Implementations must be
// safe for concurrent use.
type Observer interface {
	ObserveRequest(method, route string, status int, duration time.Duration)
	RecordRefresh(outcome string)
}

type NoopObserver struct{}

func (NoopObserver) ObserveRequest(string, string, int, time.Duration) {}
func (NoopObserver) RecordRefresh(string)                              {}
