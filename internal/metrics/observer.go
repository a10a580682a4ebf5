package metrics

import "time"

// BackendObserver is the telemetry sink handed to the API client.
type BackendObserver interface {
	ObserveRequest(method, route string, status int, duration time.Duration)
	RecordRefresh(outcome string)
}

// ConsoleObserver records the console's own HTTP traffic.
type ConsoleObserver interface {
	ObserveHTTP(path, method string, status int, duration time.Duration)
	SetSessionActive(active bool)
}
