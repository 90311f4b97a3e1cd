package room

import "time"

// Broadcaster defines the interface for delivering timer-driven events.
// Handler-driven events travel back to the caller as effects instead; this
// is defined here to keep the room package free of transport imports.
type Broadcaster interface {
	BroadcastToRoom(roomID string, event string, data []byte) error
}

// TimerService 是回合超时的调度口; timer.Manager 实现它
type TimerService interface {
	Schedule(delay time.Duration, callback func()) int64
	Cancel(id int64) bool
}
