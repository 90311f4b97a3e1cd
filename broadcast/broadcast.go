// broadcast/broadcast.go
package broadcast

import (
	"github.com/seanseanwu5/internet/monitor"
	"github.com/seanseanwu5/internet/network"
	"github.com/seanseanwu5/internet/session"
)

// 广播接口
type Broadcaster interface {
	BroadcastToRoom(roomID string, event string, data []byte) error
	BroadcastToAll(event string, data []byte) error
}

// RoomBroadcaster 基于会话目录做房间级广播。
// 对局生命周期事件都经过这里，顺带维护监控计数。
type RoomBroadcaster struct {
	sessionManager *session.Manager
	monitor        *monitor.Monitor
}

func NewRoomBroadcaster(sessionManager *session.Manager, m *monitor.Monitor) *RoomBroadcaster {
	return &RoomBroadcaster{
		sessionManager: sessionManager,
		monitor:        m,
	}
}

func (b *RoomBroadcaster) BroadcastToRoom(roomID string, event string, data []byte) error {
	b.observe(event)

	for _, s := range b.sessionManager.GetByRoom(roomID) {
		if err := s.Send(event, data); err != nil {
			// 发送失败交给该连接自己的读循环善后
			continue
		}
	}

	return nil
}

func (b *RoomBroadcaster) BroadcastToAll(event string, data []byte) error {
	for _, s := range b.sessionManager.All() {
		if err := s.Send(event, data); err != nil {
			continue
		}
	}

	return nil
}

// observe 在广播口径上统计对局生命周期
func (b *RoomBroadcaster) observe(event string) {
	if b.monitor == nil {
		return
	}

	switch event {
	case network.EventGameStarted:
		b.monitor.IncGamesStarted()
	case network.EventGameOver, network.EventGameEnded:
		b.monitor.IncGamesFinished()
	case network.EventTurnSkipped:
		b.monitor.IncTurnsSkipped()
	}
}
