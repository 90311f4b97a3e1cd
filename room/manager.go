// room/manager.go
package room

import (
	"sync"

	"github.com/seanseanwu5/internet/logger"
)

// Manager 是房间注册表，房间的创建和销毁只经过它
type Manager struct {
	rooms map[string]*Room
	mutex sync.RWMutex

	opts        Options
	timers      TimerService
	broadcaster Broadcaster
}

// NewManager 创建房间注册表; 新房间统一使用这里的参数和依赖
func NewManager(opts Options, timers TimerService, broadcaster Broadcaster) *Manager {
	return &Manager{
		rooms:       make(map[string]*Room),
		opts:        opts,
		timers:      timers,
		broadcaster: broadcaster,
	}
}

// GetOrCreate 取出现有房间，没有则建一个
func (m *Manager) GetOrCreate(id string) *Room {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if room, exists := m.rooms[id]; exists {
		return room
	}

	room := NewRoom(id, m.opts, m.timers, m.broadcaster)
	m.rooms[id] = room
	logger.Log.Infof("room %s created", id)
	return room
}

// Get 取出现有房间，不存在时报 ErrRoomNotFound
func (m *Manager) Get(id string) (*Room, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	room, exists := m.rooms[id]
	if !exists {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// DestroyIfEmpty 在房间没有玩家时把它销毁。先拿注册表锁再拿房间锁，
// 这是全局唯一同时持有两把锁的地方，房间代码从不回调注册表。
func (m *Manager) DestroyIfEmpty(id string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	room, exists := m.rooms[id]
	if !exists {
		return false
	}
	if !room.closeIfEmpty() {
		return false
	}

	delete(m.rooms, id)
	logger.Log.Infof("room %s destroyed", id)
	return true
}

// Count 返回当前房间数
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}

// Snapshots 给管理接口用的全量房间概览
func (m *Manager) Snapshots() []Snapshot {
	m.mutex.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		rooms = append(rooms, room)
	}
	m.mutex.RUnlock()

	// 在注册表锁外逐个取房间锁，避免双锁叠加
	snapshots := make([]Snapshot, 0, len(rooms))
	for _, room := range rooms {
		snapshots = append(snapshots, room.Snapshot())
	}
	return snapshots
}
