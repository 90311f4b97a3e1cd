// session/session.go
package session

import (
	"sync"
	"time"

	"github.com/seanseanwu5/internet/network"
)

type Session struct {
	ID         string
	Conn       network.Connection
	Username   string // 进房成功后绑定
	RoomID     string
	CreatedAt  time.Time
	LastActive time.Time
	mutex      sync.RWMutex
}

func NewSession(id string, conn network.Connection) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Conn:       conn,
		CreatedAt:  now,
		LastActive: now,
	}
}

// Bind 记录这条连接属于哪个玩家、哪个房间
func (s *Session) Bind(username, roomID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.Username = username
	s.RoomID = roomID
}

// Binding 返回绑定信息; ok 为 false 表示连接还没进过房
func (s *Session) Binding() (username, roomID string, ok bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.Username, s.RoomID, s.RoomID != ""
}

// Touch 刷新活跃时间
func (s *Session) Touch() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.LastActive = time.Now()
}

func (s *Session) Send(event string, data []byte) error {
	s.Touch()
	return s.Conn.Send(event, data)
}

func (s *Session) GetID() string {
	return s.ID
}

func (s *Session) Close() error {
	return s.Conn.Close()
}

// Session管理器
type Manager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Add(session *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = session
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	session, exists := m.sessions[sessionID]
	return session, exists
}

// GetByRoom 返回绑定到指定房间的全部会话，广播按这个结果扇出
func (m *Manager) GetByRoom(roomID string) []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var result []*Session
	for _, session := range m.sessions {
		if _, bound, ok := session.Binding(); ok && bound == roomID {
			result = append(result, session)
		}
	}
	return result
}

// All 返回当前全部会话
func (m *Manager) All() []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	result := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}
