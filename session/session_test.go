package session

import (
	"net"
	"testing"
	"time"

	"github.com/seanseanwu5/internet/network"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct{}

func (m *MockConnection) Send(event string, data []byte) error { return nil }
func (m *MockConnection) Close() error                         { return nil }
func (m *MockConnection) RemoteAddr() net.Addr                 { return &net.TCPAddr{} }
func (m *MockConnection) SetHeartbeat(interval time.Duration)  {}
func (m *MockConnection) ReadPacket() (*network.Packet, error) { return nil, nil }

func TestNewManager(t *testing.T) {
	manager := NewManager()
	if manager == nil {
		t.Fatal("NewManager should not return nil")
	}
	if manager.sessions == nil {
		t.Fatal("NewManager should initialize the sessions map")
	}
}

func TestManager_Add_Get_Remove(t *testing.T) {
	manager := NewManager()
	sessionID := "test_session_1"
	sess := NewSession(sessionID, &MockConnection{})

	// Test Add
	manager.Add(sess)
	if manager.Count() != 1 {
		t.Fatalf("Expected session count to be 1, got %d", manager.Count())
	}

	// Test Get
	retrievedSess, exists := manager.Get(sessionID)
	if !exists {
		t.Fatal("Get should find the added session")
	}
	if retrievedSess != sess {
		t.Fatal("Get should return the same session instance")
	}

	// Test Remove
	manager.Remove(sessionID)
	if manager.Count() != 0 {
		t.Fatalf("Expected session count to be 0 after removal, got %d", manager.Count())
	}

	_, exists = manager.Get(sessionID)
	if exists {
		t.Fatal("Get should not find the removed session")
	}
}

func TestSession_Binding(t *testing.T) {
	sess := NewSession("s1", &MockConnection{})

	if _, _, ok := sess.Binding(); ok {
		t.Fatal("A fresh session should not be bound")
	}

	sess.Bind("alice", "room1")

	username, roomID, ok := sess.Binding()
	if !ok {
		t.Fatal("Session should be bound after Bind")
	}
	if username != "alice" || roomID != "room1" {
		t.Errorf("Expected binding (alice, room1), got (%s, %s)", username, roomID)
	}
}

func TestManager_GetByRoom(t *testing.T) {
	manager := NewManager()

	sess1 := NewSession("session1", &MockConnection{})
	sess1.Bind("alice", "room1")

	sess2 := NewSession("session2", &MockConnection{})
	sess2.Bind("bob", "room2")

	sess3 := NewSession("session3", &MockConnection{})
	sess3.Bind("carol", "room1")

	sess4 := NewSession("session4", &MockConnection{})

	manager.Add(sess1)
	manager.Add(sess2)
	manager.Add(sess3)
	manager.Add(sess4)

	room1Sessions := manager.GetByRoom("room1")
	if len(room1Sessions) != 2 {
		t.Errorf("Expected 2 sessions bound to room1, got %d", len(room1Sessions))
	}

	room2Sessions := manager.GetByRoom("room2")
	if len(room2Sessions) != 1 {
		t.Errorf("Expected 1 session bound to room2, got %d", len(room2Sessions))
	}

	room3Sessions := manager.GetByRoom("room3")
	if len(room3Sessions) != 0 {
		t.Errorf("Expected 0 sessions for an unknown room, got %d", len(room3Sessions))
	}

	if len(manager.All()) != 4 {
		t.Errorf("Expected All to return 4 sessions, got %d", len(manager.All()))
	}
}
