package broadcast

import (
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/seanseanwu5/internet/network"
	"github.com/seanseanwu5/internet/session"
)

// recordingConnection captures every event sent through it.
type recordingConnection struct {
	mu     sync.Mutex
	events []string
}

func (c *recordingConnection) Send(event string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *recordingConnection) Close() error                         { return nil }
func (c *recordingConnection) RemoteAddr() net.Addr                 { return &net.TCPAddr{} }
func (c *recordingConnection) SetHeartbeat(interval time.Duration)  {}
func (c *recordingConnection) ReadPacket() (*network.Packet, error) { return nil, nil }

func (c *recordingConnection) sent() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.events...)
}

// failingConnection refuses every send.
type failingConnection struct {
	recordingConnection
}

func (c *failingConnection) Send(event string, data []byte) error {
	return errors.New("connection gone")
}

func TestRoomBroadcaster_BroadcastToRoom(t *testing.T) {
	manager := session.NewManager()

	conn1 := &recordingConnection{}
	sess1 := session.NewSession("s1", conn1)
	sess1.Bind("alice", "room1")

	conn2 := &recordingConnection{}
	sess2 := session.NewSession("s2", conn2)
	sess2.Bind("bob", "room1")

	conn3 := &recordingConnection{}
	sess3 := session.NewSession("s3", conn3)
	sess3.Bind("carol", "room2")

	conn4 := &recordingConnection{}
	sess4 := session.NewSession("s4", conn4)

	manager.Add(sess1)
	manager.Add(sess2)
	manager.Add(sess3)
	manager.Add(sess4)

	b := NewRoomBroadcaster(manager, nil)
	if err := b.BroadcastToRoom("room1", network.EventGameStarted, []byte(`{}`)); err != nil {
		t.Fatalf("BroadcastToRoom failed: %v", err)
	}

	for name, conn := range map[string]*recordingConnection{"alice": conn1, "bob": conn2} {
		events := conn.sent()
		if len(events) != 1 || events[0] != network.EventGameStarted {
			t.Errorf("%s should have received game_started, got %v", name, events)
		}
	}
	if len(conn3.sent()) != 0 {
		t.Error("A session in another room must not receive the broadcast")
	}
	if len(conn4.sent()) != 0 {
		t.Error("An unbound session must not receive a room broadcast")
	}
}

func TestRoomBroadcaster_BroadcastToAll(t *testing.T) {
	manager := session.NewManager()

	conns := []*recordingConnection{{}, {}, {}}
	for i, conn := range conns {
		sess := session.NewSession(string(rune('a'+i)), conn)
		if i < 2 {
			sess.Bind("player", "room1")
		}
		manager.Add(sess)
	}

	b := NewRoomBroadcaster(manager, nil)
	if err := b.BroadcastToAll(network.EventNewMessage, []byte(`{}`)); err != nil {
		t.Fatalf("BroadcastToAll failed: %v", err)
	}

	for i, conn := range conns {
		if len(conn.sent()) != 1 {
			t.Errorf("Connection %d should have received the broadcast, got %v", i, conn.sent())
		}
	}
}

func TestRoomBroadcaster_ContinuesPastSendFailure(t *testing.T) {
	manager := session.NewManager()

	bad := &failingConnection{}
	sessBad := session.NewSession("bad", bad)
	sessBad.Bind("alice", "room1")

	good := &recordingConnection{}
	sessGood := session.NewSession("good", good)
	sessGood.Bind("bob", "room1")

	manager.Add(sessBad)
	manager.Add(sessGood)

	b := NewRoomBroadcaster(manager, nil)
	if err := b.BroadcastToRoom("room1", network.EventPlayerJoined, nil); err != nil {
		t.Fatalf("A dead connection must not fail the broadcast: %v", err)
	}
	if len(good.sent()) != 1 {
		t.Errorf("The healthy connection should still receive the event, got %v", good.sent())
	}
}
