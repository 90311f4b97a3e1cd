// network/protocol.go
package network

import (
	"encoding/json"
	"errors"
	"fmt"
)

// 入站事件
const (
	EventCreateRoom     = "create_room"
	EventJoinRoom       = "join_room"
	EventSubmitBoard    = "submit_board"
	EventStartGame      = "start_game"
	EventNumberSelected = "number_selected"
	EventSendMessage    = "send_message"
	EventPing           = "ping"
)

// 出站事件
const (
	EventRoomCreated            = "room_created"
	EventPlayerJoined           = "player_joined"
	EventUpdatePlayerList       = "update_player_list"
	EventBoardSubmitted         = "board_submitted"
	EventUpdateSubmissionStatus = "update_submission_status"
	EventWaitingForPlayers      = "waiting_for_players"
	EventGameStarted            = "game_started"
	EventYourTurn               = "your_turn"
	EventTurnSkipped            = "turn_skipped"
	EventNumberCalled           = "number_called"
	EventGameOver               = "game_over"
	EventGameEnded              = "game_ended"
	EventPlayerLeft             = "player_left"
	EventNewMessage             = "new_message"
	EventPong                   = "pong"
	EventError                  = "error"
)

// EventRestartGame 既是客户端请求也是房间广播
const EventRestartGame = "restart_game"

// ErrMalformedPacket is returned for frames that do not carry a valid envelope.
var ErrMalformedPacket = errors.New("malformed packet")

// Packet 是一条线上消息的信封: {"event": ..., "data": ...}
type Packet struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ParsePacket decodes a raw frame into a Packet. Frames without an event
// name are rejected with ErrMalformedPacket.
func ParsePacket(raw []byte) (*Packet, error) {
	var p Packet
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPacket, err)
	}
	if p.Event == "" {
		return nil, fmt.Errorf("%w: missing event name", ErrMalformedPacket)
	}
	return &p, nil
}
