// room/errors.go
package room

import "errors"

// 房间操作的全部可恢复错误; 编排层把它们转成发给调用方的 error{message}
var (
	ErrRoomNotFound = errors.New("room not found")

	// ErrRoomClosed 只在进房撞上销毁时出现，调用方应重取房间重试
	ErrRoomClosed = errors.New("room closed")

	ErrUnknownPlayer = errors.New("player not in room")
	ErrDuplicateName = errors.New("username already taken in this room")

	ErrInvalidBoard = errors.New("board must contain exactly 25 numbers")

	ErrGameStarted    = errors.New("game already in progress")
	ErrGameNotStarted = errors.New("game not started")
	ErrGameFinished   = errors.New("game already finished")

	ErrNotYourTurn   = errors.New("not your turn")
	ErrDuplicateCall = errors.New("number already called")

	ErrInsufficientPlayers  = errors.New("not enough players or votes to start")
	ErrSubmissionIncomplete = errors.New("not all players have submitted a board")

	ErrNothingToRestart = errors.New("nothing to restart")
)
