// models/models.go
package models

import (
	"time"
)

// --- 客户端请求负载 ---

// JoinRequest 进房请求 (create_room / join_room)
type JoinRequest struct {
	Room     string `json:"room"`
	Username string `json:"username"`
}

// SubmitBoardRequest 提交棋盘请求
type SubmitBoardRequest struct {
	Board []int `json:"board"`
}

// NumberRequest 报号请求
type NumberRequest struct {
	Number int `json:"number"`
}

// ChatRequest 聊天请求
type ChatRequest struct {
	Message string `json:"message"`
}

// --- 服务端事件负载 ---

// RoomCreated room_created 负载
type RoomCreated struct {
	Room string `json:"room"`
}

// PlayerEvent 单玩家事件负载 (player_joined / player_left / board_submitted / your_turn / turn_skipped)
type PlayerEvent struct {
	Username string `json:"username"`
}

// PlayerList update_player_list 负载，按进房顺序排列
type PlayerList struct {
	Players []string `json:"players"`
}

// SubmissionStatus update_submission_status 负载: 玩家名 -> 是否已提交
type SubmissionStatus map[string]bool

// Waiting waiting_for_players 负载
type Waiting struct {
	Message string `json:"message"`
}

// GameStarted game_started 负载
type GameStarted struct {
	TurnOrder []string `json:"turn_order"`
}

// NumberCalled number_called 负载; Winner 为 nil 表示本次没有赢家
type NumberCalled struct {
	Number        int     `json:"number"`
	Winner        *string `json:"winner"`
	Username      string  `json:"username"`
	NumbersCalled []int   `json:"numbers_called"`
}

// GameOver game_over 负载
type GameOver struct {
	Winner string `json:"winner"`
}

// GameEnded game_ended 负载 (无赢家的强制结束)
type GameEnded struct {
	Message string `json:"message"`
}

// ChatMessage 既是房间聊天记录条目也是 new_message 负载
type ChatMessage struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// ErrorMessage error 负载
type ErrorMessage struct {
	Message string `json:"message"`
}

// --- 存档模型 ---

// GameRecord 一局结束后的存档记录
type GameRecord struct {
	RoomID        string    `json:"room_id"`
	Winner        string    `json:"winner"` // 空串表示无赢家结束
	Players       []string  `json:"players"`
	NumbersCalled []int     `json:"numbers_called"`
	Duration      int       `json:"duration"` // 对局时长(秒)
	CreatedAt     time.Time `json:"created_at"`
}

// PlayerStats 玩家历史战绩
type PlayerStats struct {
	Username   string `json:"username"`
	TotalGames int    `json:"total_games"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
}
