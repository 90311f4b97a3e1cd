// room/room.go
package room

import (
	"math/rand"
	"sync"
	"time"

	"github.com/seanseanwu5/internet/board"
	"github.com/seanseanwu5/internet/logger"
	"github.com/seanseanwu5/internet/models"
	"github.com/seanseanwu5/internet/network"
	"github.com/seanseanwu5/internet/state"
)

// Player 是某个房间内的一名玩家
type Player struct {
	Name      string
	Board     []int
	Marked    [board.Size]bool
	HasBingo  bool
	Submitted bool
}

// Options 控制房间的玩法参数
type Options struct {
	TurnTimeout time.Duration
	MinPlayers  int
	MinVotes    int
}

// DefaultOptions 返回标准玩法: 15秒回合、2人2票开局
func DefaultOptions() Options {
	return Options{
		TurnTimeout: 15 * time.Second,
		MinPlayers:  2,
		MinVotes:    2,
	}
}

// Room 是游戏房间的核心结构。一把互斥锁罩住全部可变状态，
// 事件处理和定时器回调都必须先拿到它，单房间内因此完全串行。
type Room struct {
	ID string

	mu            sync.Mutex
	players       map[string]*Player // displayName -> Player
	joinOrder     []string           // 进房顺序，也是平局裁决顺序
	numbersCalled []int
	chatLog       []models.ChatMessage
	phase         *state.Machine
	turnOrder     []string
	currentTurn   int
	startVotes    map[string]struct{}
	turnGen       int64 // 回合代数，过期回调据此识别自己是否已作废
	timerID       int64
	winner        string
	recorded      bool // 本局是否已产出过存档记录
	closed        bool
	createdAt     time.Time
	startedAt     time.Time

	opts        Options
	timers      TimerService
	broadcaster Broadcaster
}

// NewRoom 创建一个新房间
func NewRoom(id string, opts Options, timers TimerService, broadcaster Broadcaster) *Room {
	return &Room{
		ID:          id,
		players:     make(map[string]*Player),
		startVotes:  make(map[string]struct{}),
		phase:       state.NewMachine(),
		createdAt:   time.Now(),
		opts:        opts,
		timers:      timers,
		broadcaster: broadcaster,
	}
}

// Join 把一名玩家加入房间
func (r *Room) Join(name string) ([]Effect, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRoomClosed
	}
	if _, exists := r.players[name]; exists {
		return nil, ErrDuplicateName
	}

	r.players[name] = &Player{Name: name}
	r.joinOrder = append(r.joinOrder, name)

	return []Effect{
		roomEffect(network.EventPlayerJoined, models.PlayerEvent{Username: name}),
		roomEffect(network.EventUpdatePlayerList, models.PlayerList{Players: r.playerListLocked()}),
	}, nil
}

// SubmitBoard 记录一名玩家的棋盘。开局后和结束后都拒绝，
// 大厅阶段允许重复提交覆盖旧棋盘。
func (r *Room) SubmitBoard(name string, cells []int) ([]Effect, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	player, exists := r.players[name]
	if !exists {
		return nil, ErrUnknownPlayer
	}
	if len(cells) != board.Size {
		return nil, ErrInvalidBoard
	}
	if r.phase.Is(state.InProgress) {
		return nil, ErrGameStarted
	}
	if r.phase.Is(state.Finished) {
		return nil, ErrGameFinished
	}

	if r.phase.Is(state.Lobby) {
		r.phase.Transition(state.AwaitingSubmissions)
	}

	player.Board = append([]int(nil), cells...)
	player.Marked = [board.Size]bool{}
	player.Submitted = true
	player.HasBingo = false

	return []Effect{
		roomEffect(network.EventBoardSubmitted, models.PlayerEvent{Username: name}),
		roomEffect(network.EventUpdateSubmissionStatus, r.submissionStatusLocked()),
	}, nil
}

// VoteStart 记一票开局。凑齐人数、棋盘和票数就开局，
// 否则广播还差什么。
func (r *Room) VoteStart(name string) ([]Effect, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.players[name]; !exists {
		return nil, ErrUnknownPlayer
	}
	if r.phase.Is(state.InProgress) {
		return nil, ErrGameStarted
	}
	if r.phase.Is(state.Finished) {
		return nil, ErrGameFinished
	}

	if r.phase.Is(state.Lobby) {
		r.phase.Transition(state.AwaitingSubmissions)
	}

	r.startVotes[name] = struct{}{}

	if err := r.readyToStartLocked(); err != nil {
		return []Effect{
			roomEffect(network.EventWaitingForPlayers, models.Waiting{Message: r.waitingReasonLocked()}),
		}, nil
	}

	if err := r.phase.Transition(state.InProgress); err != nil {
		return nil, err
	}

	order := append([]string(nil), r.joinOrder...)
	rand.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	r.turnOrder = order
	r.currentTurn = 0
	r.startedAt = time.Now()
	r.winner = ""
	r.recorded = false

	logger.Log.Infof("room %s: game started, turn order %v", r.ID, order)

	effects := []Effect{
		roomEffect(network.EventGameStarted, models.GameStarted{TurnOrder: append([]string(nil), order...)}),
	}
	effects = append(effects, r.beginTurnLocked()...)
	return effects, nil
}

// CallNumber 处理当前回合玩家报出的号码。每个包含该号码的棋盘
// 都划掉对应格子; 第一个(按进房顺序)连成线的玩家获胜。
func (r *Room) CallNumber(name string, number int) ([]Effect, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.phase.Is(state.InProgress) {
		return nil, ErrGameNotStarted
	}
	if _, exists := r.players[name]; !exists {
		return nil, ErrUnknownPlayer
	}
	if name != r.turnOrder[r.currentTurn] {
		return nil, ErrNotYourTurn
	}
	for _, called := range r.numbersCalled {
		if called == number {
			return nil, ErrDuplicateCall
		}
	}

	r.numbersCalled = append(r.numbersCalled, number)

	var winner *string
	for _, playerName := range r.joinOrder {
		player := r.players[playerName]
		if !player.Submitted {
			continue
		}
		idx := board.IndexOf(player.Board, number)
		if idx < 0 {
			continue
		}
		player.Marked[idx] = true
		if board.HasCompletedLine(player.Marked) {
			player.HasBingo = true
			if winner == nil {
				won := playerName
				winner = &won
			}
		}
	}

	effects := []Effect{
		roomEffect(network.EventNumberCalled, models.NumberCalled{
			Number:        number,
			Winner:        winner,
			Username:      name,
			NumbersCalled: append([]int(nil), r.numbersCalled...),
		}),
	}

	if winner != nil {
		r.cancelTimerLocked()
		r.turnGen++
		r.phase.Transition(state.Finished)
		r.winner = *winner
		logger.Log.Infof("room %s: %s wins after %d calls", r.ID, *winner, len(r.numbersCalled))
		effects = append(effects, roomEffect(network.EventGameOver, models.GameOver{Winner: *winner}))
		return effects, nil
	}

	r.currentTurn = (r.currentTurn + 1) % len(r.turnOrder)
	effects = append(effects, r.beginTurnLocked()...)
	return effects, nil
}

// RemovePlayer 把断线玩家移出房间并修正对局状态。
// 房间是否空了由注册表的 DestroyIfEmpty 判定。
func (r *Room) RemovePlayer(name string) ([]Effect, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.players[name]; !exists {
		return nil, ErrUnknownPlayer
	}

	delete(r.players, name)
	r.joinOrder = removeName(r.joinOrder, name)
	delete(r.startVotes, name)

	if len(r.players) == 0 {
		r.cancelTimerLocked()
		r.turnGen++
		return nil, nil
	}

	effects := []Effect{
		roomEffect(network.EventPlayerLeft, models.PlayerEvent{Username: name}),
		roomEffect(network.EventUpdatePlayerList, models.PlayerList{Players: r.playerListLocked()}),
	}

	if !r.phase.Is(state.InProgress) {
		return effects, nil
	}

	removedIdx := indexOfName(r.turnOrder, name)
	if removedIdx < 0 {
		return effects, nil
	}

	wasHolder := removedIdx == r.currentTurn
	r.turnOrder = removeName(r.turnOrder, name)
	if removedIdx < r.currentTurn {
		r.currentTurn--
	}

	if len(r.turnOrder) < 2 {
		r.cancelTimerLocked()
		r.turnGen++
		r.phase.Transition(state.Finished)
		logger.Log.Infof("room %s: game force-ended, not enough players", r.ID)
		effects = append(effects, roomEffect(network.EventGameEnded, models.GameEnded{
			Message: "game ended: not enough players to continue",
		}))
		return effects, nil
	}

	if wasHolder {
		// 位置上顶上来的已经是下一位，原地重开回合而不是再前进一步
		r.currentTurn = r.currentTurn % len(r.turnOrder)
		effects = append(effects, r.beginTurnLocked()...)
	}

	return effects, nil
}

// Restart 把房间拉回大厅，清空对局痕迹但保留玩家和聊天记录
func (r *Room) Restart(name string) ([]Effect, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.players[name]; !exists {
		return nil, ErrUnknownPlayer
	}
	if r.phase.Is(state.Lobby) {
		return nil, ErrNothingToRestart
	}

	r.cancelTimerLocked()
	r.turnGen++
	if err := r.phase.Transition(state.Lobby); err != nil {
		return nil, err
	}

	r.numbersCalled = nil
	r.turnOrder = nil
	r.currentTurn = 0
	r.startVotes = make(map[string]struct{})
	r.winner = ""
	r.recorded = false
	for _, player := range r.players {
		player.Board = nil
		player.Marked = [board.Size]bool{}
		player.Submitted = false
		player.HasBingo = false
	}

	logger.Log.Infof("room %s: reset to lobby by %s", r.ID, name)

	return []Effect{
		roomEffect(network.EventRestartGame, nil),
		roomEffect(network.EventUpdatePlayerList, models.PlayerList{Players: r.playerListLocked()}),
	}, nil
}

// AppendChat 记录并转发一条房间聊天
func (r *Room) AppendChat(name, text string) []Effect {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg := models.ChatMessage{Username: name, Message: text}
	r.chatLog = append(r.chatLog, msg)

	return []Effect{roomEffect(network.EventNewMessage, msg)}
}

// --- 快照与存档 ---

// Snapshot 是管理接口用的房间概览
type Snapshot struct {
	ID            string
	Phase         string
	Players       []string
	NumbersCalled int
	ChatMessages  int
	CreatedAt     time.Time
}

func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Snapshot{
		ID:            r.ID,
		Phase:         r.phase.Current().String(),
		Players:       r.playerListLocked(),
		NumbersCalled: len(r.numbersCalled),
		ChatMessages:  len(r.chatLog),
		CreatedAt:     r.createdAt,
	}
}

func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// FinishedRecord 在对局刚结束时生成存档记录。每局只产出一次，
// 房间不在 Finished 阶段或已产出过时返回 false。
func (r *Room) FinishedRecord() (*models.GameRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.phase.Is(state.Finished) || r.recorded {
		return nil, false
	}
	r.recorded = true

	duration := 0
	if !r.startedAt.IsZero() {
		duration = int(time.Since(r.startedAt).Seconds())
	}

	return &models.GameRecord{
		RoomID:        r.ID,
		Winner:        r.winner,
		Players:       r.playerListLocked(),
		NumbersCalled: append([]int(nil), r.numbersCalled...),
		Duration:      duration,
		CreatedAt:     time.Now(),
	}, true
}

// closeIfEmpty 由注册表在持有注册表锁时调用; 标记 closed 后
// 迟到的 Join 会得到 ErrRoomClosed 并重试到新房间
func (r *Room) closeIfEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.players) > 0 {
		return false
	}

	r.closed = true
	r.cancelTimerLocked()
	r.turnGen++
	return true
}

// --- 锁内辅助 ---

func (r *Room) playerListLocked() []string {
	return append([]string(nil), r.joinOrder...)
}

func (r *Room) submissionStatusLocked() models.SubmissionStatus {
	status := make(models.SubmissionStatus, len(r.players))
	for name, player := range r.players {
		status[name] = player.Submitted
	}
	return status
}

func (r *Room) allSubmittedLocked() bool {
	for _, player := range r.players {
		if !player.Submitted {
			return false
		}
	}
	return true
}

func (r *Room) readyToStartLocked() error {
	if len(r.players) < r.opts.MinPlayers || len(r.startVotes) < r.opts.MinVotes {
		return ErrInsufficientPlayers
	}
	if !r.allSubmittedLocked() {
		return ErrSubmissionIncomplete
	}
	return nil
}

// waitingReasonLocked 给出最受限的未满足条件: 人数 > 棋盘 > 票数
func (r *Room) waitingReasonLocked() string {
	switch {
	case len(r.players) < r.opts.MinPlayers:
		return "waiting for more players to join"
	case !r.allSubmittedLocked():
		return "waiting for all players to submit a board"
	default:
		return "waiting for more start votes"
	}
}

func indexOfName(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func removeName(names []string, name string) []string {
	for i, n := range names {
		if n == name {
			return append(names[:i], names[i+1:]...)
		}
	}
	return names
}
