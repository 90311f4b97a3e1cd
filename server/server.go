package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/seanseanwu5/internet/broadcast"
	"github.com/seanseanwu5/internet/config"
	"github.com/seanseanwu5/internet/logger"
	"github.com/seanseanwu5/internet/models"
	"github.com/seanseanwu5/internet/monitor"
	"github.com/seanseanwu5/internet/network"
	"github.com/seanseanwu5/internet/persistence"
	"github.com/seanseanwu5/internet/room"
	bingo_rpc "github.com/seanseanwu5/internet/rpc"
	"github.com/seanseanwu5/internet/services"
	"github.com/seanseanwu5/internet/session"
	"github.com/seanseanwu5/internet/timer"
)

// 客户端须在两个心跳周期内至少来一帧，否则读超时断开
const heartbeatInterval = 30 * time.Second

type GameServer struct {
	cfg            *config.Config
	upgrader       websocket.Upgrader
	roomManager    *room.Manager
	sessionManager *session.Manager
	recordService  *services.RecordService
	broadcaster    broadcast.Broadcaster
	monitor        *monitor.Monitor
	timers         *timer.Manager
	rpcServer      *bingo_rpc.Server
	shutdownChan   chan struct{}
}

func NewGameServer(cfg *config.Config, archive persistence.Archive) *GameServer {
	s := &GameServer{
		cfg:            cfg,
		sessionManager: session.NewManager(),
		timers:         timer.NewManager(),
		monitor:        monitor.NewMonitor("bingo"),
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	// 初始化广播器
	s.broadcaster = broadcast.NewRoomBroadcaster(s.sessionManager, s.monitor)

	// 房间注册表: 回合定时与广播能力在这里注入
	s.roomManager = room.NewManager(room.Options{
		TurnTimeout: time.Duration(cfg.Game.TurnTimeoutSeconds) * time.Second,
		MinPlayers:  cfg.Game.MinPlayers,
		MinVotes:    cfg.Game.MinVotes,
	}, s.timers, s.broadcaster)

	s.recordService = services.NewRecordService(archive)

	// 初始化RPC服务器
	rpcServer, err := bingo_rpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer

	// 注册RPC服务
	adminService := bingo_rpc.NewAdminService(s.roomManager, s.sessionManager, s.recordService)
	rpc.Register(adminService)

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()
	s.monitor.StartServer(s.cfg.Server.MetricsAddress)

	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Game server listening on %s", s.cfg.Server.HTTPAddress)
	return http.ListenAndServe(s.cfg.Server.HTTPAddress, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.rpcServer.Stop()
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	wsConn.SetHeartbeat(heartbeatInterval)

	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	s.monitor.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer s.teardown(sess, wsConn)

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			packet, err := wsConn.ReadPacket()
			if err != nil {
				// 坏信封只打回去，连接本身还能用
				if errors.Is(err, network.ErrMalformedPacket) {
					s.sendError(sess, err)
					continue
				}
				return
			}
			s.handlePacket(sess, packet)
		}
	}
}

// teardown 统一处理连接退出: 摘会话、把玩家移出房间、
// 收尾存档、空房销毁。
func (s *GameServer) teardown(sess *session.Session, conn network.Connection) {
	logger.Log.Infof("Connection closed from %s, session ID: %s", conn.RemoteAddr(), sess.GetID())

	s.monitor.DecOnlinePlayers()
	username, roomID, bound := sess.Binding()
	s.sessionManager.Remove(sess.GetID())
	conn.Close()

	if !bound {
		return
	}

	if r, err := s.roomManager.Get(roomID); err == nil {
		effects, err := r.RemovePlayer(username)
		if err == nil {
			s.deliverEffects(sess, r, effects)
			s.maybeArchive(r)
		}
	}

	if s.roomManager.DestroyIfEmpty(roomID) {
		s.monitor.SetActiveRooms(s.roomManager.Count())
	}
}

func (s *GameServer) handlePacket(sess *session.Session, packet *network.Packet) {
	start := time.Now()
	s.monitor.IncEventsReceived()
	defer func() {
		s.monitor.ObserveEventLatency(time.Since(start))
	}()

	switch packet.Event {
	case network.EventPing:
		sess.Touch()
		sess.Send(network.EventPong, nil)
	case network.EventCreateRoom:
		s.handleCreateRoom(sess, packet)
	case network.EventJoinRoom:
		s.handleJoinRoom(sess, packet)
	case network.EventSubmitBoard:
		s.handleSubmitBoard(sess, packet)
	case network.EventStartGame:
		s.handleStartGame(sess)
	case network.EventNumberSelected:
		s.handleNumberSelected(sess, packet)
	case network.EventSendMessage:
		s.handleSendMessage(sess, packet)
	case network.EventRestartGame:
		s.handleRestartGame(sess)
	default:
		logger.Log.Infof("Unknown event type: %s", packet.Event)
	}
}

func (s *GameServer) handleCreateRoom(sess *session.Session, packet *network.Packet) {
	var req models.JoinRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		s.sendError(sess, network.ErrMalformedPacket)
		return
	}
	if req.Room == "" || req.Username == "" {
		s.sendErrorMessage(sess, "room and username are required")
		return
	}
	if _, _, bound := sess.Binding(); bound {
		s.sendErrorMessage(sess, "already in a room")
		return
	}

	for {
		r := s.roomManager.GetOrCreate(req.Room)
		effects, err := r.Join(req.Username)
		if err == room.ErrRoomClosed {
			// 注册表刚销毁了这个实例，重取一个新的
			continue
		}
		if err != nil {
			s.sendError(sess, err)
			return
		}

		sess.Bind(req.Username, req.Room)
		logger.Log.Infof("Session %s created room %s as %s", sess.GetID(), req.Room, req.Username)

		data, _ := json.Marshal(models.RoomCreated{Room: req.Room})
		sess.Send(network.EventRoomCreated, data)

		s.deliverEffects(sess, r, effects)
		s.monitor.SetActiveRooms(s.roomManager.Count())
		return
	}
}

func (s *GameServer) handleJoinRoom(sess *session.Session, packet *network.Packet) {
	var req models.JoinRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		s.sendError(sess, network.ErrMalformedPacket)
		return
	}
	if req.Room == "" || req.Username == "" {
		s.sendErrorMessage(sess, "room and username are required")
		return
	}
	if _, _, bound := sess.Binding(); bound {
		s.sendErrorMessage(sess, "already in a room")
		return
	}

	r, err := s.roomManager.Get(req.Room)
	if err != nil {
		s.sendError(sess, err)
		return
	}

	effects, err := r.Join(req.Username)
	if err == room.ErrRoomClosed {
		// 销毁中的房间对外等同于不存在
		s.sendError(sess, room.ErrRoomNotFound)
		return
	}
	if err != nil {
		s.sendError(sess, err)
		return
	}

	sess.Bind(req.Username, req.Room)
	logger.Log.Infof("Session %s joined room %s as %s", sess.GetID(), req.Room, req.Username)

	s.deliverEffects(sess, r, effects)
}

func (s *GameServer) handleSubmitBoard(sess *session.Session, packet *network.Packet) {
	r, username, ok := s.roomFor(sess)
	if !ok {
		return
	}

	var req models.SubmitBoardRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		s.sendError(sess, network.ErrMalformedPacket)
		return
	}

	effects, err := r.SubmitBoard(username, req.Board)
	if err != nil {
		s.sendError(sess, err)
		return
	}
	s.deliverEffects(sess, r, effects)
}

func (s *GameServer) handleStartGame(sess *session.Session) {
	r, username, ok := s.roomFor(sess)
	if !ok {
		return
	}

	effects, err := r.VoteStart(username)
	if err != nil {
		s.sendError(sess, err)
		return
	}
	s.deliverEffects(sess, r, effects)
}

func (s *GameServer) handleNumberSelected(sess *session.Session, packet *network.Packet) {
	r, username, ok := s.roomFor(sess)
	if !ok {
		return
	}

	var req models.NumberRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		s.sendError(sess, network.ErrMalformedPacket)
		return
	}

	effects, err := r.CallNumber(username, req.Number)
	if err != nil {
		s.sendError(sess, err)
		return
	}
	s.deliverEffects(sess, r, effects)
	s.maybeArchive(r)
}

func (s *GameServer) handleSendMessage(sess *session.Session, packet *network.Packet) {
	var req models.ChatRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		s.sendError(sess, network.ErrMalformedPacket)
		return
	}
	if req.Message == "" {
		return
	}

	username, roomID, bound := sess.Binding()
	if !bound {
		// 未入房的会话聊天对全服可见
		data, _ := json.Marshal(models.ChatMessage{Username: "anonymous", Message: req.Message})
		s.broadcaster.BroadcastToAll(network.EventNewMessage, data)
		return
	}

	r, err := s.roomManager.Get(roomID)
	if err != nil {
		s.sendError(sess, err)
		return
	}

	s.deliverEffects(sess, r, r.AppendChat(username, req.Message))
}

func (s *GameServer) handleRestartGame(sess *session.Session) {
	r, username, ok := s.roomFor(sess)
	if !ok {
		return
	}

	effects, err := r.Restart(username)
	if err != nil {
		s.sendError(sess, err)
		return
	}
	s.deliverEffects(sess, r, effects)
}

// roomFor 取回会话绑定的房间，未绑定或房间已没了就直接回错误
func (s *GameServer) roomFor(sess *session.Session) (*room.Room, string, bool) {
	username, roomID, bound := sess.Binding()
	if !bound {
		s.sendErrorMessage(sess, "not in a room")
		return nil, "", false
	}

	r, err := s.roomManager.Get(roomID)
	if err != nil {
		s.sendError(sess, err)
		return nil, "", false
	}

	return r, username, true
}

// deliverEffects 把房间操作产出的事件按作用域投递出去
func (s *GameServer) deliverEffects(sess *session.Session, r *room.Room, effects []room.Effect) {
	for _, effect := range effects {
		var data []byte
		if effect.Payload != nil {
			var err error
			data, err = json.Marshal(effect.Payload)
			if err != nil {
				logger.Log.Errorf("Failed to marshal %s payload: %v", effect.Event, err)
				continue
			}
		}

		switch effect.Scope {
		case room.ScopeCaller:
			sess.Send(effect.Event, data)
		case room.ScopeAll:
			s.broadcaster.BroadcastToAll(effect.Event, data)
		default:
			s.broadcaster.BroadcastToRoom(r.ID, effect.Event, data)
		}
	}
}

// maybeArchive 对局收尾后异步写存档
func (s *GameServer) maybeArchive(r *room.Room) {
	if record, ok := r.FinishedRecord(); ok {
		go s.recordService.RecordFinishedGame(record)
	}
}

func (s *GameServer) sendError(sess *session.Session, err error) {
	s.sendErrorMessage(sess, err.Error())
}

func (s *GameServer) sendErrorMessage(sess *session.Session, message string) {
	data, _ := json.Marshal(models.ErrorMessage{Message: message})
	sess.Send(network.EventError, data)
}
