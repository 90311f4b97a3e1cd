package rpc

import (
	"net"
	"net/rpc"
	"time"

	"github.com/seanseanwu5/internet/logger"
	"github.com/seanseanwu5/internet/models"
	"github.com/seanseanwu5/internet/room"
	"github.com/seanseanwu5/internet/services"
	"github.com/seanseanwu5/internet/session"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server. Services are registered by the
// caller through net/rpc before Start is invoked.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if the error is due to the listener being closed.
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// AdminService exposes operational queries over net/rpc.
type AdminService struct {
	roomManager    *room.Manager
	sessionManager *session.Manager
	recordService  *services.RecordService
	startTime      time.Time
}

// NewAdminService creates a new AdminService.
func NewAdminService(rooms *room.Manager, sessions *session.Manager, records *services.RecordService) *AdminService {
	return &AdminService{
		roomManager:    rooms,
		sessionManager: sessions,
		recordService:  records,
		startTime:      time.Now(),
	}
}

type StatsArgs struct{}

type StatsReply struct {
	Rooms         int
	Sessions      int
	UptimeSeconds int64
}

// Stats reports server-wide counters.
func (as *AdminService) Stats(args *StatsArgs, reply *StatsReply) error {
	reply.Rooms = as.roomManager.Count()
	reply.Sessions = as.sessionManager.Count()
	reply.UptimeSeconds = int64(time.Since(as.startTime).Seconds())
	return nil
}

type RoomsArgs struct{}

type RoomsReply struct {
	Rooms []room.Snapshot
}

// Rooms lists a snapshot of every live room.
func (as *AdminService) Rooms(args *RoomsArgs, reply *RoomsReply) error {
	reply.Rooms = as.roomManager.Snapshots()
	return nil
}

type PlayerStatsArgs struct {
	Username string
}

type PlayerStatsReply struct {
	Stats *models.PlayerStats
}

// PlayerStats looks up a player's archived record.
func (as *AdminService) PlayerStats(args *PlayerStatsArgs, reply *PlayerStatsReply) error {
	stats, err := as.recordService.PlayerStats(args.Username)
	if err != nil {
		return err
	}
	reply.Stats = stats
	return nil
}
