package rpc

import (
	"errors"
	"net"
	"net/rpc"

	"github.com/partyroom/impostor/logger"
	"github.com/partyroom/impostor/room"
	"github.com/partyroom/impostor/session"
)

var ErrRoomNotFound = errors.New("room not found")

// Server manages the ops RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

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

// OpsService exposes orchestrator introspection over net/rpc, for health
// dashboards and on-call poking. Methods follow the net/rpc signature:
// exported method, exported args, pointer reply, error return.
type OpsService struct {
	rooms    *room.Manager
	sessions *session.Manager
}

func NewOpsService(rooms *room.Manager, sessions *session.Manager) *OpsService {
	return &OpsService{rooms: rooms, sessions: sessions}
}

type StatsArgs struct{}

type StatsReply struct {
	Rooms            int
	Sessions         int
	ConnectedPlayers int
}

func (o *OpsService) Stats(args *StatsArgs, reply *StatsReply) error {
	reply.Rooms = o.rooms.Count()
	reply.Sessions = o.sessions.Count()
	reply.ConnectedPlayers = o.rooms.ConnectedPlayers()
	return nil
}

type RoomSummaryArgs struct {
	Code string
}

type RoomSummaryReply struct {
	Code    string
	Status  string
	Mode    string
	Members int
	Online  int
}

func (o *OpsService) RoomSummary(args *RoomSummaryArgs, reply *RoomSummaryReply) error {
	r, exists := o.rooms.Get(args.Code)
	if !exists {
		return ErrRoomNotFound
	}
	snap, err := r.Snapshot()
	if err != nil {
		return err
	}
	reply.Code = snap.Code
	reply.Status = snap.Status
	reply.Mode = string(snap.GameMode)
	reply.Members = r.MemberCount()
	reply.Online = r.ConnectedCount()
	return nil
}
