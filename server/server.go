package server

import (
	"encoding/json"
	"net/http"
	stdrpc "net/rpc"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/partyroom/impostor/analytics"
	"github.com/partyroom/impostor/broadcast"
	"github.com/partyroom/impostor/config"
	"github.com/partyroom/impostor/content"
	"github.com/partyroom/impostor/logger"
	"github.com/partyroom/impostor/models"
	"github.com/partyroom/impostor/monitor"
	"github.com/partyroom/impostor/network"
	"github.com/partyroom/impostor/room"
	impostor_rpc "github.com/partyroom/impostor/rpc"
	"github.com/partyroom/impostor/rtc"
	"github.com/partyroom/impostor/session"
	"github.com/partyroom/impostor/state"
	"github.com/partyroom/impostor/timer"
)

// GameServer ties the room orchestrator to its transports: the gin REST
// surface, the /ws websocket endpoint and the ops RPC listener.
type GameServer struct {
	addr           string
	engine         *gin.Engine
	upgrader       websocket.Upgrader
	roomManager    *room.Manager
	sessionManager *session.Manager
	broadcaster    *broadcast.RoomBroadcaster
	collector      *analytics.Collector
	tokens         *rtc.TokenIssuer
	mon            *monitor.Monitor
	store          content.Store
	heartbeat      time.Duration
	rpcServer      *impostor_rpc.Server
}

func NewGameServer(cfg *config.Config, roomManager *room.Manager, store content.Store, timers *timer.Manager) *GameServer {
	s := &GameServer{
		addr:           cfg.Server.HTTPAddress,
		engine:         gin.Default(),
		roomManager:    roomManager,
		sessionManager: session.NewManager(),
		collector:      analytics.NewCollector(cfg.Analytics.Endpoint),
		tokens:         rtc.NewTokenIssuer(cfg.RTC.AppID, cfg.RTC.Secret, cfg.RTC.TokenTTL),
		mon:            monitor.NewMonitor("partyroom"),
		store:          store,
		heartbeat:      cfg.Room.Heartbeat,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	s.broadcaster = broadcast.NewRoomBroadcaster(roomManager, s.sessionManager)

	rpcServer, err := impostor_rpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer
	stdrpc.Register(impostor_rpc.NewOpsService(roomManager, s.sessionManager))

	// The rooms gauge is polled, not event-driven; the timer wheel already
	// runs for grace windows.
	timers.AddTimer(15*time.Second, 15*time.Second, func() {
		s.mon.SetActiveRooms(roomManager.Count())
	})

	s.mon.StartServer(cfg.Server.MetricsAddress)
	s.setupRoutes()
	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()
	s.roomManager.StartSweeper()
	logger.Log.Infof("Game server listening on %s", s.addr)
	return s.engine.Run(s.addr)
}

func (s *GameServer) Shutdown() {
	s.broadcaster.BroadcastToAll(network.NewEnvelope(network.MsgError, models.ErrorResponse{Error: "server shutting down"}))
	s.rpcServer.Stop()
	s.collector.Close()
	s.roomManager.Stop()
}

func (s *GameServer) setupRoutes() {
	api := s.engine.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	rooms := api.Group("/rooms")
	{
		rooms.POST("", s.handleCreateRoom)
		rooms.GET("/:code", s.handleGetRoom)
		rooms.POST("/:code/join", s.handleJoinRoom)
		rooms.POST("/:code/start", s.handleStartGame)
		rooms.POST("/:code/vote", s.handleVote)
		rooms.POST("/:code/speaking-order", s.handleHostAction(network.MsgTriggerOrder))
		rooms.POST("/:code/start-voting", s.handleHostAction(network.MsgStartVoting))
		rooms.POST("/:code/reveal", s.handleHostAction(network.MsgRevealImpostor))
		rooms.POST("/:code/new-round", s.handleHostAction(network.MsgNewRound))
		rooms.POST("/:code/reset", s.handleHostAction(network.MsgReset))
		rooms.POST("/:code/start-drawing", s.handleHostAction(network.MsgStartDrawing))
		rooms.POST("/:code/go-to-discussion", s.handleHostAction(network.MsgGoToDiscussion))
	}

	api.GET("/rtc/token", s.handleRTCToken)
	api.POST("/themes", s.handleSaveTheme)

	s.engine.GET("/ws", s.handleWebSocket)
}

// --- websocket path ---

func (s *GameServer) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(wsConn *websocket.Conn) {
	conn := network.NewWSConnection(wsConn, s.heartbeat)
	sess := session.NewSession(uuid.New().String(), conn)
	s.sessionManager.Add(sess)
	s.mon.IncConnectedPlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", conn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", conn.RemoteAddr(), sess.GetID())
		s.sessionManager.Remove(sess.GetID())
		s.mon.DecConnectedPlayers()
		if uid, roomCode := sess.Bound(); uid != "" {
			if r, exists := s.roomManager.Get(roomCode); exists {
				r.DisconnectConn(uid, conn)
			}
		}
		conn.Close()
	}()

	for {
		env, err := conn.ReadEnvelope()
		if err != nil {
			return
		}
		sess.Touch()
		s.mon.IncMessagesReceived()
		s.handleEnvelope(sess, conn, env)
	}
}

func (s *GameServer) handleEnvelope(sess *session.Session, conn network.Connection, env *network.Envelope) {
	switch env.Type {
	case network.MsgJoinRoom:
		var payload models.JoinRoomPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			s.sendError(conn, "malformed join-room payload")
			return
		}
		r, exists := s.roomManager.Get(payload.RoomCode)
		if !exists {
			s.sendError(conn, "room not found")
			return
		}
		if err := r.Join(payload.PlayerID, payload.Name, conn); err != nil {
			s.sendError(conn, err.Error())
			return
		}
		sess.Bind(payload.PlayerID, r.Code)

	case network.MsgLeave:
		uid, roomCode := sess.Bound()
		if uid == "" {
			return
		}
		if r, exists := s.roomManager.Get(roomCode); exists {
			r.Leave(uid)
		}

	default:
		uid, roomCode := sess.Bound()
		if uid == "" {
			s.sendError(conn, "join a room first")
			return
		}
		r, exists := s.roomManager.Get(roomCode)
		if !exists {
			s.sendError(conn, "room not found")
			return
		}

		start := time.Now()
		err := r.HandleAction(uid, &state.Action{Type: env.Type, Data: env.Data})
		s.mon.ObserveActionLatency(time.Since(start))
		if err != nil {
			// Rejected actions are intentionally not broadcast; the room
			// already logged the reason.
			return
		}
		if env.Type == network.MsgStartGame {
			s.reportGameStarted(r.Code, env.Data)
		}
	}
}

func (s *GameServer) reportGameStarted(roomCode string, data json.RawMessage) {
	var payload models.StartGamePayload
	if err := json.Unmarshal(data, &payload); err == nil {
		s.collector.GameStarted(roomCode, string(payload.Mode))
	}
}

func (s *GameServer) sendError(conn network.Connection, message string) {
	conn.Send(network.NewEnvelope(network.MsgError, models.ErrorResponse{Error: message}))
}
