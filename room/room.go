// room/room.go
package room

import (
	"errors"
	"sync"
	"time"

	"github.com/partyroom/impostor/game"
	"github.com/partyroom/impostor/logger"
	"github.com/partyroom/impostor/models"
	"github.com/partyroom/impostor/network"
	"github.com/partyroom/impostor/state"
	"github.com/partyroom/impostor/timer"
)

var (
	ErrRoomClosed     = errors.New("room closed")
	ErrRoomFull       = errors.New("room is full")
	ErrPlayerNotFound = errors.New("player not found in room")
)

// Player is one room member. Membership is keyed by the client-generated
// uid and outlives the socket: Connected flags transient socket loss while
// the player's role and vote state stay put for the grace window.
type Player struct {
	UID       string
	Name      string
	Connected bool
	Conn      network.Connection
	JoinedAt  time.Time

	removalTimer int64 // pending grace-expiry task, 0 when none
}

func (p *Player) GetID() string     { return p.UID }
func (p *Player) GetName() string   { return p.Name }
func (p *Player) IsConnected() bool { return p.Connected }

// Room is the aggregate root. Every mutation runs on the room's own action
// loop, one at a time, so the game logic needs no internal locking; the
// playerMutex exists only for readers outside the loop (broadcast fan-out,
// registry sweeps).
type Room struct {
	Code      string
	CreatedAt time.Time

	hostID  string
	players []*Player // join order
	index   map[string]*Player
	round   *game.Round
	machine state.StateMachine

	assigner       *game.Assigner
	broadcaster    Broadcaster
	timers         *timer.Manager
	reconnectGrace time.Duration
	maxPlayers     int

	playerMutex sync.RWMutex
	actions     chan func()
	closeChan   chan struct{}
	closeOnce   sync.Once
	emptySince  time.Time
}

func NewRoom(code string, assigner *game.Assigner, broadcaster Broadcaster, timers *timer.Manager, reconnectGrace time.Duration, maxPlayers int) *Room {
	r := &Room{
		Code:           code,
		CreatedAt:      time.Now(),
		index:          make(map[string]*Player),
		assigner:       assigner,
		broadcaster:    broadcaster,
		timers:         timers,
		reconnectGrace: reconnectGrace,
		maxPlayers:     maxPlayers,
		actions:        make(chan func(), 64),
		closeChan:      make(chan struct{}),
		emptySince:     time.Now(),
	}

	machine := state.NewBaseStateMachine(state.NewLobbyState(r))
	state.RegisterTransitions(machine)
	r.machine = machine

	go r.loop()
	return r
}

func (r *Room) loop() {
	for {
		select {
		case fn := <-r.actions:
			fn()
		case <-r.closeChan:
			return
		}
	}
}

// Do enqueues a mutation onto the room's action loop.
func (r *Room) Do(fn func()) {
	select {
	case r.actions <- fn:
	case <-r.closeChan:
	}
}

// DoSync runs fn on the action loop and waits for it.
func (r *Room) DoSync(fn func()) error {
	done := make(chan struct{})
	select {
	case r.actions <- func() {
		fn()
		close(done)
	}:
	case <-r.closeChan:
		return ErrRoomClosed
	}

	select {
	case <-done:
		return nil
	case <-r.closeChan:
		return ErrRoomClosed
	}
}

// Close stops the action loop. Pending actions are dropped.
func (r *Room) Close() {
	r.closeOnce.Do(func() {
		close(r.closeChan)
	})
}

// --- state.RoomContext ---

func (r *Room) GetCode() string { return r.Code }

func (r *Room) HostID() string { return r.hostID }

func (r *Room) ActiveIDs() []string {
	ids := make([]string, 0, len(r.players))
	for _, p := range r.players {
		if p.Connected {
			ids = append(ids, p.UID)
		}
	}
	return ids
}

func (r *Room) ActiveSet() map[string]bool {
	set := make(map[string]bool, len(r.players))
	for _, p := range r.players {
		if p.Connected {
			set[p.UID] = true
		}
	}
	return set
}

func (r *Room) Round() *game.Round { return r.round }

func (r *Room) SetRound(round *game.Round) { r.round = round }

func (r *Room) Assigner() *game.Assigner { return r.assigner }

func (r *Room) ChangeState(newState state.State) error {
	return r.machine.ChangeState(newState)
}

func (r *Room) Broadcast(env *network.Envelope) {
	if err := r.broadcaster.BroadcastToRoom(r.Code, env); err != nil {
		logger.Log.Warnf("room %s broadcast failed: %v", r.Code, err)
	}
}

func (r *Room) BroadcastSnapshot() {
	r.Broadcast(network.NewEnvelope(network.MsgRoomUpdate, r.snapshot()))
}

// KickPlayer ejects a member: they get a kicked notice, their socket is
// closed and they are removed immediately with no grace window.
func (r *Room) KickPlayer(targetID string) error {
	p, exists := r.index[targetID]
	if !exists {
		return ErrPlayerNotFound
	}
	if p.Conn != nil {
		p.Conn.Send(network.NewEnvelope(network.MsgKicked, nil))
		p.Conn.Close()
	}
	r.removePlayer(targetID)
	r.BroadcastSnapshot()
	return nil
}

// --- membership (all called on the action loop) ---

// Join adds a member or rebinds an existing one to a new socket. Rebinding
// closes the old socket first, which is what makes reconnect idempotent:
// one live socket per player, no duplicate membership. conn may be nil for
// REST-created members who have not opened their websocket yet.
func (r *Room) Join(uid, name string, conn network.Connection) error {
	var joinErr error
	if err := r.DoSync(func() {
		joinErr = r.join(uid, name, conn)
	}); err != nil {
		return err
	}
	return joinErr
}

func (r *Room) join(uid, name string, conn network.Connection) error {
	if p, exists := r.index[uid]; exists {
		r.rebind(p, name, conn)
		return nil
	}

	if len(r.players) >= r.maxPlayers {
		return ErrRoomFull
	}

	p := &Player{
		UID:       uid,
		Name:      name,
		Connected: conn != nil,
		Conn:      conn,
		JoinedAt:  time.Now(),
	}

	r.playerMutex.Lock()
	r.players = append(r.players, p)
	r.index[uid] = p
	r.playerMutex.Unlock()

	if r.hostID == "" {
		r.hostID = uid
	}
	if conn == nil {
		// A REST-created member who never opens a socket must not linger.
		r.scheduleRemoval(p)
	}

	r.Broadcast(network.NewEnvelope(network.MsgPlayerJoined, models.PlayerEvent{PlayerName: p.Name}))
	r.BroadcastSnapshot()
	return nil
}

func (r *Room) rebind(p *Player, name string, conn network.Connection) {
	if p.Conn != nil && p.Conn != conn {
		p.Conn.Close()
	}
	p.Conn = conn
	if conn != nil {
		p.Connected = true
		r.cancelRemoval(p)
		// A rejoining socket needs the current truth immediately, before
		// the next room-wide broadcast.
		conn.Send(network.NewEnvelope(network.MsgRoomUpdate, r.snapshot()))
	}
	if name != "" {
		p.Name = name
	}
	if r.hostID == "" {
		r.hostID = p.UID
	}
	r.BroadcastSnapshot()
}

// Disconnect marks a member's socket as gone. Membership, votes and drawer
// turns survive until the grace window expires; only the host role moves
// immediately.
func (r *Room) Disconnect(uid string) {
	r.DisconnectConn(uid, nil)
}

// DisconnectConn is Disconnect scoped to one specific socket: when a
// reconnect has already rebound the player to a new socket, the teardown
// of the replaced socket must not mark them disconnected.
func (r *Room) DisconnectConn(uid string, conn network.Connection) {
	r.Do(func() {
		p, exists := r.index[uid]
		if !exists || !p.Connected {
			return
		}
		if conn != nil && p.Conn != conn {
			return
		}
		p.Connected = false
		p.Conn = nil

		if r.hostID == uid {
			r.migrateHost()
		}
		r.scheduleRemoval(p)
		r.BroadcastSnapshot()
	})
}

// Leave is a voluntary exit: no grace window.
func (r *Room) Leave(uid string) {
	r.Do(func() {
		if p, exists := r.index[uid]; exists {
			if p.Conn != nil {
				p.Conn.Close()
			}
			r.removePlayer(uid)
			r.BroadcastSnapshot()
		}
	})
}

// HandleAction routes one inbound client message into the current phase.
// Illegal actions are logged and dropped without a broadcast so a stale
// client cannot corrupt shared state.
func (r *Room) HandleAction(uid string, action *state.Action) error {
	var actionErr error
	err := r.DoSync(func() {
		p, exists := r.index[uid]
		if !exists {
			actionErr = ErrPlayerNotFound
			return
		}
		if err := r.machine.GetCurrentState().HandleAction(p, action); err != nil {
			logger.Log.Debugf("room %s rejected %s from %s: %v", r.Code, action.Type, uid, err)
			actionErr = err
		}
	})
	if err != nil {
		return err
	}
	return actionErr
}

// Status returns the current phase id.
func (r *Room) Status() string {
	return r.machine.GetCurrentState().GetID()
}

// Snapshot builds the full client-visible room state.
func (r *Room) Snapshot() (*models.RoomSnapshot, error) {
	var snap *models.RoomSnapshot
	if err := r.DoSync(func() {
		snap = r.snapshot()
	}); err != nil {
		return nil, err
	}
	return snap, nil
}

func (r *Room) snapshot() *models.RoomSnapshot {
	snap := &models.RoomSnapshot{
		Code:      r.Code,
		HostID:    r.hostID,
		Status:    r.Status(),
		Players:   make([]models.PlayerView, 0, len(r.players)),
		GameData:  r.round,
		CreatedAt: r.CreatedAt,
	}
	if r.round != nil {
		snap.GameMode = r.round.Mode
	}
	for _, p := range r.players {
		snap.Players = append(snap.Players, models.PlayerView{
			UID:       p.UID,
			Name:      p.Name,
			Connected: p.Connected,
			IsHost:    p.UID == r.hostID,
		})
	}
	return snap
}

// Connections returns the live sockets for broadcast fan-out. Safe to call
// from outside the action loop.
func (r *Room) Connections() []network.Connection {
	r.playerMutex.RLock()
	defer r.playerMutex.RUnlock()

	conns := make([]network.Connection, 0, len(r.players))
	for _, p := range r.players {
		if p.Connected && p.Conn != nil {
			conns = append(conns, p.Conn)
		}
	}
	return conns
}

// ConnectedCount is safe outside the action loop.
func (r *Room) ConnectedCount() int {
	r.playerMutex.RLock()
	defer r.playerMutex.RUnlock()

	count := 0
	for _, p := range r.players {
		if p.Connected {
			count++
		}
	}
	return count
}

// MemberCount is safe outside the action loop.
func (r *Room) MemberCount() int {
	r.playerMutex.RLock()
	defer r.playerMutex.RUnlock()
	return len(r.players)
}

// --- internals (action loop only) ---

func (r *Room) scheduleRemoval(p *Player) {
	r.cancelRemoval(p)
	uid := p.UID
	p.removalTimer = r.timers.AddTimer(r.reconnectGrace, 0, func() {
		r.Do(func() {
			r.expirePlayer(uid)
		})
	})
}

func (r *Room) cancelRemoval(p *Player) {
	if p.removalTimer != 0 {
		r.timers.RemoveTimer(p.removalTimer)
		p.removalTimer = 0
	}
}

func (r *Room) expirePlayer(uid string) {
	p, exists := r.index[uid]
	if !exists || p.Connected {
		return
	}
	logger.Log.Infof("room %s: player %s grace window expired", r.Code, uid)
	r.removePlayer(uid)
	r.BroadcastSnapshot()
}

// removePlayer finalizes a departure: membership, round state and host role
// are repaired in one step.
func (r *Room) removePlayer(uid string) {
	p, exists := r.index[uid]
	if !exists {
		return
	}
	r.cancelRemoval(p)

	r.playerMutex.Lock()
	delete(r.index, uid)
	for i, member := range r.players {
		if member.UID == uid {
			r.players = append(r.players[:i], r.players[i+1:]...)
			break
		}
	}
	empty := len(r.players) == 0
	r.playerMutex.Unlock()

	if empty {
		r.hostID = ""
		r.emptySince = time.Now()
	} else if r.hostID == uid {
		r.migrateHost()
	}

	if r.round != nil {
		r.round.RemovePlayer(uid)
		r.repairBoard(uid)
		r.repairVoting()
	}

	r.Broadcast(network.NewEnvelope(network.MsgPlayerLeft, models.PlayerEvent{PlayerName: p.Name}))
}

// repairBoard force-advances the drawing cursor when the departed player
// was the active drawer.
func (r *Room) repairBoard(uid string) {
	board := r.round.Board
	if board == nil || r.Status() != state.PhaseDrawing {
		if board != nil {
			board.RemovePlayer(uid)
		}
		return
	}

	wasDrawer := board.DrawerID() == uid
	finished := board.RemovePlayer(uid)
	if !wasDrawer {
		return
	}
	if finished {
		if err := r.ChangeState(state.NewRoundEndState(r)); err == nil {
			r.Broadcast(network.NewEnvelope(network.MsgDrawingRoundEnd, nil))
		}
		return
	}
	r.Broadcast(network.NewEnvelope(network.MsgDrawingTurnStart, map[string]string{
		"drawerId":       board.DrawerID(),
		"canvasSnapshot": board.Snapshot,
	}))
}

// repairVoting closes out the vote if the departure made it complete.
func (r *Room) repairVoting() {
	if r.Status() != state.PhaseVoting {
		return
	}
	active := r.ActiveSet()
	if len(active) == 0 || !r.round.VotesComplete(active) {
		return
	}
	r.round.Resolve(active)
	if err := r.ChangeState(state.NewRevealState(r)); err != nil {
		logger.Log.Warnf("room %s: reveal after departure failed: %v", r.Code, err)
	}
}

// migrateHost hands the host role to the next connected player in join
// order. Deterministic, so clients that mirror the rule for display agree
// with the server's authoritative pick.
func (r *Room) migrateHost() {
	for _, p := range r.players {
		if p.Connected {
			if r.hostID != p.UID {
				r.hostID = p.UID
				r.Broadcast(network.NewEnvelope(network.MsgHostChanged, models.HostChangedEvent{NewHostName: p.Name}))
				logger.Log.Infof("room %s: host migrated to %s", r.Code, p.UID)
			}
			return
		}
	}
	// Nobody connected: the disconnected host keeps the role so invariant
	// "host is a member" holds until the grace sweep empties the room.
}

// expired reports whether the registry sweep should tear the room down.
// Called on the action loop via Do from the sweeper.
func (r *Room) expired(emptyGrace, idleTTL time.Duration) bool {
	now := time.Now()
	if len(r.players) == 0 && now.Sub(r.emptySince) > emptyGrace {
		return true
	}
	if r.ConnectedCount() == 0 && now.Sub(r.CreatedAt) > idleTTL {
		return true
	}
	return false
}
