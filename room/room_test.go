package room

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/partyroom/impostor/content"
	"github.com/partyroom/impostor/game"
	"github.com/partyroom/impostor/logger"
	"github.com/partyroom/impostor/network"
	"github.com/partyroom/impostor/state"
	"github.com/partyroom/impostor/timer"
)

func init() {
	logger.InitDevelopment()
}

// MockBroadcaster is a test double for the Broadcaster interface.
type MockBroadcaster struct {
	mutex     sync.Mutex
	envelopes []*network.Envelope
}

func (m *MockBroadcaster) BroadcastToRoom(roomCode string, env *network.Envelope) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.envelopes = append(m.envelopes, env)
	return nil
}

func (m *MockBroadcaster) count(msgType string) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	n := 0
	for _, env := range m.envelopes {
		if env.Type == msgType {
			n++
		}
	}
	return n
}

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct {
	mutex  sync.Mutex
	sent   []*network.Envelope
	closed bool
}

func (m *MockConnection) Send(env *network.Envelope) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sent = append(m.sent, env)
	return nil
}

func (m *MockConnection) ReadEnvelope() (*network.Envelope, error) {
	return nil, nil
}

func (m *MockConnection) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.closed = true
	return nil
}

func (m *MockConnection) RemoteAddr() net.Addr { return &net.TCPAddr{} }

func (m *MockConnection) isClosed() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.closed
}

func newTestRoom(t *testing.T, grace time.Duration) (*Room, *MockBroadcaster, *timer.Manager) {
	t.Helper()
	assigner := game.NewAssigner(content.NewLibrary(nil))
	timers := timer.NewManager()
	t.Cleanup(timers.Stop)
	broadcaster := &MockBroadcaster{}
	r := NewRoom("ROOM01", assigner, broadcaster, timers, grace, 8)
	t.Cleanup(r.Close)
	return r, broadcaster, timers
}

func join(t *testing.T, r *Room, uid, name string) *MockConnection {
	t.Helper()
	conn := &MockConnection{}
	if err := r.Join(uid, name, conn); err != nil {
		t.Fatalf("Join(%s) failed: %v", uid, err)
	}
	return conn
}

func snapshot(t *testing.T, r *Room) *playerState {
	t.Helper()
	snap, err := r.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	ps := &playerState{hostID: snap.HostID, status: snap.Status}
	for _, p := range snap.Players {
		ps.players = append(ps.players, p.UID)
		if p.Connected {
			ps.connected = append(ps.connected, p.UID)
		}
	}
	return ps
}

type playerState struct {
	hostID    string
	status    string
	players   []string
	connected []string
}

func TestRoom_FirstJoinerIsHost(t *testing.T) {
	r, _, _ := newTestRoom(t, time.Hour)

	join(t, r, "u1", "alice")
	join(t, r, "u2", "bob")

	snap := snapshot(t, r)
	if snap.hostID != "u1" {
		t.Errorf("Expected first joiner to be host, got %s", snap.hostID)
	}
	if len(snap.players) != 2 {
		t.Errorf("Expected 2 members, got %d", len(snap.players))
	}
	if snap.status != state.PhaseLobby {
		t.Errorf("Fresh room should be in the lobby, got %s", snap.status)
	}
}

func TestRoom_JoinIsIdempotentPerUID(t *testing.T) {
	r, _, _ := newTestRoom(t, time.Hour)

	old := join(t, r, "u1", "alice")
	fresh := join(t, r, "u1", "alice")

	snap := snapshot(t, r)
	if len(snap.players) != 1 {
		t.Fatalf("Rejoin must not duplicate membership, got %d members", len(snap.players))
	}
	if !old.isClosed() {
		t.Error("Rebinding should close the replaced socket")
	}
	if fresh.isClosed() {
		t.Error("The new socket must stay open")
	}

	// The rejoining socket gets the room state directly.
	fresh.mutex.Lock()
	gotUpdate := false
	for _, env := range fresh.sent {
		if env.Type == network.MsgRoomUpdate {
			gotUpdate = true
		}
	}
	fresh.mutex.Unlock()
	if !gotUpdate {
		t.Error("Rejoining socket should receive a room-update immediately")
	}
}

func TestRoom_Full(t *testing.T) {
	assigner := game.NewAssigner(content.NewLibrary(nil))
	timers := timer.NewManager()
	t.Cleanup(timers.Stop)
	r := NewRoom("ROOM02", assigner, &MockBroadcaster{}, timers, time.Hour, 2)
	t.Cleanup(r.Close)

	join(t, r, "u1", "a")
	join(t, r, "u2", "b")

	if err := r.Join("u3", "c", &MockConnection{}); err != ErrRoomFull {
		t.Errorf("Expected ErrRoomFull, got: %v", err)
	}
	// A rebind is still allowed at capacity.
	if err := r.Join("u2", "b", &MockConnection{}); err != nil {
		t.Errorf("Rebind at capacity failed: %v", err)
	}
}

func TestRoom_DisconnectKeepsMembership(t *testing.T) {
	r, _, _ := newTestRoom(t, time.Hour)
	join(t, r, "u1", "a")
	join(t, r, "u2", "b")

	r.Disconnect("u2")

	snap := snapshot(t, r)
	if len(snap.players) != 2 {
		t.Errorf("Disconnect must not remove membership, got %d members", len(snap.players))
	}
	if len(snap.connected) != 1 {
		t.Errorf("Expected 1 connected member, got %d", len(snap.connected))
	}
}

func TestRoom_HostMigrationOnDisconnect(t *testing.T) {
	r, broadcaster, _ := newTestRoom(t, time.Hour)
	join(t, r, "u1", "a")
	join(t, r, "u2", "b")
	join(t, r, "u3", "c")

	r.Disconnect("u1")

	snap := snapshot(t, r)
	if snap.hostID != "u2" {
		t.Errorf("Expected host to migrate to the next joiner u2, got %s", snap.hostID)
	}
	if broadcaster.count(network.MsgHostChanged) != 1 {
		t.Errorf("Expected exactly one host-changed broadcast, got %d", broadcaster.count(network.MsgHostChanged))
	}
}

func TestRoom_HostMigrationSkipsDisconnected(t *testing.T) {
	r, _, _ := newTestRoom(t, time.Hour)
	join(t, r, "u1", "a")
	join(t, r, "u2", "b")
	join(t, r, "u3", "c")

	r.Disconnect("u2")
	r.Disconnect("u1")

	snap := snapshot(t, r)
	if snap.hostID != "u3" {
		t.Errorf("Expected host u3, got %s", snap.hostID)
	}
}

func TestRoom_LastHostKeepsRoleWhileDisconnected(t *testing.T) {
	r, _, _ := newTestRoom(t, time.Hour)
	join(t, r, "u1", "a")

	r.Disconnect("u1")

	snap := snapshot(t, r)
	if snap.hostID != "u1" {
		t.Errorf("A fully disconnected room must keep its host, got %q", snap.hostID)
	}
}

func TestRoom_ReconnectWithinGrace(t *testing.T) {
	r, _, _ := newTestRoom(t, time.Hour)
	join(t, r, "u1", "a")
	join(t, r, "u2", "b")

	r.Disconnect("u2")
	join(t, r, "u2", "b")

	snap := snapshot(t, r)
	if len(snap.connected) != 2 {
		t.Errorf("Expected both members connected after rejoin, got %d", len(snap.connected))
	}
	if len(snap.players) != 2 {
		t.Errorf("Rejoin must not duplicate membership, got %d", len(snap.players))
	}
}

func TestRoom_GraceExpiryRemovesPlayer(t *testing.T) {
	r, _, _ := newTestRoom(t, 50*time.Millisecond)
	join(t, r, "u1", "a")
	join(t, r, "u2", "b")

	r.Disconnect("u2")

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if r.MemberCount() == 1 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if got := r.MemberCount(); got != 1 {
		t.Fatalf("Expected the grace window to remove the player, still %d members", got)
	}
}

func TestRoom_StaleSocketTeardownDoesNotDisconnectReboundPlayer(t *testing.T) {
	r, _, _ := newTestRoom(t, time.Hour)
	old := join(t, r, "u1", "a")
	join(t, r, "u1", "a")

	// The replaced socket's read loop tears down afterwards.
	r.DisconnectConn("u1", old)

	snap := snapshot(t, r)
	if len(snap.connected) != 1 {
		t.Errorf("Stale teardown must not disconnect the rebound player, connected=%d", len(snap.connected))
	}
}

func TestRoom_KickRemovesImmediately(t *testing.T) {
	r, _, _ := newTestRoom(t, time.Hour)
	host := "u1"
	join(t, r, host, "a")
	conn := join(t, r, "u2", "b")
	join(t, r, "u3", "c")

	err := r.HandleAction(host, &state.Action{Type: network.MsgKick, Data: []byte(`{"targetId":"u2"}`)})
	if err != nil {
		t.Fatalf("kick failed: %v", err)
	}

	snap := snapshot(t, r)
	if len(snap.players) != 2 {
		t.Errorf("Kick must remove the member at once, got %d members", len(snap.players))
	}
	if !conn.isClosed() {
		t.Error("Kicked player's socket should be closed")
	}
	conn.mutex.Lock()
	gotKicked := false
	for _, env := range conn.sent {
		if env.Type == network.MsgKicked {
			gotKicked = true
		}
	}
	conn.mutex.Unlock()
	if !gotKicked {
		t.Error("Kicked player should be told why their socket closed")
	}
}

func TestRoom_LeaveIsImmediate(t *testing.T) {
	r, _, _ := newTestRoom(t, time.Hour)
	join(t, r, "u1", "a")
	join(t, r, "u2", "b")

	r.Leave("u2")

	snap := snapshot(t, r)
	if len(snap.players) != 1 {
		t.Errorf("Voluntary leave must not wait for a grace window, got %d members", len(snap.players))
	}
}

func TestRoom_DepartureCompletesVote(t *testing.T) {
	r, _, _ := newTestRoom(t, time.Hour)
	join(t, r, "u1", "a")
	join(t, r, "u2", "b")
	join(t, r, "u3", "c")
	join(t, r, "u4", "d")

	start := &state.Action{Type: network.MsgStartGame, Data: []byte(`{"mode":"word","config":{"impostors":1}}`)}
	if err := r.HandleAction("u1", start); err != nil {
		t.Fatalf("start-game failed: %v", err)
	}
	if err := r.HandleAction("u1", &state.Action{Type: network.MsgStartVoting}); err != nil {
		t.Fatalf("start-voting failed: %v", err)
	}

	vote := func(uid string) {
		t.Helper()
		action := &state.Action{Type: network.MsgSubmitVote, Data: []byte(`{"targetId":"u1"}`)}
		if err := r.HandleAction(uid, action); err != nil {
			t.Fatalf("vote from %s failed: %v", uid, err)
		}
	}
	vote("u1")
	vote("u2")
	vote("u3")

	// The last holdout leaves; the vote is now complete and must resolve.
	r.Leave("u4")

	snap := snapshot(t, r)
	if snap.status != state.PhaseReveal {
		t.Errorf("Departure of the last unvoted player should trigger the reveal, got %s", snap.status)
	}
}

func TestRoom_HandleActionUnknownPlayer(t *testing.T) {
	r, _, _ := newTestRoom(t, time.Hour)
	join(t, r, "u1", "a")

	err := r.HandleAction("ghost", &state.Action{Type: network.MsgStartVoting})
	if err != ErrPlayerNotFound {
		t.Errorf("Expected ErrPlayerNotFound, got: %v", err)
	}
}

func TestRoom_ClosedRoomRejectsJoin(t *testing.T) {
	r, _, _ := newTestRoom(t, time.Hour)
	r.Close()

	if err := r.Join("u1", "a", &MockConnection{}); err != ErrRoomClosed {
		t.Errorf("Expected ErrRoomClosed, got: %v", err)
	}
}
