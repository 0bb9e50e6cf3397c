package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/partyroom/impostor/content"
	"github.com/partyroom/impostor/game"
	"github.com/partyroom/impostor/models"
	"github.com/partyroom/impostor/network"
	"github.com/partyroom/impostor/room"
	"github.com/partyroom/impostor/rtc"
	"github.com/partyroom/impostor/state"
)

// REST handlers are thin wrappers over the same state machine the
// websocket path drives: one request, one room mutation, snapshot back.

func (s *GameServer) handleCreateRoom(c *gin.Context) {
	var req models.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	r, err := s.roomManager.Create(s.broadcaster)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: err.Error()})
		return
	}
	if err := r.Join(req.PlayerID, req.Name, nil); err != nil {
		s.roomManager.Remove(r.Code)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	s.collector.RoomCreated(r.Code)
	s.respondSnapshot(c, http.StatusCreated, r)
}

func (s *GameServer) handleGetRoom(c *gin.Context) {
	r, exists := s.roomManager.Get(c.Param("code"))
	if !exists {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "room not found"})
		return
	}
	s.respondSnapshot(c, http.StatusOK, r)
}

func (s *GameServer) handleJoinRoom(c *gin.Context) {
	var req models.JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	r, exists := s.roomManager.Get(c.Param("code"))
	if !exists {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "room not found"})
		return
	}
	if err := r.Join(req.PlayerID, req.Name, nil); err != nil {
		s.respondError(c, err)
		return
	}
	s.respondSnapshot(c, http.StatusOK, r)
}

func (s *GameServer) handleStartGame(c *gin.Context) {
	var req models.StartGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	payload := models.StartGamePayload{Mode: req.Mode, Config: req.Config}
	r := s.dispatch(c, req.PlayerID, network.MsgStartGame, payload)
	if r != nil {
		s.collector.GameStarted(r.Code, string(req.Mode))
	}
}

func (s *GameServer) handleVote(c *gin.Context) {
	var req models.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	s.dispatch(c, req.PlayerID, network.MsgSubmitVote, models.VotePayload{TargetID: req.TargetID})
}

// handleHostAction covers every payload-less host action: reveal,
// new-round, reset, speaking order and the drawing-mode phase moves.
func (s *GameServer) handleHostAction(actionType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.PlayerActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
			return
		}
		s.dispatch(c, req.PlayerID, actionType, nil)
	}
}

// dispatch routes one REST-borne action into the room's action loop and
// answers with the resulting snapshot. Returns the room on success so
// callers can chain side effects, nil otherwise.
func (s *GameServer) dispatch(c *gin.Context, playerID, actionType string, payload interface{}) *room.Room {
	r, exists := s.roomManager.Get(c.Param("code"))
	if !exists {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "room not found"})
		return nil
	}

	action := &state.Action{Type: actionType}
	if payload != nil {
		env := network.NewEnvelope(actionType, payload)
		action.Data = env.Data
	}

	start := time.Now()
	err := r.HandleAction(playerID, action)
	s.mon.IncMessagesReceived()
	s.mon.ObserveActionLatency(time.Since(start))
	if err != nil {
		s.respondError(c, err)
		return nil
	}

	s.respondSnapshot(c, http.StatusOK, r)
	return r
}

func (s *GameServer) respondSnapshot(c *gin.Context, status int, r *room.Room) {
	snap, err := r.Snapshot()
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "room closed"})
		return
	}
	c.JSON(status, snap)
}

func (s *GameServer) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, game.ErrUnknownMode),
		errors.Is(err, game.ErrNotEnoughPlayers),
		errors.Is(err, game.ErrTooManyImpostors),
		errors.Is(err, game.ErrUnevenFactions),
		errors.Is(err, game.ErrVoteNotAllowed),
		errors.Is(err, game.ErrInvalidVoteTarget),
		errors.Is(err, content.ErrThemeNotFound),
		errors.Is(err, content.ErrEmptyTheme):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, state.ErrNotHost):
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, state.ErrIllegalAction),
		errors.Is(err, state.ErrTransitionNotAllowed),
		errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrNothingToUndo),
		errors.Is(err, room.ErrRoomFull):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, room.ErrRoomClosed),
		errors.Is(err, room.ErrPlayerNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, rtc.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
	}
}

func (s *GameServer) handleRTCToken(c *gin.Context) {
	roomCode := c.Query("room")
	uid, err := strconv.ParseUint(c.Query("uid"), 10, 32)
	if err != nil || roomCode == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "room and numeric uid required"})
		return
	}
	if _, exists := s.roomManager.Get(roomCode); !exists {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "room not found"})
		return
	}

	token, expires, err := s.tokens.ChannelToken(roomCode, uint32(uid))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.RTCTokenResponse{
		Token:   token,
		Channel: rtc.ChannelName(roomCode),
		UID:     uint32(uid),
		Expires: expires,
	})
}

func (s *GameServer) handleSaveTheme(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "custom themes not configured"})
		return
	}

	var req models.SaveThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	entries := make([]content.WordEntry, 0, len(req.Words))
	for _, word := range req.Words {
		entries = append(entries, content.WordEntry{Word: word})
	}
	theme := &content.Theme{Name: req.Name, AccessCode: req.AccessCode, Entries: entries}
	if err := s.store.SaveCustomTheme(c.Request.Context(), theme); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, theme)
}
