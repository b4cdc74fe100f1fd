package ws

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/momoworks/webos/internal/battle"
	"github.com/momoworks/webos/internal/constants"
	"github.com/momoworks/webos/internal/logging"
)

const writeWait = 10 * time.Second

// TokenValidator checks a bearer credential presented at handshake time and
// returns the authenticated user id and display name.
type TokenValidator func(token string) (userID, username string, err error)

// Gateway is the only component that touches live connections. It
// authenticates handshakes, translates client events into registry/engine
// operations and fans snapshots out to room broadcast groups.
type Gateway struct {
	registry *battle.Registry
	engine   *battle.Engine
	validate TokenValidator
	upgrader websocket.Upgrader

	mu     sync.Mutex
	groups map[string]map[*session]struct{}
}

func NewGateway(registry *battle.Registry, validate TokenValidator) *Gateway {
	g := &Gateway{
		registry: registry,
		validate: validate,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		groups: make(map[string]map[*session]struct{}),
	}
	g.engine = battle.NewEngine(registry, g)
	return g
}

// session is one live authenticated connection.
type session struct {
	conn     *websocket.Conn
	connID   string
	identity battle.Identity

	// mu serializes writes to the connection and guards roomID, which is
	// touched by both the session's read loop and CloseRoom.
	mu     sync.Mutex
	roomID string
}

func (s *session) setRoom(id string) {
	s.mu.Lock()
	s.roomID = id
	s.mu.Unlock()
}

func (s *session) room() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomID
}

func (s *session) send(frame serverFrame) {
	data, err := json.Marshal(frame)
	if err != nil {
		logging.Error("failed to marshal frame", err, nil)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		logging.Debug("websocket write failed", logging.Fields{constants.LogFieldUserID: s.identity.UserID})
	}
}

type clientFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type serverFrame struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

func ack(event string, payload interface{}) serverFrame {
	return serverFrame{Type: "ack:" + event, Payload: payload}
}

func errAck(event, msg string) serverFrame {
	return ack(event, gin.H{constants.JSONKeyError: msg})
}

// bearerToken extracts the handshake credential from the Authorization
// header or, for browser clients that cannot set headers on websocket
// upgrades, the token query parameter.
func bearerToken(c *gin.Context) string {
	h := c.GetHeader(constants.HeaderAuthorization)
	if strings.HasPrefix(h, constants.BearerPrefix) {
		return strings.TrimPrefix(h, constants.BearerPrefix)
	}
	return c.Query("token")
}

// Handle authenticates and upgrades one websocket connection, then runs its
// event loop until disconnect.
func (g *Gateway) Handle(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}
	userID, username, err := g.validate(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrInvalidSession})
		return
	}

	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Error("websocket upgrade failed", err, nil)
		return
	}

	s := &session{
		conn:     conn,
		connID:   uuid.NewString(),
		identity: normalizeIdentity(userID, username, ""),
	}
	if s.identity.UserID == "" {
		s.identity.UserID = s.connID
	}

	g.readLoop(s)
}

// normalizeIdentity produces a canonical identity at the authentication
// boundary so room and player construction never see empty fields.
func normalizeIdentity(userID, username, fallbackID string) battle.Identity {
	if userID == "" {
		userID = fallbackID
	}
	if username == "" {
		username = "Player"
	}
	return battle.Identity{UserID: userID, Username: username}
}

func (g *Gateway) readLoop(s *session) {
	defer func() {
		g.handleLeave(s)
		s.conn.Close()
	}()

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		var frame clientFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			logging.Debug("discarding malformed frame", logging.Fields{constants.LogFieldUserID: s.identity.UserID})
			continue
		}
		g.dispatch(s, frame)
	}
}

func (g *Gateway) dispatch(s *session, frame clientFrame) {
	switch frame.Type {
	case "createRoom":
		g.handleCreate(s)
	case "joinRoom":
		g.handleJoin(s, frame.Payload)
	case "startBattle":
		g.handleStart(s)
	case "skillAction":
		g.handleAction(s, frame.Payload)
	case "leaveRoom":
		g.handleLeave(s)
		s.send(ack("leaveRoom", gin.H{constants.JSONKeyStatus: "ok"}))
	default:
		logging.Debug("unknown event type", logging.Fields{"type": frame.Type})
	}
}

func (g *Gateway) handleCreate(s *session) {
	// A connection owns at most one room. Creating another abandons the
	// first with the usual leave semantics.
	g.handleLeave(s)

	room := g.registry.Create(s.connID, s.identity)
	s.setRoom(room.ID)
	g.joinGroup(room.ID, s)

	s.send(ack("createRoom", gin.H{"roomId": room.ID}))
	g.RoomUpdate(room.Snapshot())
}

func (g *Gateway) handleJoin(s *session, payload json.RawMessage) {
	var req struct {
		RoomID string `json:"roomId"`
	}
	_ = json.Unmarshal(payload, &req)

	room, err := g.registry.Join(req.RoomID, s.connID, s.identity)
	if err != nil {
		s.send(errAck("joinRoom", joinErrorMessage(err)))
		return
	}

	s.setRoom(room.ID)
	g.joinGroup(room.ID, s)
	g.RoomUpdate(room.Snapshot())
	s.send(ack("joinRoom", gin.H{"roomId": room.ID}))
}

func joinErrorMessage(err error) string {
	switch err {
	case battle.ErrRoomFull:
		return constants.WSErrRoomFull
	case battle.ErrRoomNotJoinable:
		return constants.WSErrRoomNotJoinable
	default:
		return constants.WSErrRoomNotFound
	}
}

func (g *Gateway) handleStart(s *session) {
	roomID := s.room()
	if roomID == "" {
		s.send(errAck("startBattle", constants.WSErrRoomNotFound))
		return
	}

	switch err := g.engine.StartBattle(roomID); err {
	case nil:
		s.send(ack("startBattle", gin.H{constants.JSONKeyStatus: "countdown"}))
	case battle.ErrNeedTwoPlayers:
		s.send(errAck("startBattle", constants.WSErrNeedTwoPlayers))
	case battle.ErrAlreadyStarted:
		s.send(errAck("startBattle", constants.WSErrAlreadyStarted))
	default:
		s.send(errAck("startBattle", constants.WSErrRoomNotFound))
	}
}

func (g *Gateway) handleAction(s *session, payload json.RawMessage) {
	var req struct {
		Type string `json:"type"`
	}
	_ = json.Unmarshal(payload, &req)

	room, ok := g.registry.Get(s.room())
	if !ok {
		s.send(errAck("skillAction", constants.WSErrBattleNotActive))
		return
	}

	applied, err := room.ApplyAction(s.connID, battle.ActionType(req.Type), time.Now())
	switch err {
	case nil:
		s.send(ack("skillAction", gin.H{"applied": applied}))
	case battle.ErrPlayerNotInRoom:
		s.send(errAck("skillAction", constants.WSErrPlayerNotInRoom))
	default:
		s.send(errAck("skillAction", constants.WSErrBattleNotActive))
	}
}

// handleLeave covers both the explicit leaveRoom event and the implicit
// disconnect. If the room is now empty it is finalized with no winner; if a
// battle was in flight the remaining player wins; otherwise members just see
// an updated snapshot.
func (g *Gateway) handleLeave(s *session) {
	roomID := s.room()
	if roomID == "" {
		return
	}
	s.setRoom("")
	g.leaveGroup(roomID, s)

	room, ok := g.registry.Leave(roomID, s.connID)
	if !ok {
		return
	}

	switch {
	case room.PlayerCount() == 0:
		g.engine.Finalize(room, battle.Result{Reason: battle.ReasonEmpty})
	case room.Phase() == battle.PhaseActive:
		var winner *string
		if lead, ok := room.LeadPlayer(); ok {
			winner = &lead.UserID
		}
		g.engine.Finalize(room, battle.Result{Reason: battle.ReasonPlayerLeft, Winner: winner})
	default:
		g.RoomUpdate(room.Snapshot())
	}
}

func (g *Gateway) joinGroup(roomID string, s *session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	members, ok := g.groups[roomID]
	if !ok {
		members = make(map[*session]struct{})
		g.groups[roomID] = members
	}
	members[s] = struct{}{}
}

func (g *Gateway) leaveGroup(roomID string, s *session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if members, ok := g.groups[roomID]; ok {
		delete(members, s)
		if len(members) == 0 {
			delete(g.groups, roomID)
		}
	}
}

func (g *Gateway) members(roomID string) []*session {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*session, 0, len(g.groups[roomID]))
	for s := range g.groups[roomID] {
		out = append(out, s)
	}
	return out
}

func (g *Gateway) broadcast(roomID string, frame serverFrame) {
	for _, s := range g.members(roomID) {
		s.send(frame)
	}
}

// RoomUpdate implements battle.Broadcaster.
func (g *Gateway) RoomUpdate(snap battle.Snapshot) {
	g.broadcast(snap.ID, serverFrame{Type: "battleUpdate", Payload: snap})
}

// RoomEnd implements battle.Broadcaster.
func (g *Gateway) RoomEnd(roomID string, result battle.Result) {
	g.broadcast(roomID, serverFrame{Type: "battleEnd", Payload: result})
}

// CloseRoom implements battle.Broadcaster: every member leaves the broadcast
// group so no further room traffic reaches them.
func (g *Gateway) CloseRoom(roomID string) {
	g.mu.Lock()
	members := g.groups[roomID]
	delete(g.groups, roomID)
	g.mu.Unlock()
	for s := range members {
		s.setRoom("")
	}
}
