package main

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 50
	maxPseudoLen      = 20
	maxSessionNameLen = 30
)

// Client represents a WebSocket connection
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	connID     string
	sessionID  string
	remoteAddr string
	msgCount   int
	msgResetAt time.Time

	// Auth state; zero values mean guest
	authPlayerID int64
	authUsername string
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		connID:     GenerateID(8),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// 0xFF prefix marks msgpack frames queued by SendBinary
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg Envelope) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.sendRaw(data)
}

// sendRaw queues pre-marshaled bytes as a text message
func (c *Client) sendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary queues pre-marshaled bytes as a binary WebSocket message.
// Prefixed with a 0xFF marker so WritePump can tell it from text.
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("unmarshal error: %v", err)
		return
	}

	switch env.T {
	case MsgListSessions:
		c.handleList()
	case MsgCreateSession:
		c.handleCreate(env.D)
	case MsgJoinSession:
		c.handleJoin(env.D)
	case MsgLeaveSession:
		c.handleLeave()
	case MsgPlaceBuilding:
		c.withGame(env.D, func(g *Game, d json.RawMessage) {
			var msg PlaceBuildingMsg
			if json.Unmarshal(d, &msg) == nil {
				g.HandlePlaceBuilding(c.connID, msg)
			}
		})
	case MsgLaunchMissile:
		c.withGame(env.D, func(g *Game, d json.RawMessage) {
			var msg LaunchMissileMsg
			if json.Unmarshal(d, &msg) == nil {
				g.HandleLaunchMissile(c.connID, msg)
			}
		})
	case MsgSetMissileType:
		c.withGame(env.D, func(g *Game, d json.RawMessage) {
			var msg SetMissileTypeMsg
			if json.Unmarshal(d, &msg) == nil {
				g.HandleSetMissileType(c.connID, msg)
			}
		})
	case MsgAirStrike:
		c.withGame(env.D, func(g *Game, d json.RawMessage) {
			var msg AirStrikeMsg
			if json.Unmarshal(d, &msg) == nil {
				g.HandleAirStrike(c.connID, msg)
			}
		})
	case MsgBuyBlackMarket:
		c.handleBuyBlackMarket(env.D)
	case MsgUseNuke:
		c.withGame(env.D, func(g *Game, d json.RawMessage) {
			var msg UseNukeMsg
			if json.Unmarshal(d, &msg) == nil {
				g.HandleUseNuke(c.connID, msg)
			}
		})
	case MsgStartCountdown:
		c.withGame(env.D, func(g *Game, d json.RawMessage) {
			g.HandleStartCountdown(c.connID)
		})
	case MsgResetGame:
		c.withGame(env.D, func(g *Game, d json.RawMessage) {
			g.HandleReset(c.connID)
		})
	case MsgRegister:
		c.handleRegister(env.D)
	case MsgLogin:
		c.handleLogin(env.D)
	case MsgAuth:
		c.handleAuth(env.D)
	case MsgProfile:
		c.handleProfile()
	}
}

// withGame resolves the client's current session and hands the payload to a
// handler. Messages for a session the client is not in are dropped.
func (c *Client) withGame(data json.RawMessage, fn func(*Game, json.RawMessage)) {
	if c.sessionID == "" {
		return
	}
	sess := c.hub.sessions.GetSession(c.sessionID)
	if sess == nil {
		return
	}
	sess.MarkActive()
	fn(sess.Game, data)
}

func (c *Client) handleList() {
	c.SendJSON(Envelope{T: MsgSessionsList, Data: c.hub.sessions.ListSessions()})
}

func (c *Client) handleCreate(data json.RawMessage) {
	var msg CreateSessionMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	name := msg.Name
	if name == "" {
		name = "Partie"
	}
	if len(name) > maxSessionNameLen {
		name = name[:maxSessionNameLen]
	}

	sess := c.hub.sessions.CreateSession(name, ModeOrDefault(msg.Mode))
	if sess == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "too many active sessions"}})
		return
	}
	c.SendJSON(Envelope{T: MsgSessionCreated, Data: map[string]string{"sessionId": sess.ID}})
}

func (c *Client) handleJoin(data json.RawMessage) {
	var msg JoinSessionMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	pseudo := msg.Pseudo
	if pseudo == "" {
		pseudo = "Anonyme"
	}
	if len(pseudo) > maxPseudoLen {
		pseudo = pseudo[:maxPseudoLen]
	}

	sess := c.hub.sessions.GetSession(msg.SessionID)
	if sess == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "session not found"}})
		return
	}

	slot, err := sess.Game.AddPlayer(c.connID, pseudo, c)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
		return
	}
	sess.MarkActive()
	c.sessionID = sess.ID
	sess.Game.LinkAccount(c.connID, c.authPlayerID)

	c.SendJSON(Envelope{T: MsgYourIndex, Data: slot})
	c.SendJSON(Envelope{T: MsgBlackMarketUpdate, Data: BlackMarketCatalog})
}

func (c *Client) handleLeave() {
	if c.sessionID == "" {
		return
	}
	c.hub.sessions.RemovePlayer(c.sessionID, c.connID)
	c.sessionID = ""
}

func (c *Client) handleBuyBlackMarket(data json.RawMessage) {
	c.withGame(data, func(g *Game, d json.RawMessage) {
		var msg BuyBlackMarketMsg
		if json.Unmarshal(d, &msg) != nil {
			return
		}
		g.HandleBuyBlackMarket(c.connID, msg)
		if c.hub.analytics != nil {
			meta, _ := json.Marshal(map[string]string{"item_id": msg.ItemID})
			c.hub.analytics.Track(EvtPurchase, c.authPlayerID, c.sessionID, string(meta))
		}
	})
}

func (c *Client) handleRegister(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg RegisterMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Register(msg.Username, msg.Password)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
		return
	}
	c.authPlayerID = id
	c.authUsername = msg.Username
	if c.hub.analytics != nil {
		c.hub.analytics.Track(EvtRegister, id, "", "")
	}
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{Token: token, Username: msg.Username, PlayerID: id}})
}

func (c *Client) handleLogin(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg LoginMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Login(msg.Username, msg.Password, c.remoteAddr)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
		return
	}
	c.authPlayerID = id
	c.authUsername = msg.Username
	if c.hub.analytics != nil {
		c.hub.analytics.Track(EvtLogin, id, "", "")
	}
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{Token: token, Username: msg.Username, PlayerID: id}})
}

func (c *Client) handleAuth(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg AuthMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, username, err := c.hub.auth.ValidateToken(msg.Token)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "invalid token"}})
		return
	}
	c.authPlayerID = id
	c.authUsername = username
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{Token: msg.Token, Username: username, PlayerID: id}})
}

func (c *Client) handleProfile() {
	if c.hub.db == nil || c.authPlayerID == 0 {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "not authenticated"}})
		return
	}
	stats, err := c.hub.db.GetStats(c.authPlayerID)
	if err != nil || stats == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "profile not found"}})
		return
	}
	c.SendJSON(Envelope{T: MsgProfileData, Data: ProfileDataMsg{
		Username: c.authUsername,
		Wins:     stats.Wins,
		Losses:   stats.Losses,
		Kills:    stats.Eliminations,
		Games:    stats.Games,
	}})
}
