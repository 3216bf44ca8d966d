package main

import "encoding/json"

// Client -> Server message types
const (
	MsgListSessions   = "list_sessions"
	MsgCreateSession  = "create_session"
	MsgJoinSession    = "join_session"
	MsgLeaveSession   = "leave_session"
	MsgPlaceBuilding  = "place_building"
	MsgLaunchMissile  = "launch_missile"
	MsgSetMissileType = "set_missile_type"
	MsgAirStrike      = "air_strike"
	MsgBuyBlackMarket = "buy_black_market"
	MsgUseNuke        = "use_nuke"
	MsgStartCountdown = "start_countdown"
	MsgResetGame      = "reset_game"
	MsgRegister       = "register"
	MsgLogin          = "login"
	MsgAuth           = "auth"
	MsgProfile        = "profile"
)

// Server -> Client message types
const (
	MsgSessionsList      = "sessions_list"
	MsgSessionCreated    = "session_created"
	MsgYourIndex         = "your_index" // unicast
	MsgPlayersUpdate     = "players_update"
	MsgBuildingsUpdate   = "buildings_update"
	MsgMissilesUpdate    = "missiles_update"
	MsgDronesUpdate      = "drones_update"
	MsgHealthUpdate      = "health_update"
	MsgSegmentsUpdate    = "segments_update"
	MsgResourcesUpdate   = "resources_update" // unicast
	MsgCountdownUpdate   = "countdown_update"
	MsgGameStarted       = "game_started"
	MsgGameReset         = "game_reset"
	MsgGameOver          = "game_over"
	MsgBlackMarketUpdate = "black_market_update"
	MsgBlackMarketResult = "black_market_result"
	MsgNukeResult        = "nuke_result"
	MsgBuildError        = "build_error"
	MsgError             = "error"
	MsgAuthOK            = "auth_ok"
	MsgProfileData       = "profile_data"
	MsgReveal            = "reveal"
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// CreateSessionMsg asks for a new session
type CreateSessionMsg struct {
	Name string `json:"name"`
	Mode string `json:"mode"` // "standard" or "1v1"
}

// JoinSessionMsg asks to join a session by id
type JoinSessionMsg struct {
	SessionID string `json:"sessionId"`
	Pseudo    string `json:"pseudo"`
}

// PlaceBuildingMsg places a building for the sender's slot
type PlaceBuildingMsg struct {
	SessionID string  `json:"sessionId"`
	Name      string  `json:"name"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	OwnerSlot int     `json:"ownerSlot"`
}

// LaunchMissileMsg fires one missile of the given type from a launcher
type LaunchMissileMsg struct {
	SessionID      string `json:"sessionId"`
	FromBuildingID int    `json:"fromBuildingId"`
	MissileType    string `json:"missileType"`
}

// SetMissileTypeMsg changes a launcher's default spawned missile type
type SetMissileTypeMsg struct {
	SessionID   string `json:"sessionId"`
	BuildingID  int    `json:"buildingId"`
	MissileType string `json:"missileType"`
}

// AirStrikeMsg requests an area bombardment at a point
type AirStrikeMsg struct {
	SessionID string  `json:"sessionId"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// BuyBlackMarketMsg purchases a black market item
type BuyBlackMarketMsg struct {
	SessionID   string `json:"sessionId"`
	PlayerIndex int    `json:"playerIndex"`
	ItemID      string `json:"itemId"`
}

// UseNukeMsg fires a previously purchased nuke at a slot's territory
type UseNukeMsg struct {
	SessionID  string `json:"sessionId"`
	TargetSlot int    `json:"targetSlot"`
}

// SessionRefMsg carries just a session id (start_countdown, reset_game, leave)
type SessionRefMsg struct {
	SessionID string `json:"sessionId"`
}

// SessionInfo is one entry in the session list
type SessionInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Mode    string `json:"mode"`
	Players int    `json:"players"` // humans only
}

// PlayerState is the public view of one player slot (nil slot -> null)
type PlayerState struct {
	Pseudo string `json:"pseudo"`
	IsBot  bool   `json:"isBot"`
	Gold   int    `json:"gold"`
	Data   int    `json:"data"`
	Nuke   bool   `json:"nuke,omitempty"`
}

// BuildingState is broadcast per building
type BuildingState struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	OwnerSlot int     `json:"ownerSlot"`
	Cost      int     `json:"cost"`
}

// MissileState is broadcast per missile. msgpack tags matter: missile and
// drone snapshots go out as binary frames every tick.
type MissileState struct {
	ID        int     `json:"id" msgpack:"id"`
	X         float64 `json:"x" msgpack:"x"`
	Y         float64 `json:"y" msgpack:"y"`
	OwnerSlot int     `json:"ownerSlot" msgpack:"o"`
	Direction int     `json:"direction" msgpack:"d"`
	Type      string  `json:"type" msgpack:"t"`
	Radius    float64 `json:"radius" msgpack:"r"`
}

// DroneState is broadcast per drone
type DroneState struct {
	ID        int     `json:"id" msgpack:"id"`
	X         float64 `json:"x" msgpack:"x"`
	Y         float64 `json:"y" msgpack:"y"`
	OwnerSlot int     `json:"ownerSlot" msgpack:"o"`
	TargetX   float64 `json:"targetX" msgpack:"tx"`
	TargetY   float64 `json:"targetY" msgpack:"ty"`
}

// EntitySnapshot is the binary per-tick frame for fast-moving entities
type EntitySnapshot struct {
	T        string         `msgpack:"t"`
	Missiles []MissileState `msgpack:"m,omitempty"`
	Drones   []DroneState   `msgpack:"d,omitempty"`
}

// SegmentOwnership lists the segments a slot controls
type SegmentOwnership struct {
	OwnerSlot int   `json:"ownerSlot"`
	Segments  []int `json:"segments"`
}

// ResourcesMsg is the unicast per-second resource sync
type ResourcesMsg struct {
	Gold   int `json:"gold"`
	Data   int `json:"data"`
	Pop    int `json:"pop"`
	PopMax int `json:"popMax"`
}

// GameSnapshot is sent on game_started / game_reset
type GameSnapshot struct {
	Buildings []BuildingState `json:"buildings"`
	Missiles  []MissileState  `json:"missiles"`
	Drones    []DroneState    `json:"drones"`
	Health    []int           `json:"playerHealth"`
}

// GameOverMsg announces the surviving slot
type GameOverMsg struct {
	WinnerSlot int    `json:"winnerSlot"`
	Pseudo     string `json:"pseudo"`
}

// NukeResultMsg acknowledges a nuke strike
type NukeResultMsg struct {
	Success   bool `json:"success"`
	Destroyed int  `json:"destroyed"`
}

// BlackMarketResultMsg acknowledges a purchase
type BlackMarketResultMsg struct {
	Success bool            `json:"success"`
	Item    BlackMarketItem `json:"item"`
}

// RevealMsg announces a temporary reveal of all buildings (spy item)
type RevealMsg struct {
	BySlot   int     `json:"bySlot"`
	Duration float64 `json:"duration"` // seconds
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// RegisterMsg / LoginMsg / AuthMsg carry account credentials
type RegisterMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthMsg struct {
	Token string `json:"token"`
}

// AuthOKMsg confirms authentication
type AuthOKMsg struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	PlayerID int64  `json:"playerId"`
}

// ProfileDataMsg returns persistent account stats
type ProfileDataMsg struct {
	Username string `json:"username"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Kills    int    `json:"kills"` // eliminations credited
	Games    int    `json:"games"`
}
