package main

import "time"

// Player is one occupied slot in a session: a human behind a websocket or a
// bot. Empty slots are nil entries in Game.players. A dead player keeps its
// slot entry for scoring but can no longer act.
type Player struct {
	ConnID string // websocket client id, "" for bots
	Pseudo string
	IsBot  bool

	Gold int
	Data int

	Pop    int
	PopMax int

	// CryptoBoostEnd doubles gold production until it passes; zero = no boost.
	CryptoBoostEnd time.Time

	// PendingNuke is set by a black market purchase and consumed by use_nuke.
	PendingNuke bool

	// Eliminations credited to this slot, for end-of-match stats.
	Eliminations int

	// AuthPlayerID links to a persistent account, 0 for guests and bots.
	AuthPlayerID int64
}

// NewHumanPlayer creates a slot record for a joining human
func NewHumanPlayer(connID, pseudo string) *Player {
	return &Player{
		ConnID: connID,
		Pseudo: pseudo,
		Gold:   InitialGold,
		Data:   InitialData,
		Pop:    InitialPop,
		PopMax: BasePopMax,
	}
}

// NewBotPlayer creates a slot record for a bot
func NewBotPlayer(pseudo string) *Player {
	return &Player{
		Pseudo: pseudo,
		IsBot:  true,
		Gold:   InitialGold,
		Data:   InitialData,
		Pop:    InitialPop,
		PopMax: BasePopMax,
	}
}

// BoostActive reports whether the gold production boost is currently running
func (p *Player) BoostActive(now time.Time) bool {
	return !p.CryptoBoostEnd.IsZero() && now.Before(p.CryptoBoostEnd)
}

// ToState converts to protocol state
func (p *Player) ToState() PlayerState {
	return PlayerState{
		Pseudo: p.Pseudo,
		IsBot:  p.IsBot,
		Gold:   p.Gold,
		Data:   p.Data,
		Nuke:   p.PendingNuke,
	}
}
