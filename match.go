package main

import (
	"encoding/json"
	"log"
	"time"
)

// recordMatch persists a finished match: one matches row, one match_players
// row per slot, aggregate stats for every authenticated participant, and an
// analytics trail. Runs on the session's game goroutine after the final
// tick, so all DB work stays off the simulation path via the batched
// analytics writer and short synchronous inserts.
func (sm *SessionManager) recordMatch(sess *Session, winner int, players []*Player, mode GameMode, duration time.Duration) {
	winnerName := ""
	if winner >= 0 && winner < len(players) && players[winner] != nil {
		winnerName = players[winner].Pseudo
	}

	if sm.analytics != nil {
		meta, _ := json.Marshal(map[string]interface{}{
			"mode":     string(mode),
			"duration": duration.Seconds(),
			"winner":   winnerName,
		})
		sm.analytics.Track(EvtMatchEnd, 0, sess.ID, string(meta))
	}

	if sm.db == nil {
		return
	}

	matchID, err := sm.db.RecordMatch(string(mode), duration.Seconds(), winner, winnerName)
	if err != nil {
		log.Printf("session %s: record match: %v", sess.ID, err)
		return
	}

	for slot, p := range players {
		if p == nil {
			continue
		}
		won := slot == winner
		if err := sm.db.RecordMatchPlayer(matchID, p.AuthPlayerID, slot, p.Pseudo, p.IsBot, p.Eliminations, won); err != nil {
			log.Printf("session %s: record match player %d: %v", sess.ID, slot, err)
		}
		if p.AuthPlayerID != 0 {
			if err := sm.db.UpdateStatsAfterMatch(p.AuthPlayerID, p.Eliminations, won, duration.Seconds()); err != nil {
				log.Printf("session %s: update stats for %d: %v", sess.ID, p.AuthPlayerID, err)
			}
		}
	}
}
