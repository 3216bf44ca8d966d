package main

import (
	"database/sql"
	"log"
	"sync"
	"time"
)

// Event types for analytics tracking
const (
	EvtSessionCreate = "session_create"
	EvtMatchStart    = "match_start"
	EvtMatchEnd      = "match_end"
	EvtElimination   = "elimination"
	EvtPurchase      = "purchase"
	EvtRegister      = "register"
	EvtLogin         = "login"
)

// AnalyticsEvent represents a single trackable event
type AnalyticsEvent struct {
	Type      string
	PlayerID  int64
	SessionID string
	Data      string // JSON metadata (optional)
	Timestamp time.Time
}

// Analytics handles event tracking with batched background writes
type Analytics struct {
	db     *DB
	events chan AnalyticsEvent
	stop   chan struct{}
	wg     sync.WaitGroup

	mu             sync.RWMutex
	activeSessions int
}

// NewAnalytics creates and starts the analytics background writer
func NewAnalytics(db *DB) *Analytics {
	a := &Analytics{
		db:     db,
		events: make(chan AnalyticsEvent, 1024),
		stop:   make(chan struct{}),
	}
	a.wg.Add(1)
	go a.writer()
	return a
}

// Track enqueues an event for async persistence (non-blocking)
func (a *Analytics) Track(evtType string, playerID int64, sessionID string, data string) {
	select {
	case a.events <- AnalyticsEvent{
		Type:      evtType,
		PlayerID:  playerID,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}:
	default:
		// Channel full — drop the event rather than blocking a game loop
	}
}

// SetActiveSessions updates the live session count metric
func (a *Analytics) SetActiveSessions(n int) {
	a.mu.Lock()
	a.activeSessions = n
	a.mu.Unlock()
}

// ActiveSessions returns the live session count
func (a *Analytics) ActiveSessions() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.activeSessions
}

// Stop gracefully shuts down the analytics writer
func (a *Analytics) Stop() {
	close(a.stop)
	a.wg.Wait()
}

// writer batches queued events and writes them to the database
func (a *Analytics) writer() {
	defer a.wg.Done()

	batch := make([]AnalyticsEvent, 0, 64)
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case evt := <-a.events:
			batch = append(batch, evt)
			if len(batch) >= 50 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-a.stop:
			close(a.events)
			for evt := range a.events {
				batch = append(batch, evt)
			}
			if len(batch) > 0 {
				a.flush(batch)
			}
			return
		}
	}
}

// flush writes a batch of events to the database
func (a *Analytics) flush(events []AnalyticsEvent) {
	if a.db == nil || len(events) == 0 {
		return
	}
	tx, err := a.db.conn.Begin()
	if err != nil {
		log.Printf("analytics: begin tx error: %v", err)
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO analytics_events (event_type, player_id, session_id, data, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		log.Printf("analytics: prepare error: %v", err)
		return
	}
	defer stmt.Close()

	for _, evt := range events {
		pid := sql.NullInt64{Int64: evt.PlayerID, Valid: evt.PlayerID > 0}
		sid := sql.NullString{String: evt.SessionID, Valid: evt.SessionID != ""}
		data := sql.NullString{String: evt.Data, Valid: evt.Data != ""}
		if _, err := stmt.Exec(evt.Type, pid, sid, data, evt.Timestamp.Format(time.RFC3339)); err != nil {
			log.Printf("analytics: insert error: %v", err)
		}
	}
	tx.Commit()
}

// EventCounts returns counts of each event type for the last N days
func (a *Analytics) EventCounts(days int) (map[string]int, error) {
	if a.db == nil {
		return nil, nil
	}
	rows, err := a.db.conn.Query(`
		SELECT event_type, COUNT(*) FROM analytics_events
		WHERE created_at >= date('now', '-' || ? || ' days')
		GROUP BY event_type ORDER BY COUNT(*) DESC
	`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var evtType string
		var count int
		if err := rows.Scan(&evtType, &count); err != nil {
			continue
		}
		result[evtType] = count
	}
	return result, rows.Err()
}

// PopularPurchases returns the most purchased black market items
func (a *Analytics) PopularPurchases(limit int) ([]ItemAnalytics, error) {
	if a.db == nil {
		return nil, nil
	}
	rows, err := a.db.conn.Query(`
		SELECT COALESCE(json_extract(data, '$.item_id'), 'unknown') as item, COUNT(*) as cnt
		FROM analytics_events
		WHERE event_type = ? AND json_valid(data)
		GROUP BY item ORDER BY cnt DESC LIMIT ?
	`, EvtPurchase, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ItemAnalytics
	for rows.Next() {
		var ia ItemAnalytics
		if err := rows.Scan(&ia.ItemID, &ia.Count); err != nil {
			continue
		}
		result = append(result, ia)
	}
	return result, rows.Err()
}

// MatchStats returns match counts and average duration per mode over the
// last N days.
func (a *Analytics) MatchStats(days int) ([]MatchAnalytics, error) {
	if a.db == nil {
		return nil, nil
	}
	rows, err := a.db.conn.Query(`
		SELECT COALESCE(json_extract(data, '$.mode'), 'unknown') as mode, COUNT(*) as cnt,
			AVG(CAST(
				CASE WHEN json_valid(data) THEN json_extract(data, '$.duration') ELSE NULL END
			AS REAL)) as avg_dur
		FROM analytics_events
		WHERE event_type = ? AND created_at >= date('now', '-' || ? || ' days')
		GROUP BY mode ORDER BY cnt DESC
	`, EvtMatchEnd, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MatchAnalytics
	for rows.Next() {
		var m MatchAnalytics
		var avgDur sql.NullFloat64
		if err := rows.Scan(&m.Mode, &m.Count, &avgDur); err != nil {
			continue
		}
		m.AvgDuration = avgDur.Float64
		result = append(result, m)
	}
	return result, rows.Err()
}

// MatchAnalytics holds aggregated match statistics
type MatchAnalytics struct {
	Mode        string  `json:"mode"`
	Count       int     `json:"count"`
	AvgDuration float64 `json:"avg_duration"`
}

// ItemAnalytics holds purchase count per item
type ItemAnalytics struct {
	ItemID string `json:"item_id"`
	Count  int    `json:"count"`
}
