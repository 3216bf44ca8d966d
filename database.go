package main

import (
	"database/sql"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// PlayerRow represents a player account record
type PlayerRow struct {
	ID        int64
	Username  string
	PassHash  string
	CreatedAt time.Time
}

// StatsRow represents a player's lifetime stats
type StatsRow struct {
	PlayerID     int64
	Wins         int
	Losses       int
	Eliminations int
	Games        int
	Playtime     float64 // seconds
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL keeps analytics batch writes from blocking reads
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		pass_hash TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS stats (
		player_id INTEGER PRIMARY KEY REFERENCES players(id),
		wins INTEGER NOT NULL DEFAULT 0,
		losses INTEGER NOT NULL DEFAULT 0,
		eliminations INTEGER NOT NULL DEFAULT 0,
		games INTEGER NOT NULL DEFAULT 0,
		playtime REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS matches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		mode TEXT NOT NULL DEFAULT 'standard',
		duration REAL NOT NULL DEFAULT 0,
		winner_slot INTEGER NOT NULL DEFAULT -1,
		winner_name TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS match_players (
		match_id INTEGER NOT NULL REFERENCES matches(id),
		slot INTEGER NOT NULL,
		player_id INTEGER,
		pseudo TEXT NOT NULL DEFAULT '',
		is_bot INTEGER NOT NULL DEFAULT 0,
		eliminations INTEGER NOT NULL DEFAULT 0,
		won INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (match_id, slot)
	);

	CREATE TABLE IF NOT EXISTS analytics_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		player_id INTEGER,
		session_id TEXT,
		data TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_match_players_player ON match_players(player_id);
	CREATE INDEX IF NOT EXISTS idx_players_username ON players(username);
	CREATE INDEX IF NOT EXISTS idx_analytics_type_time ON analytics_events(event_type, created_at);
	`
	_, err := db.conn.Exec(schema)
	if err != nil {
		log.Printf("DB migration error: %v", err)
	}
	return err
}

// GetSetting returns a settings value, or "" when absent
func (db *DB) GetSetting(key string) string {
	var value string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		return ""
	}
	return value
}

// SetSetting stores a settings value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// CreatePlayer creates a new player account (returns player ID)
func (db *DB) CreatePlayer(username, passHash string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO players (username, pass_hash) VALUES (?, ?)",
		username, passHash,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	_, err = db.conn.Exec("INSERT INTO stats (player_id) VALUES (?)", id)
	return id, err
}

// GetPlayerByUsername returns a player by username, nil when not found
func (db *DB) GetPlayerByUsername(username string) (*PlayerRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, pass_hash, created_at FROM players WHERE username = ?",
		username,
	)
	p := &PlayerRow{}
	err := row.Scan(&p.ID, &p.Username, &p.PassHash, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// GetStats returns a player's lifetime stats
func (db *DB) GetStats(playerID int64) (*StatsRow, error) {
	row := db.conn.QueryRow(
		"SELECT player_id, wins, losses, eliminations, games, playtime FROM stats WHERE player_id = ?",
		playerID,
	)
	s := &StatsRow{}
	err := row.Scan(&s.PlayerID, &s.Wins, &s.Losses, &s.Eliminations, &s.Games, &s.Playtime)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// UsernameExists checks if a username is taken
func (db *DB) UsernameExists(username string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM players WHERE username = ?", username).Scan(&count)
	return count > 0, err
}

// RecordMatch records a completed match and returns its ID
func (db *DB) RecordMatch(mode string, duration float64, winnerSlot int, winnerName string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO matches (mode, duration, winner_slot, winner_name) VALUES (?, ?, ?, ?)",
		mode, duration, winnerSlot, winnerName,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecordMatchPlayer records one slot's outcome for a match
func (db *DB) RecordMatchPlayer(matchID, playerID int64, slot int, pseudo string, isBot bool, eliminations int, won bool) error {
	pid := sql.NullInt64{Int64: playerID, Valid: playerID != 0}
	_, err := db.conn.Exec(
		`INSERT INTO match_players (match_id, slot, player_id, pseudo, is_bot, eliminations, won)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		matchID, slot, pid, pseudo, boolInt(isBot), eliminations, boolInt(won),
	)
	return err
}

// UpdateStatsAfterMatch folds one match result into a player's lifetime
// stats.
func (db *DB) UpdateStatsAfterMatch(playerID int64, eliminations int, won bool, duration float64) error {
	winInc, lossInc := 0, 1
	if won {
		winInc, lossInc = 1, 0
	}
	_, err := db.conn.Exec(`
		UPDATE stats SET
			wins = wins + ?,
			losses = losses + ?,
			eliminations = eliminations + ?,
			games = games + 1,
			playtime = playtime + ?
		WHERE player_id = ?`,
		winInc, lossInc, eliminations, duration, playerID,
	)
	return err
}

// LeaderboardEntry represents one row in the leaderboard
type LeaderboardEntry struct {
	Rank         int     `json:"rank"`
	Username     string  `json:"username"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Eliminations int     `json:"eliminations"`
	Games        int     `json:"games"`
	Playtime     float64 `json:"playtime"`
}

// GetLeaderboard returns top players sorted by the given field
func (db *DB) GetLeaderboard(orderBy string, limit int) ([]LeaderboardEntry, error) {
	validCols := map[string]string{
		"wins":         "s.wins",
		"eliminations": "s.eliminations",
		"games":        "s.games",
		"winrate":      "CASE WHEN s.games > 0 THEN CAST(s.wins AS REAL)/s.games ELSE 0 END",
	}
	col, ok := validCols[orderBy]
	if !ok {
		col = "s.wins"
	}

	query := `SELECT p.username, s.wins, s.losses, s.eliminations, s.games, s.playtime
		FROM stats s JOIN players p ON p.id = s.player_id
		ORDER BY ` + col + ` DESC LIMIT ?`

	rows, err := db.conn.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.Wins, &e.Losses, &e.Eliminations, &e.Games, &e.Playtime); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		result = append(result, e)
	}
	return result, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
