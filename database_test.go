package main

import (
	"path/filepath"
	"testing"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSettingsRoundTrip(t *testing.T) {
	db := testDB(t)

	if v := db.GetSetting("missing"); v != "" {
		t.Errorf("missing key should be empty, got %q", v)
	}
	if err := db.SetSetting("k", "v1"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetSetting("k", "v2"); err != nil {
		t.Fatal(err)
	}
	if v := db.GetSetting("k"); v != "v2" {
		t.Errorf("expected upserted value v2, got %q", v)
	}
}

func TestCreateAndLookupPlayer(t *testing.T) {
	db := testDB(t)

	id, err := db.CreatePlayer("alice", "hash")
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero player id")
	}

	p, err := db.GetPlayerByUsername("alice")
	if err != nil || p == nil {
		t.Fatalf("lookup: %v, %v", p, err)
	}
	if p.ID != id || p.PassHash != "hash" {
		t.Errorf("unexpected row %+v", p)
	}

	missing, err := db.GetPlayerByUsername("nobody")
	if err != nil || missing != nil {
		t.Errorf("unknown username should return nil, nil; got %v, %v", missing, err)
	}

	// Account creation seeds an empty stats row
	s, err := db.GetStats(id)
	if err != nil || s == nil {
		t.Fatalf("stats: %v, %v", s, err)
	}
	if s.Wins != 0 || s.Games != 0 {
		t.Errorf("fresh stats should be zero, got %+v", s)
	}

	exists, err := db.UsernameExists("alice")
	if err != nil || !exists {
		t.Error("alice should exist")
	}
	if _, err := db.CreatePlayer("alice", "other"); err == nil {
		t.Error("duplicate username must be rejected")
	}
}

func TestMatchRecordingAndStats(t *testing.T) {
	db := testDB(t)

	alice, _ := db.CreatePlayer("alice", "h")
	bob, _ := db.CreatePlayer("bob", "h")

	matchID, err := db.RecordMatch("standard", 312.5, 0, "alice")
	if err != nil {
		t.Fatalf("record match: %v", err)
	}
	if err := db.RecordMatchPlayer(matchID, alice, 0, "alice", false, 2, true); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordMatchPlayer(matchID, bob, 1, "bob", false, 0, false); err != nil {
		t.Fatal(err)
	}
	// Bots and guests have no account; player_id stays NULL
	if err := db.RecordMatchPlayer(matchID, 0, 2, "Kessler", true, 1, false); err != nil {
		t.Fatalf("bot row: %v", err)
	}

	db.UpdateStatsAfterMatch(alice, 2, true, 312.5)
	db.UpdateStatsAfterMatch(bob, 0, false, 312.5)

	s, _ := db.GetStats(alice)
	if s.Wins != 1 || s.Losses != 0 || s.Eliminations != 2 || s.Games != 1 || s.Playtime != 312.5 {
		t.Errorf("alice stats %+v", s)
	}
	s, _ = db.GetStats(bob)
	if s.Wins != 0 || s.Losses != 1 || s.Games != 1 {
		t.Errorf("bob stats %+v", s)
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	db := testDB(t)

	alice, _ := db.CreatePlayer("alice", "h")
	bob, _ := db.CreatePlayer("bob", "h")
	db.UpdateStatsAfterMatch(alice, 1, true, 100)
	db.UpdateStatsAfterMatch(bob, 5, false, 100)

	byWins, err := db.GetLeaderboard("wins", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(byWins) != 2 || byWins[0].Username != "alice" || byWins[0].Rank != 1 {
		t.Errorf("wins ordering %+v", byWins)
	}

	byElims, err := db.GetLeaderboard("eliminations", 10)
	if err != nil {
		t.Fatal(err)
	}
	if byElims[0].Username != "bob" {
		t.Errorf("eliminations ordering %+v", byElims)
	}

	// Unknown sort columns fall back to wins instead of injecting
	fallback, err := db.GetLeaderboard("; DROP TABLE players", 10)
	if err != nil {
		t.Fatal(err)
	}
	if fallback[0].Username != "alice" {
		t.Errorf("fallback ordering %+v", fallback)
	}
}
