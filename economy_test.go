package main

import (
	"testing"
	"time"
)

func TestAccrueResources(t *testing.T) {
	g := NewGame("test", ModeStandard)
	g.players[0] = NewHumanPlayer("c0", "Alice")
	now := time.Now()

	g.accrueResources(0, now)
	p := g.players[0]
	if p.Gold != InitialGold+BaseGoldPerSec {
		t.Errorf("expected gold %d, got %d", InitialGold+BaseGoldPerSec, p.Gold)
	}
	if p.Data != InitialData+BaseDataPerSec {
		t.Errorf("expected data %d, got %d", InitialData+BaseDataPerSec, p.Data)
	}

	// Farms and servers add their per-building bonus
	g.placeBuilding(0, KindCryptoFarm, 50, 200, 0, now)
	g.placeBuilding(0, KindServer, 100, 200, 0, now)
	before := p.Gold
	g.accrueResources(0, now)
	want := before + BaseGoldPerSec + BuildingDefs[KindCryptoFarm].GoldPerSec
	if p.Gold != want {
		t.Errorf("expected gold %d with one farm, got %d", want, p.Gold)
	}
}

func TestCryptoBoost(t *testing.T) {
	g := NewGame("test", ModeStandard)
	g.players[0] = NewHumanPlayer("c0", "Alice")
	p := g.players[0]
	now := time.Now()

	p.CryptoBoostEnd = now.Add(CryptoBoostDuration)
	before := p.Gold
	g.accrueResources(0, now)
	if p.Gold != before+2*BaseGoldPerSec {
		t.Errorf("boost should double gold gain, got %d", p.Gold-before)
	}

	// After expiry the multiplier is dropped on the next tick
	later := now.Add(CryptoBoostDuration + time.Second)
	before = p.Gold
	g.accrueResources(0, later)
	if p.Gold != before+BaseGoldPerSec {
		t.Errorf("expired boost should not double, got %d", p.Gold-before)
	}
	if !p.CryptoBoostEnd.IsZero() {
		t.Error("expired boost should be cleared")
	}
}

func TestPopulationCap(t *testing.T) {
	g := NewGame("test", ModeStandard)
	g.players[0] = NewHumanPlayer("c0", "Alice")
	p := g.players[0]
	now := time.Now()

	for i := 0; i < 50; i++ {
		g.accrueResources(0, now)
	}
	if p.Pop != BasePopMax {
		t.Errorf("population should cap at %d, got %d", BasePopMax, p.Pop)
	}

	g.placeBuilding(0, KindCastle, 60, 200, 0, now)
	g.accrueResources(0, now)
	if p.PopMax != BasePopMax+BuildingDefs[KindCastle].PopBonus {
		t.Errorf("castle should raise pop max, got %d", p.PopMax)
	}
}

func TestBlackMarketCatalog(t *testing.T) {
	item, ok := BlackMarketItemByID("nuke")
	if !ok || item.Effect != EffectNuke {
		t.Errorf("nuke item should exist with nuke effect, got %+v", item)
	}
	if _, ok := BlackMarketItemByID("antimatter"); ok {
		t.Error("unknown item should not resolve")
	}
}
