package main

import (
	"testing"
	"time"
)

func botGame() *Game {
	g := NewGame("test", ModeStandard)
	g.players[0] = NewBotPlayer("Kessler")
	g.players[1] = NewHumanPlayer("h", "Human")
	g.health[0] = MaxHealth
	g.health[1] = MaxHealth
	g.started = true
	return g
}

func TestBotBuildsNothingWhenBroke(t *testing.T) {
	g := botGame()
	g.players[0].Gold = BuildingDefs[KindCryptoFarm].BaseCost - 1

	g.botThink(0, time.Now())
	if len(g.buildings) != 0 {
		t.Errorf("a broke bot with no farm must build nothing, got %d buildings", len(g.buildings))
	}
}

func TestBotBuildsFarmFirst(t *testing.T) {
	g := botGame()
	g.players[0].Gold = BuildingDefs[KindCryptoFarm].BaseCost

	g.botThink(0, time.Now())
	if len(g.buildings) != 1 {
		t.Fatalf("expected exactly one building, got %d", len(g.buildings))
	}
	for _, b := range g.buildings {
		if b.Kind != KindCryptoFarm {
			t.Errorf("first build must be a farm, got %v", b.Kind)
		}
	}
	if g.players[0].Gold != 0 {
		t.Errorf("build should spend the full cost, gold left %d", g.players[0].Gold)
	}
}

func TestBotBuildsLauncherAfterFarm(t *testing.T) {
	g := botGame()
	now := time.Now()
	g.placeBuilding(0, KindCryptoFarm, 50, 300, 0, now)
	g.players[0].Gold = BuildingDefs[KindMissileLauncher].BaseCost

	kind, ok := g.botChooseBuild(0)
	if !ok || kind != KindMissileLauncher {
		t.Errorf("with a farm and no launcher the bot should pick a launcher, got %v (%v)", kind, ok)
	}
}

func TestBotDefendsUnderThreat(t *testing.T) {
	g := botGame()
	now := time.Now()
	g.placeBuilding(0, KindCryptoFarm, 50, 300, 0, now)
	g.placeBuilding(0, KindMissileLauncher, 50, 400, 0, now)
	g.health[0] = botThreatHealth - 10
	g.players[0].Gold = 1000000

	kind, ok := g.botChooseBuild(0)
	if !ok || kind != KindAntiMissile {
		t.Errorf("a threatened bot should pick an anti-missile battery, got %v (%v)", kind, ok)
	}

	// With batteries at cap, the threatened bot falls back to a medical center
	g.placeBuilding(0, KindAntiMissile, 100, 300, 0, now)
	g.placeBuilding(0, KindAntiMissile, 100, 500, 0, now)
	kind, ok = g.botChooseBuild(0)
	if !ok || kind != KindMedicalCenter {
		t.Errorf("with batteries capped the bot should pick a medical center, got %v (%v)", kind, ok)
	}
}

func TestBotRespectsDynamicCost(t *testing.T) {
	g := botGame()
	now := time.Now()
	g.placeBuilding(0, KindCryptoFarm, 50, 300, 0, now)
	// A second farm costs double; one base cost is no longer enough
	g.players[0].Gold = BuildingDefs[KindCryptoFarm].BaseCost

	g.botThink(0, now)
	if g.countBuildings(0, KindCryptoFarm) != 1 {
		t.Error("the bot must pay the doubled price for its second farm")
	}
}

func TestBotPlacementStaysInsideSegment(t *testing.T) {
	g := botGame()
	w := SegmentWidth(g.mode)

	for i := 0; i < 50; i++ {
		x, y, ok := g.botPlacement(0)
		if !ok {
			t.Fatal("an empty segment should always have room")
		}
		if x < 0 || x >= w {
			t.Fatalf("placement x=%f outside home segment", x)
		}
		if y < BuildAreaTop || y > BuildAreaBottom {
			t.Fatalf("placement y=%f outside build band", y)
		}
		if IsOnHealthBar(x, y, 0, g.mode) {
			t.Fatalf("placement (%f,%f) on the health-bar strip", x, y)
		}
	}
}

func TestBotPlacementKeepsGap(t *testing.T) {
	g := botGame()
	now := time.Now()
	b := g.placeBuilding(0, KindCryptoFarm, SegmentWidth(g.mode)/4, 350, 0, now)

	for i := 0; i < 50; i++ {
		x, y, ok := g.botPlacement(0)
		if !ok {
			continue
		}
		if Distance(x, y, b.X, b.Y) < botBuildingGap {
			t.Fatalf("placement (%f,%f) too close to existing building", x, y)
		}
	}
}

func TestBotAirStrikeOnCluster(t *testing.T) {
	g := botGame()
	now := time.Now()
	e1 := g.placeBuilding(1, KindCryptoFarm, 300, 300, 0, now)
	e2 := g.placeBuilding(1, KindServer, 330, 320, 0, now)
	g.players[0].Gold = botStrikeReserve

	g.botConsiderStrike(0, now)
	if _, ok := g.buildings[e1.ID]; ok {
		t.Error("the strike should level the enemy cluster")
	}
	if _, ok := g.buildings[e2.ID]; ok {
		t.Error("the strike should level the enemy cluster")
	}
	if g.players[0].Gold != botStrikeReserve-AirStrikeCost {
		t.Errorf("strike should charge %d, gold %d", AirStrikeCost, g.players[0].Gold)
	}

	// Cooldown: an immediate second strike is refused
	e3 := g.placeBuilding(1, KindCastle, 300, 300, 0, now)
	g.placeBuilding(1, KindCastle, 330, 320, 0, now)
	g.players[0].Gold = botStrikeReserve
	g.botConsiderStrike(0, now.Add(time.Second))
	if _, ok := g.buildings[e3.ID]; !ok {
		t.Error("strikes must respect the per-bot cooldown")
	}
}

func TestBotIgnoresLoneBuilding(t *testing.T) {
	g := botGame()
	now := time.Now()
	lone := g.placeBuilding(1, KindCryptoFarm, 300, 300, 0, now)
	g.players[0].Gold = botStrikeReserve

	g.botConsiderStrike(0, now)
	if _, ok := g.buildings[lone.ID]; !ok {
		t.Error("a single building is not worth an air strike")
	}
	if g.players[0].Gold != botStrikeReserve {
		t.Error("no strike means no charge")
	}
}

func TestFillBotsStandardOnly(t *testing.T) {
	g := NewGame("test", ModeStandard)
	g.players[0] = NewHumanPlayer("h", "Human")
	g.fillBots()
	for slot, p := range g.players {
		if p == nil {
			t.Fatalf("slot %d left empty in standard mode", slot)
		}
	}
	if !g.players[1].IsBot {
		t.Error("filled slots should hold bots")
	}

	d := NewGame("test", ModeDuel)
	d.players[0] = NewHumanPlayer("h", "Human")
	d.fillBots()
	if d.players[1] != nil {
		t.Error("duel sessions never get bots")
	}
}
