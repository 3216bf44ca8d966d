package main

import (
	"sync"
	"testing"
	"time"
)

// mockBroadcaster captures sent messages for testing
type mockBroadcaster struct {
	mu       sync.Mutex
	messages []Envelope
	binary   [][]byte
}

func (m *mockBroadcaster) SendJSON(msg Envelope) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *mockBroadcaster) SendBinary(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.binary = append(m.binary, data)
}

func (m *mockBroadcaster) count(msgType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, msg := range m.messages {
		if msg.T == msgType {
			n++
		}
	}
	return n
}

// startedGame seeds a running match with n connected humans on slots 0..n-1.
func startedGame(mode GameMode, n int) (*Game, []*mockBroadcaster) {
	g := NewGame("test", mode)
	mocks := make([]*mockBroadcaster, n)
	for i := 0; i < n; i++ {
		connID := string(rune('a' + i))
		mocks[i] = &mockBroadcaster{}
		g.players[i] = NewHumanPlayer(connID, "P"+connID)
		g.clients[connID] = mocks[i]
		g.slots[connID] = i
		g.health[i] = MaxHealth
	}
	g.started = true
	return g, mocks
}

func TestAddPlayerAssignsSlots(t *testing.T) {
	g := NewGame("test", ModeStandard)
	slot0, err := g.AddPlayer("c0", "Alice", &mockBroadcaster{})
	if err != nil || slot0 != 0 {
		t.Fatalf("expected slot 0, got %d (%v)", slot0, err)
	}
	slot1, err := g.AddPlayer("c1", "Bob", &mockBroadcaster{})
	if err != nil || slot1 != 1 {
		t.Fatalf("expected slot 1, got %d (%v)", slot1, err)
	}
	if g.HumanCount() != 2 {
		t.Errorf("expected 2 humans, got %d", g.HumanCount())
	}
	// Enough humans arms the countdown automatically
	if !g.countdownOn || g.countdown != CountdownSeconds {
		t.Error("countdown should arm at two humans")
	}
}

func TestAddPlayerRejectsWhenFull(t *testing.T) {
	g := NewGame("test", ModeDuel)
	g.AddPlayer("c0", "A", &mockBroadcaster{})
	g.AddPlayer("c1", "B", &mockBroadcaster{})
	if _, err := g.AddPlayer("c2", "C", &mockBroadcaster{}); err == nil {
		t.Error("third player in a duel should be rejected")
	}
}

func TestAddPlayerRejectsMidGame(t *testing.T) {
	g, _ := startedGame(ModeStandard, 2)
	if _, err := g.AddPlayer("late", "Late", &mockBroadcaster{}); err == nil {
		t.Error("joining a started game should be rejected")
	}
}

func TestRemovePlayerBeforeStartFreesSlot(t *testing.T) {
	g := NewGame("test", ModeStandard)
	g.AddPlayer("c0", "Alice", &mockBroadcaster{})
	g.RemovePlayer("c0")
	if g.players[0] != nil {
		t.Error("pre-game disconnect should free the slot")
	}
}

func TestRemovePlayerMidGameKillsSlot(t *testing.T) {
	g, _ := startedGame(ModeStandard, 3)
	g.RemovePlayer("a")
	if g.players[0] == nil {
		t.Error("mid-game disconnect keeps the slot record for scoring")
	}
	if g.health[0] != 0 {
		t.Error("mid-game disconnect should zero the slot's health")
	}
}

func TestCountdownRunsIntoStart(t *testing.T) {
	g := NewGame("test", ModeStandard)
	m0 := &mockBroadcaster{}
	g.AddPlayer("c0", "Alice", m0)
	g.AddPlayer("c1", "Bob", &mockBroadcaster{})

	now := time.Now()
	for i := 0; i < CountdownSeconds; i++ {
		g.secondTick(now)
	}
	if !g.started {
		t.Fatal("game should start when the countdown hits zero")
	}
	if m0.count(MsgGameStarted) != 1 {
		t.Error("game_started should be broadcast once")
	}
	if m0.count(MsgYourIndex) == 0 {
		t.Error("clients should get their final slot after the shuffle")
	}
	// Empty slots are filled with bots in standard mode
	for slot, p := range g.players {
		if p == nil {
			t.Errorf("slot %d should be occupied after start", slot)
		}
		if g.health[slot] != MaxHealth {
			t.Errorf("slot %d should start at full health", slot)
		}
	}
}

func TestDuelModeHasNoBots(t *testing.T) {
	g := NewGame("test", ModeDuel)
	g.AddPlayer("c0", "Alice", &mockBroadcaster{})
	g.AddPlayer("c1", "Bob", &mockBroadcaster{})
	now := time.Now()
	for i := 0; i < CountdownSeconds; i++ {
		g.secondTick(now)
	}
	for _, p := range g.players {
		if p == nil || p.IsBot {
			t.Fatal("a duel should hold exactly the two humans")
		}
	}
}

func TestGameOverDetection(t *testing.T) {
	g, mocks := startedGame(ModeStandard, 2)
	g.damageBase(1, MaxHealth, 0)
	g.checkGameOver()
	if !g.over {
		t.Fatal("one living slot should end the game")
	}
	if g.winnerSlot() != 0 {
		t.Errorf("expected winner 0, got %d", g.winnerSlot())
	}
	if mocks[0].count(MsgGameOver) != 1 {
		t.Error("game_over should be broadcast")
	}
}

func TestPlaceBuildingHappyPath(t *testing.T) {
	g, _ := startedGame(ModeStandard, 2)
	g.HandlePlaceBuilding("a", PlaceBuildingMsg{Name: NameCryptoFarm, X: 50, Y: 300})

	if len(g.buildings) != 1 {
		t.Fatalf("expected 1 building, got %d", len(g.buildings))
	}
	wantGold := InitialGold - BuildingDefs[KindCryptoFarm].BaseCost
	if g.players[0].Gold != wantGold {
		t.Errorf("expected gold %d, got %d", wantGold, g.players[0].Gold)
	}
	for _, b := range g.buildings {
		if b.Kind != KindCryptoFarm || b.OwnerSlot != 0 {
			t.Errorf("unexpected building %+v", b)
		}
		if b.Direction != -1 {
			t.Errorf("left-half building should fire -1, got %d", b.Direction)
		}
	}
}

func TestPlaceBuildingRejections(t *testing.T) {
	g, mocks := startedGame(ModeStandard, 2)

	// Enemy territory
	g.HandlePlaceBuilding("a", PlaceBuildingMsg{Name: NameCryptoFarm, X: SegmentCenter(1, ModeStandard) + 30, Y: 300})
	if len(g.buildings) != 0 {
		t.Error("building on enemy territory must be rejected")
	}
	// Health-bar strip
	g.HandlePlaceBuilding("a", PlaceBuildingMsg{Name: NameCryptoFarm, X: SegmentCenter(0, ModeStandard), Y: 300})
	if len(g.buildings) != 0 {
		t.Error("building on the health-bar strip must be rejected")
	}
	// Insufficient gold
	g.players[0].Gold = 100
	g.HandlePlaceBuilding("a", PlaceBuildingMsg{Name: NameCryptoFarm, X: 50, Y: 300})
	if len(g.buildings) != 0 {
		t.Error("unaffordable building must be rejected")
	}
	if mocks[0].count(MsgBuildError) != 3 {
		t.Errorf("expected 3 build errors, got %d", mocks[0].count(MsgBuildError))
	}
	// Rejections never touch resources
	if g.players[0].Gold != 100 {
		t.Error("rejected placement must not deduct gold")
	}
}

func TestLaunchMissileChargesCost(t *testing.T) {
	g, _ := startedGame(ModeStandard, 2)
	now := time.Now()
	launcher := g.placeBuilding(0, KindMissileLauncher, 50, 300, 0, now)
	g.missiles = make(map[int]*Missile)
	g.players[0].Gold = MissileTypes[MissileLourd].Cost

	g.HandleLaunchMissile("a", LaunchMissileMsg{FromBuildingID: launcher.ID, MissileType: MissileLourd})
	if len(g.missiles) != 1 {
		t.Fatalf("expected 1 missile, got %d", len(g.missiles))
	}
	if g.players[0].Gold != 0 {
		t.Errorf("launch should charge the missile cost, gold %d", g.players[0].Gold)
	}

	// A launcher you don't own is off limits
	g.players[1].Gold = 1000000
	g.HandleLaunchMissile("b", LaunchMissileMsg{FromBuildingID: launcher.ID, MissileType: MissileRapide})
	if len(g.missiles) != 1 {
		t.Error("firing someone else's launcher must be rejected")
	}
}

func TestSetMissileType(t *testing.T) {
	g, _ := startedGame(ModeStandard, 2)
	launcher := g.placeBuilding(0, KindMissileLauncher, 50, 300, 0, time.Now())

	g.HandleSetMissileType("a", SetMissileTypeMsg{BuildingID: launcher.ID, MissileType: MissileFurtif})
	if launcher.MissileType != MissileFurtif {
		t.Errorf("expected furtif, got %q", launcher.MissileType)
	}
	g.HandleSetMissileType("b", SetMissileTypeMsg{BuildingID: launcher.ID, MissileType: MissileLourd})
	if launcher.MissileType != MissileFurtif {
		t.Error("only the owner may reconfigure a launcher")
	}
}

func TestNukePurchaseAndUse(t *testing.T) {
	g, mocks := startedGame(ModeStandard, 2)
	now := time.Now()
	g.players[0].Gold = NukeCost
	target := g.placeBuilding(1, KindCryptoFarm, SegmentCenter(1, ModeStandard)+50, 300, 0, now)

	g.HandleBuyBlackMarket("a", BuyBlackMarketMsg{PlayerIndex: 0, ItemID: "nuke"})
	if !g.players[0].PendingNuke {
		t.Fatal("purchase should arm the nuke")
	}
	if g.players[0].Gold != 0 {
		t.Errorf("purchase should charge %d, gold left %d", NukeCost, g.players[0].Gold)
	}

	g.HandleUseNuke("a", UseNukeMsg{TargetSlot: 1})
	if g.players[0].PendingNuke {
		t.Error("firing should consume the nuke")
	}
	if _, ok := g.buildings[target.ID]; ok {
		t.Error("nuke should flatten the target segment's buildings")
	}
	if mocks[0].count(MsgNukeResult) != 1 {
		t.Error("nuke result should be unicast to the firer")
	}

	// Without a pending nuke the request is refused
	g.HandleUseNuke("a", UseNukeMsg{TargetSlot: 1})
	if mocks[0].count(MsgNukeResult) != 2 {
		t.Error("refused nuke should still be acknowledged")
	}
}

func TestCryptoBoostPurchase(t *testing.T) {
	g, _ := startedGame(ModeStandard, 2)
	g.players[0].Gold = 250000

	g.HandleBuyBlackMarket("a", BuyBlackMarketMsg{PlayerIndex: 0, ItemID: "crypto_boost"})
	if !g.players[0].BoostActive(time.Now()) {
		t.Error("boost purchase should activate the multiplier")
	}
}

func TestHealPurchaseRestoresBase(t *testing.T) {
	g, _ := startedGame(ModeStandard, 2)
	g.health[0] = 30
	g.players[0].Gold = 120000

	g.HandleBuyBlackMarket("a", BuyBlackMarketMsg{PlayerIndex: 0, ItemID: "heal"})
	if g.health[0] != MaxHealth {
		t.Errorf("heal should restore full health, got %d", g.health[0])
	}
}

func TestAirStrikeDestroysCluster(t *testing.T) {
	g, _ := startedGame(ModeStandard, 2)
	now := time.Now()
	e1 := g.placeBuilding(1, KindCryptoFarm, 900, 300, 0, now)
	e2 := g.placeBuilding(1, KindServer, 950, 320, 0, now)
	far := g.placeBuilding(1, KindCastle, 1400, 300, 0, now)
	own := g.placeBuilding(0, KindCryptoFarm, 910, 310, 0, now)
	g.players[0].Gold = AirStrikeCost

	g.HandleAirStrike("a", AirStrikeMsg{X: 920, Y: 310})
	if _, ok := g.buildings[e1.ID]; ok {
		t.Error("building inside the radius should be destroyed")
	}
	if _, ok := g.buildings[e2.ID]; ok {
		t.Error("building inside the radius should be destroyed")
	}
	if _, ok := g.buildings[far.ID]; !ok {
		t.Error("building outside the radius should survive")
	}
	if _, ok := g.buildings[own.ID]; !ok {
		t.Error("the striker's own buildings are never hit")
	}
	if g.players[0].Gold != 0 {
		t.Errorf("strike should cost %d, gold left %d", AirStrikeCost, g.players[0].Gold)
	}
}

func TestResetRewindsSession(t *testing.T) {
	g, mocks := startedGame(ModeStandard, 2)
	now := time.Now()
	g.placeBuilding(0, KindMissileLauncher, 50, 300, 0, now)
	g.players[2] = NewBotPlayer("bot")
	g.health[2] = MaxHealth
	g.players[0].Gold = 5
	g.damageBase(1, MaxHealth, 0)

	g.HandleReset("a")
	if g.started || g.over {
		t.Error("reset should rewind to the lobby state")
	}
	if len(g.buildings) != 0 || len(g.missiles) != 0 || len(g.spawners) != 0 {
		t.Error("reset should clear all entities and timers")
	}
	if g.players[2] != nil {
		t.Error("reset should evict bots")
	}
	if g.players[0] == nil || g.players[0].Gold != InitialGold {
		t.Error("humans keep their seats with fresh resources")
	}
	if len(g.segmentsByOwner) != 0 {
		t.Error("reset should clear annexations")
	}
	if mocks[1].count(MsgGameReset) != 1 {
		t.Error("game_reset should be broadcast")
	}
}

func TestUpdateTickAdvancesEntities(t *testing.T) {
	g, mocks := startedGame(ModeStandard, 2)
	g.missiles[1] = &Missile{ID: 1, X: 400, Y: 300, OwnerSlot: 0, Direction: 1, Speed: 7}

	g.update(time.Now())
	if g.missiles[1].X != 407 {
		t.Errorf("tick should advance missiles, x=%f", g.missiles[1].X)
	}
	if len(mocks[0].binary) == 0 {
		t.Error("each tick should push a binary entity frame")
	}
}
