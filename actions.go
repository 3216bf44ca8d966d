package main

import (
	"errors"
	"time"
)

var (
	errSessionFull    = errors.New("session is full")
	errGameInProgress = errors.New("game already started")
)

// AddPlayer seats a human in the first free slot. The countdown starts
// automatically once enough humans are present.
func (g *Game) AddPlayer(connID, pseudo string, client Broadcaster) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.started {
		return -1, errGameInProgress
	}
	slot := -1
	for i, p := range g.players {
		if p == nil {
			slot = i
			break
		}
	}
	if slot == -1 {
		return -1, errSessionFull
	}

	g.players[slot] = NewHumanPlayer(connID, pseudo)
	g.clients[connID] = client
	g.slots[connID] = slot
	g.dirtyPlayers = true

	if !g.countdownOn && g.humanCount() >= MinHumansToStart {
		g.beginCountdown()
	}
	return slot, nil
}

// RemovePlayer detaches a connection. Before the game starts the slot is
// freed; after, the slot record stays for scoring but the player is dead.
func (g *Game) RemovePlayer(connID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	slot, ok := g.slots[connID]
	delete(g.clients, connID)
	delete(g.slots, connID)
	if !ok {
		return
	}

	if !g.started {
		g.players[slot] = nil
	} else if g.health[slot] > 0 {
		g.health[slot] = 0
		g.dirtyHealth = true
		g.checkGameOver()
	}
	g.dirtyPlayers = true
}

// LinkAccount ties a persistent account to the player behind a connection.
func (g *Game) LinkAccount(connID string, authPlayerID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if slot, ok := g.slots[connID]; ok && g.players[slot] != nil {
		g.players[slot].AuthPlayerID = authPlayerID
	}
}

// actorSlot validates that a connection maps to a living slot during an
// active game. Returns -1 when the sender may not act.
func (g *Game) actorSlot(connID string) int {
	slot := g.slotOf(connID)
	if slot < 0 || !g.started || g.over {
		return -1
	}
	if g.players[slot] == nil || g.health[slot] <= 0 {
		return -1
	}
	return slot
}

// rejectBuild sends an advisory build failure to one connection. Rejected
// actions never mutate state.
func (g *Game) rejectBuild(connID, reason string) {
	g.unicastConn(connID, Envelope{T: MsgBuildError, Data: ErrorMsg{Msg: reason}})
}

// HandlePlaceBuilding validates and places one building for the sender.
func (g *Game) HandlePlaceBuilding(connID string, msg PlaceBuildingMsg) {
	g.mu.Lock()
	defer g.mu.Unlock()

	slot := g.actorSlot(connID)
	if slot < 0 {
		return
	}
	kind, ok := KindByName(msg.Name)
	if !ok {
		g.rejectBuild(connID, "type de bâtiment inconnu")
		return
	}
	if msg.X < 0 || msg.X > MapWidth || msg.Y < BuildAreaTop || msg.Y > BuildAreaBottom {
		g.rejectBuild(connID, "position hors zone de construction")
		return
	}
	seg := SegmentIndexOf(msg.X, g.mode)
	if g.resolveOwner(seg) != slot {
		g.rejectBuild(connID, "territoire adverse")
		return
	}
	if IsOnHealthBar(msg.X, msg.Y, seg, g.mode) {
		g.rejectBuild(connID, "emplacement réservé")
		return
	}
	cost := g.dynamicCostFor(slot, kind)
	p := g.players[slot]
	if p.Gold < cost {
		g.rejectBuild(connID, "crypto insuffisante")
		return
	}

	p.Gold -= cost
	g.placeBuilding(slot, kind, msg.X, msg.Y, cost, time.Now())
	g.dirtyPlayers = true
	g.sendResources(slot)
}

// placeBuilding commits a validated building and starts its spawner when the
// kind has one. Shared by the client path and the bot.
func (g *Game) placeBuilding(slot int, kind BuildingKind, x, y float64, cost int, now time.Time) *Building {
	g.nextBuildingID++
	b := &Building{
		ID:        g.nextBuildingID,
		Kind:      kind,
		X:         x,
		Y:         y,
		OwnerSlot: slot,
		Cost:      cost,
		Direction: FireDirection(x, g.mode),
	}
	g.buildings[b.ID] = b
	if b.Def().SpawnPeriod > 0 {
		g.startSpawner(b, now)
	}
	g.dirtyBuildings = true
	return b
}

// HandleLaunchMissile fires one missile of an explicit type from one of the
// sender's launchers, charged at the missile's own cost.
func (g *Game) HandleLaunchMissile(connID string, msg LaunchMissileMsg) {
	g.mu.Lock()
	defer g.mu.Unlock()

	slot := g.actorSlot(connID)
	if slot < 0 {
		return
	}
	b, ok := g.buildings[msg.FromBuildingID]
	if !ok || b.Kind != KindMissileLauncher || b.OwnerSlot != slot {
		return
	}
	t := MissileTypeOrDefault(msg.MissileType)
	cost := MissileTypes[t].Cost
	p := g.players[slot]
	if p.Gold < cost {
		g.rejectBuild(connID, "crypto insuffisante")
		return
	}
	p.Gold -= cost
	g.spawnMissile(b, t, time.Now())
	g.dirtyPlayers = true
	g.sendResources(slot)
}

// HandleSetMissileType changes which missile type a launcher's timer spawns.
func (g *Game) HandleSetMissileType(connID string, msg SetMissileTypeMsg) {
	g.mu.Lock()
	defer g.mu.Unlock()

	slot := g.actorSlot(connID)
	if slot < 0 {
		return
	}
	b, ok := g.buildings[msg.BuildingID]
	if !ok || b.Kind != KindMissileLauncher || b.OwnerSlot != slot {
		return
	}
	b.MissileType = MissileTypeOrDefault(msg.MissileType)
}

// HandleAirStrike levels every enemy building within the strike radius.
func (g *Game) HandleAirStrike(connID string, msg AirStrikeMsg) {
	g.mu.Lock()
	defer g.mu.Unlock()

	slot := g.actorSlot(connID)
	if slot < 0 {
		return
	}
	p := g.players[slot]
	if p.Gold < AirStrikeCost {
		g.rejectBuild(connID, "crypto insuffisante")
		return
	}
	p.Gold -= AirStrikeCost
	g.airStrike(slot, msg.X, msg.Y)
	g.dirtyPlayers = true
	g.sendResources(slot)
}

// airStrike destroys enemy buildings around a point. The striker's own
// buildings are never hit.
func (g *Game) airStrike(slot int, x, y float64) int {
	destroyed := 0
	for _, b := range g.buildings {
		if b.OwnerSlot == slot {
			continue
		}
		if Distance(x, y, b.X, b.Y) <= AirStrikeRadius {
			g.destroyBuilding(b)
			destroyed++
		}
	}
	return destroyed
}

// HandleBuyBlackMarket purchases a one-shot black market effect.
func (g *Game) HandleBuyBlackMarket(connID string, msg BuyBlackMarketMsg) {
	g.mu.Lock()
	defer g.mu.Unlock()

	slot := g.actorSlot(connID)
	if slot < 0 || msg.PlayerIndex != slot {
		return
	}
	item, ok := BlackMarketItemByID(msg.ItemID)
	if !ok {
		return
	}
	p := g.players[slot]
	if p.Gold < item.Price {
		g.unicastConn(connID, Envelope{T: MsgBlackMarketResult, Data: BlackMarketResultMsg{Success: false, Item: item}})
		return
	}
	p.Gold -= item.Price

	now := time.Now()
	switch item.Effect {
	case EffectNuke:
		p.PendingNuke = true
	case EffectCryptoBoost:
		p.CryptoBoostEnd = now.Add(CryptoBoostDuration)
	case EffectHeal:
		if g.health[slot] != MaxHealth {
			g.health[slot] = MaxHealth
			g.dirtyHealth = true
		}
	case EffectReveal:
		g.broadcast(Envelope{T: MsgReveal, Data: RevealMsg{BySlot: slot, Duration: 30}})
	}

	g.unicastConn(connID, Envelope{T: MsgBlackMarketResult, Data: BlackMarketResultMsg{Success: true, Item: item}})
	g.dirtyPlayers = true
	g.sendResources(slot)
}

// HandleUseNuke consumes a purchased nuke against a target slot's home
// segment, flattening every building there.
func (g *Game) HandleUseNuke(connID string, msg UseNukeMsg) {
	g.mu.Lock()
	defer g.mu.Unlock()

	slot := g.actorSlot(connID)
	if slot < 0 {
		return
	}
	p := g.players[slot]
	if !p.PendingNuke {
		g.unicastConn(connID, Envelope{T: MsgNukeResult, Data: NukeResultMsg{Success: false}})
		return
	}
	t := msg.TargetSlot
	if t < 0 || t >= len(g.players) || t == slot || g.players[t] == nil || g.health[t] <= 0 {
		g.unicastConn(connID, Envelope{T: MsgNukeResult, Data: NukeResultMsg{Success: false}})
		return
	}

	p.PendingNuke = false
	w := SegmentWidth(g.mode)
	lo, hi := float64(t)*w, float64(t+1)*w
	destroyed := 0
	for _, b := range g.buildings {
		if b.OwnerSlot == slot {
			continue
		}
		if b.X >= lo && b.X < hi {
			g.destroyBuilding(b)
			destroyed++
		}
	}
	g.unicastConn(connID, Envelope{T: MsgNukeResult, Data: NukeResultMsg{Success: true, Destroyed: destroyed}})
	g.dirtyPlayers = true
}

// HandleStartCountdown arms the pre-game countdown on request.
func (g *Game) HandleStartCountdown(connID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.started || g.countdownOn || g.slotOf(connID) < 0 {
		return
	}
	g.beginCountdown()
}

// beginCountdown arms the countdown. Caller must hold g.mu.
func (g *Game) beginCountdown() {
	g.countdownOn = true
	g.countdown = CountdownSeconds
	g.broadcast(Envelope{T: MsgCountdownUpdate, Data: g.countdown})
}

// HandleReset rewinds the session to its pre-game state: entities cleared,
// bots evicted, humans keep their seats with fresh resources.
func (g *Game) HandleReset(connID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.slotOf(connID) < 0 {
		return
	}

	g.buildings = make(map[int]*Building)
	g.missiles = make(map[int]*Missile)
	g.drones = make(map[int]*Drone)
	g.spawners = make(map[string]*SpawnerHandle)
	g.segmentsByOwner = make(map[int][]int)
	g.botStrikeAt = make(map[int]time.Time)
	g.botLastHealth = make(map[int]int)

	for slot, p := range g.players {
		g.health[slot] = 0
		g.lastAttacker[slot] = -1
		if p == nil {
			continue
		}
		if p.IsBot {
			g.players[slot] = nil
			continue
		}
		p.Gold = InitialGold
		p.Data = InitialData
		p.Pop = InitialPop
		p.PopMax = BasePopMax
		p.CryptoBoostEnd = time.Time{}
		p.PendingNuke = false
		p.Eliminations = 0
	}

	g.started = false
	g.over = false
	g.countdownOn = false
	g.countdown = 0

	g.broadcast(Envelope{T: MsgGameReset, Data: g.snapshot()})
	g.broadcast(Envelope{T: MsgSegmentsUpdate, Data: g.segmentOwnerships()})
	g.dirtyPlayers = true
	g.dirtyHealth = true
}
