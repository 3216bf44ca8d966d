package main

import (
	"log"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	SimTickPeriod     = 16 * time.Millisecond
	EconomyPeriod     = time.Second
	BotDecisionPeriod = 3 * time.Second

	CountdownSeconds = 3
	MaxHealth        = 100
	MinHumansToStart = 2
)

// GameMode selects the map layout: 8 segments or a 2-segment duel.
type GameMode string

const (
	ModeStandard GameMode = "standard"
	ModeDuel     GameMode = "1v1"
)

// ModeOrDefault normalizes a client-supplied mode string.
func ModeOrDefault(s string) GameMode {
	if GameMode(s) == ModeDuel {
		return ModeDuel
	}
	return ModeStandard
}

// Broadcaster interface for sending messages to clients
type Broadcaster interface {
	SendJSON(msg Envelope)
	SendBinary(data []byte)
}

// Game holds the authoritative state for one session. All mutation happens
// under mu: client events validate-then-commit inside a single critical
// section, and the tick loop takes the same lock, so no tick can observe a
// half-applied request.
type Game struct {
	mu        sync.Mutex
	sessionID string
	mode      GameMode

	players      []*Player // index = slot, nil = empty
	health       []int     // one value per slot, [0,100]
	lastAttacker []int     // most recent damager per slot, -1 = none

	// segmentsByOwner maps a slot to every segment it controls, its own
	// included, once it has annexed at least one. Slots absent from the map
	// implicitly own their home segment only.
	segmentsByOwner map[int][]int

	buildings map[int]*Building
	missiles  map[int]*Missile
	drones    map[int]*Drone
	spawners  map[string]*SpawnerHandle

	clients map[string]Broadcaster // connID -> client
	slots   map[string]int         // connID -> slot

	nextBuildingID int
	nextMissileID  int
	nextDroneID    int

	started      bool
	over         bool
	overReported bool
	countdown    int
	countdownOn  bool

	// botStrikeAt throttles each bot's air strikes; botLastHealth feeds the
	// trending-down threat signal.
	botStrikeAt   map[int]time.Time
	botLastHealth map[int]int

	dirtyBuildings bool
	dirtyPlayers   bool
	dirtyHealth    bool
	dirtySegments  bool

	tick    uint64
	running bool
	stopCh  chan struct{}

	startedAt time.Time

	// analytics may be nil; Track never blocks, so calls are safe from the
	// tick path.
	analytics *Analytics

	// onGameOver is invoked (outside mu) when a winner is decided; the
	// session layer uses it for match recording.
	onGameOver func(winnerSlot int, players []*Player, mode GameMode, duration time.Duration)
}

// NewGame creates an empty session state for a mode.
func NewGame(sessionID string, mode GameMode) *Game {
	n := SegmentCount(mode)
	g := &Game{
		sessionID:       sessionID,
		mode:            mode,
		players:         make([]*Player, n),
		health:          make([]int, n),
		lastAttacker:    make([]int, n),
		segmentsByOwner: make(map[int][]int),
		buildings:       make(map[int]*Building),
		missiles:        make(map[int]*Missile),
		drones:          make(map[int]*Drone),
		spawners:        make(map[string]*SpawnerHandle),
		clients:         make(map[string]Broadcaster),
		slots:           make(map[string]int),
		botStrikeAt:     make(map[int]time.Time),
		botLastHealth:   make(map[int]int),
		stopCh:          make(chan struct{}),
	}
	for i := range g.lastAttacker {
		g.lastAttacker[i] = -1
	}
	return g
}

// Run drives all per-session timers on one goroutine: the 16ms simulation
// tick, the 1s economy/regen/countdown tick and the 3s bot decision tick.
func (g *Game) Run() {
	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	sim := time.NewTicker(SimTickPeriod)
	sec := time.NewTicker(EconomyPeriod)
	bot := time.NewTicker(BotDecisionPeriod)
	defer sim.Stop()
	defer sec.Stop()
	defer bot.Stop()

	for {
		select {
		case <-sim.C:
			g.update(time.Now())
		case <-sec.C:
			g.secondTick(time.Now())
		case <-bot.C:
			g.botTick(time.Now())
		case <-g.stopCh:
			return
		}
	}
}

// Stop terminates the game loop
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		g.running = false
		close(g.stopCh)
	}
}

// update runs one simulation tick: motion, spawners, collisions, broadcast.
func (g *Game) update(now time.Time) {
	g.mu.Lock()
	g.tick++

	if g.started && !g.over {
		for _, m := range g.missiles {
			m.Advance()
		}
		for _, d := range g.drones {
			d.Advance()
		}
		g.runSpawners(now)
		g.resolveCollisions()
		g.checkGameOver()
	}

	g.flushDirty()
	if g.started && !g.over {
		g.broadcastEntities()
	}

	var cb func(int, []*Player, GameMode, time.Duration)
	var winner int
	var players []*Player
	var duration time.Duration
	if g.over && !g.overReported && g.onGameOver != nil {
		cb = g.onGameOver
		g.overReported = true
		winner = g.winnerSlot()
		players = append([]*Player(nil), g.players...)
		duration = now.Sub(g.startedAt)
	}
	mode := g.mode
	g.mu.Unlock()

	if cb != nil {
		cb(winner, players, mode, duration)
	}
}

// secondTick applies one second of economy, health regeneration and the
// pre-game countdown.
func (g *Game) secondTick(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.countdownOn && !g.started {
		g.countdown--
		g.broadcast(Envelope{T: MsgCountdownUpdate, Data: g.countdown})
		if g.countdown <= 0 {
			g.countdownOn = false
			g.startGame(now)
		}
		return
	}

	if !g.started || g.over {
		return
	}

	for slot, p := range g.players {
		if p == nil || g.health[slot] <= 0 {
			continue
		}
		if !p.IsBot {
			g.accrueResources(slot, now)
			g.sendResources(slot)
		}
		if heal := g.countBuildings(slot, KindMedicalCenter) * BuildingDefs[KindMedicalCenter].HealPerSec; heal > 0 {
			h := ClampInt(g.health[slot]+heal, 0, MaxHealth)
			if h != g.health[slot] {
				g.health[slot] = h
				g.dirtyHealth = true
			}
		}
	}
	g.dirtyPlayers = true
}

// botTick runs one decision round for every living bot. Bots accrue the same
// per-second production as humans, caught up here in one lump.
func (g *Game) botTick(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.started || g.over {
		return
	}
	secs := int(BotDecisionPeriod / time.Second)
	for slot, p := range g.players {
		if p == nil || !p.IsBot || g.health[slot] <= 0 {
			continue
		}
		for i := 0; i < secs; i++ {
			g.accrueResources(slot, now)
		}
		g.botThink(slot, now)
	}
	g.dirtyPlayers = true
}

// startGame fills empty slots with bots, shuffles everyone onto final slots
// and opens the match.
func (g *Game) startGame(now time.Time) {
	g.fillBots()
	g.shuffleSlots()

	for slot, p := range g.players {
		if p != nil {
			g.health[slot] = MaxHealth
		} else {
			g.health[slot] = 0
		}
		g.lastAttacker[slot] = -1
	}
	g.started = true
	g.over = false
	g.overReported = false
	g.startedAt = now

	for connID, slot := range g.slots {
		g.unicastConn(connID, Envelope{T: MsgYourIndex, Data: slot})
	}
	snap := g.snapshot()
	g.broadcast(Envelope{T: MsgGameStarted, Data: snap})
	g.broadcast(Envelope{T: MsgBlackMarketUpdate, Data: BlackMarketCatalog})
	g.dirtyPlayers = true
	g.dirtyHealth = true

	if g.analytics != nil {
		g.analytics.Track(EvtMatchStart, 0, g.sessionID, `{"mode":"`+string(g.mode)+`"}`)
	}
	log.Printf("session %s: game started, mode=%s", g.sessionID, g.mode)
}

// shuffleSlots permutes occupied slots so join order does not fix map
// position, then rewires the connID -> slot table to match.
func (g *Game) shuffleSlots() {
	n := len(g.players)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := int(randFloat() * float64(i+1))
		if j > i {
			j = i
		}
		perm[i], perm[j] = perm[j], perm[i]
	}

	shuffled := make([]*Player, n)
	for from, to := range perm {
		shuffled[to] = g.players[from]
	}
	g.players = shuffled

	for connID, old := range g.slots {
		g.slots[connID] = perm[old]
	}
}

// checkGameOver flips the session to finished once at most one occupied slot
// is still alive.
func (g *Game) checkGameOver() {
	if g.over {
		return
	}
	living := 0
	occupied := 0
	for slot, p := range g.players {
		if p == nil {
			continue
		}
		occupied++
		if g.health[slot] > 0 {
			living++
		}
	}
	if occupied < 2 || living > 1 {
		return
	}
	g.over = true
	winner := g.winnerSlot()
	msg := GameOverMsg{WinnerSlot: winner}
	if winner >= 0 && g.players[winner] != nil {
		msg.Pseudo = g.players[winner].Pseudo
	}
	g.broadcast(Envelope{T: MsgGameOver, Data: msg})
	log.Printf("session %s: game over, winner slot %d", g.sessionID, winner)
}

// winnerSlot returns the surviving slot, or -1 when the game is still open
// or nobody survived.
func (g *Game) winnerSlot() int {
	if !g.over {
		return -1
	}
	for slot, p := range g.players {
		if p != nil && g.health[slot] > 0 {
			return slot
		}
	}
	return -1
}

// HumanCount counts connected human players.
func (g *Game) HumanCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.humanCount()
}

// humanCount counts connected human players. Caller must hold g.mu.
func (g *Game) humanCount() int {
	n := 0
	for _, p := range g.players {
		if p != nil && !p.IsBot {
			n++
		}
	}
	return n
}

// snapshot captures the full entity state for game_started / game_reset.
func (g *Game) snapshot() GameSnapshot {
	snap := GameSnapshot{
		Buildings: make([]BuildingState, 0, len(g.buildings)),
		Missiles:  make([]MissileState, 0, len(g.missiles)),
		Drones:    make([]DroneState, 0, len(g.drones)),
		Health:    append([]int(nil), g.health...),
	}
	for _, b := range g.buildings {
		snap.Buildings = append(snap.Buildings, b.ToState())
	}
	for _, m := range g.missiles {
		snap.Missiles = append(snap.Missiles, m.ToState())
	}
	for _, d := range g.drones {
		snap.Drones = append(snap.Drones, d.ToState())
	}
	return snap
}

// destroyBuilding removes a building and synchronously cancels its spawner.
func (g *Game) destroyBuilding(b *Building) {
	g.stopSpawner(b)
	delete(g.buildings, b.ID)
	g.dirtyBuildings = true
}

// flushDirty sends the JSON state updates whose collections changed this
// tick. Fast-moving entities are excluded; they ride the binary frame.
func (g *Game) flushDirty() {
	if g.dirtyBuildings {
		g.dirtyBuildings = false
		states := make([]BuildingState, 0, len(g.buildings))
		for _, b := range g.buildings {
			states = append(states, b.ToState())
		}
		g.broadcast(Envelope{T: MsgBuildingsUpdate, Data: states})
	}
	if g.dirtyPlayers {
		g.dirtyPlayers = false
		states := make([]*PlayerState, len(g.players))
		for slot, p := range g.players {
			if p != nil {
				s := p.ToState()
				states[slot] = &s
			}
		}
		g.broadcast(Envelope{T: MsgPlayersUpdate, Data: states})
	}
	if g.dirtyHealth {
		g.dirtyHealth = false
		g.broadcast(Envelope{T: MsgHealthUpdate, Data: append([]int(nil), g.health...)})
	}
	if g.dirtySegments {
		g.dirtySegments = false
		g.broadcast(Envelope{T: MsgSegmentsUpdate, Data: g.segmentOwnerships()})
	}
}

// segmentOwnerships lists, for every slot with at least one annexed segment,
// its full current segment set.
func (g *Game) segmentOwnerships() []SegmentOwnership {
	out := make([]SegmentOwnership, 0, len(g.segmentsByOwner))
	for slot, segs := range g.segmentsByOwner {
		out = append(out, SegmentOwnership{
			OwnerSlot: slot,
			Segments:  append([]int(nil), segs...),
		})
	}
	return out
}

// broadcastEntities packs the missile and drone collections into one msgpack
// frame per tick. Binary keeps the 60Hz stream an order of magnitude smaller
// than the equivalent JSON.
func (g *Game) broadcastEntities() {
	snap := EntitySnapshot{T: MsgMissilesUpdate}
	for _, m := range g.missiles {
		snap.Missiles = append(snap.Missiles, m.ToState())
	}
	for _, d := range g.drones {
		snap.Drones = append(snap.Drones, d.ToState())
	}
	data, err := msgpack.Marshal(snap)
	if err != nil {
		log.Printf("session %s: entity snapshot encode: %v", g.sessionID, err)
		return
	}
	for _, c := range g.clients {
		c.SendBinary(data)
	}
}

// broadcast sends a JSON message to every client in the session.
func (g *Game) broadcast(msg Envelope) {
	for _, c := range g.clients {
		c.SendJSON(msg)
	}
}

// unicastConn sends a JSON message to one connection.
func (g *Game) unicastConn(connID string, msg Envelope) {
	if c, ok := g.clients[connID]; ok {
		c.SendJSON(msg)
	}
}

// unicastSlot sends a JSON message to the human occupying a slot, if any.
func (g *Game) unicastSlot(slot int, msg Envelope) {
	for connID, s := range g.slots {
		if s == slot {
			g.unicastConn(connID, msg)
			return
		}
	}
}

// slotOf resolves a connection to its slot. Returns -1 for unknown conns.
func (g *Game) slotOf(connID string) int {
	if slot, ok := g.slots[connID]; ok {
		return slot
	}
	return -1
}

// sendResources pushes the authoritative resource counters to a slot's
// client. The server is the only source of truth for gold/data/population.
func (g *Game) sendResources(slot int) {
	p := g.players[slot]
	if p == nil || p.IsBot {
		return
	}
	g.unicastSlot(slot, Envelope{T: MsgResourcesUpdate, Data: ResourcesMsg{
		Gold:   p.Gold,
		Data:   p.Data,
		Pop:    p.Pop,
		PopMax: p.PopMax,
	}})
}
