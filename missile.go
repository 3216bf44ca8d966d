package main

// Missile tuning. Speeds are logical units per 16ms tick; a missile leaving
// one map edge reappears at the opposite edge (toroidal horizontal topology).
const (
	MissileCollisionDist = 8.0  // missile-vs-missile
	BaseHitTolerance     = 10.0 // missile-vs-base, around segment center
	BuildingHitDist      = 20.0 // missile-vs-building
	AntiMissileRange     = 50.0
)

// Missile type tags
const (
	MissileRapide = "rapide"
	MissileFurtif = "furtif"
	MissileLourd  = "lourd"
)

// MissileDef holds the per-type stats for player-launched missiles.
type MissileDef struct {
	Damage int
	Speed  float64
	Radius float64
	Cost   int
}

var MissileTypes = map[string]MissileDef{
	MissileRapide: {Damage: 1, Speed: 7, Radius: 3, Cost: 10000},
	MissileFurtif: {Damage: 2, Speed: 4, Radius: 5, Cost: 50000},
	MissileLourd:  {Damage: 5, Speed: 2, Radius: 7, Cost: 100000},
}

// MissileTypeOrDefault returns the requested type tag, falling back to rapide.
func MissileTypeOrDefault(t string) string {
	if _, ok := MissileTypes[t]; ok {
		return t
	}
	return MissileRapide
}

// Missile is one projectile in flight. Direction is ±1 and fixed at creation;
// motion is purely horizontal.
type Missile struct {
	ID        int
	X, Y      float64
	OwnerSlot int
	Direction int
	Type      string
	Speed     float64
	Damage    int
	Radius    float64
	CreatedAt int64 // unix millis
}

// Advance moves the missile one tick and wraps it at the map edges. Wrapping
// never destroys the missile.
func (m *Missile) Advance() {
	m.X += float64(m.Direction) * m.Speed
	if m.X < 0 {
		m.X = MapWidth
	} else if m.X > MapWidth {
		m.X = 0
	}
}

// ToState converts to protocol state
func (m *Missile) ToState() MissileState {
	return MissileState{
		ID:        m.ID,
		X:         round1(m.X),
		Y:         round1(m.Y),
		OwnerSlot: m.OwnerSlot,
		Direction: m.Direction,
		Type:      m.Type,
		Radius:    m.Radius,
	}
}
