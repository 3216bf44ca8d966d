package main

import "math"

// BuildingKind identifies a building type
type BuildingKind int

const (
	KindCryptoFarm BuildingKind = iota
	KindServer
	KindCastle
	KindMissileLauncher
	KindDroneFactory
	KindAntiMissile
	KindMedicalCenter
)

// Building type tags as they appear on the wire. The French names are part of
// the protocol contract with the client.
const (
	NameCryptoFarm      = "Crypto Farm"
	NameServer          = "Serveur"
	NameCastle          = "Château"
	NameMissileLauncher = "Lance Missile"
	NameDroneFactory    = "Usine de Drones"
	NameAntiMissile     = "Antimissile"
	NameMedicalCenter   = "Centre Médical"
)

// BuildingDef holds the static data for a building kind. Per-kind effects are
// flat bonuses consumed by the economy and regen ticks; radii are consumed by
// the collision engine.
type BuildingDef struct {
	Kind        BuildingKind
	Name        string
	BaseCost    int
	GoldPerSec  int     // Crypto Farm
	DataPerSec  int     // Serveur
	PopBonus    int     // Château
	HealPerSec  int     // Centre Médical
	SpawnPeriod float64 // seconds between spawns (launcher/factory)
	Intercept   float64 // Antimissile interception radius
	BotPriority int     // order in the bot's fallback list
}

var BuildingDefs = [...]BuildingDef{
	KindCryptoFarm:      {Kind: KindCryptoFarm, Name: NameCryptoFarm, BaseCost: 25000, GoldPerSec: 5000, BotPriority: 1},
	KindServer:          {Kind: KindServer, Name: NameServer, BaseCost: 75000, DataPerSec: 10000, BotPriority: 3},
	KindCastle:          {Kind: KindCastle, Name: NameCastle, BaseCost: 35000, PopBonus: 10, BotPriority: 5},
	KindMissileLauncher: {Kind: KindMissileLauncher, Name: NameMissileLauncher, BaseCost: 50000, SpawnPeriod: 3.0, BotPriority: 2},
	KindDroneFactory:    {Kind: KindDroneFactory, Name: NameDroneFactory, BaseCost: 55000, SpawnPeriod: 5.0, BotPriority: 7},
	KindAntiMissile:     {Kind: KindAntiMissile, Name: NameAntiMissile, BaseCost: 20000, Intercept: AntiMissileRange, BotPriority: 4},
	KindMedicalCenter:   {Kind: KindMedicalCenter, Name: NameMedicalCenter, BaseCost: 100000, HealPerSec: 1, BotPriority: 6},
}

// KindByName maps a wire tag back to its kind. Returns false for unknown tags.
func KindByName(name string) (BuildingKind, bool) {
	for _, def := range BuildingDefs {
		if def.Name == name {
			return def.Kind, true
		}
	}
	return 0, false
}

// Building is one placed building instance. The (OwnerSlot, X, Y) triplet
// doubles as the spawner-timer key; ID is the globally unique reference used
// for targeting and deletion.
type Building struct {
	ID        int
	Kind      BuildingKind
	X, Y      float64
	OwnerSlot int
	Cost      int

	// Direction is the fixed attack direction (±1), decided at creation from
	// the building's home segment midpoint.
	Direction int

	// MissileType overrides the launcher's spawned missile type when set.
	MissileType string
}

// Def returns the static definition for the building's kind.
func (b *Building) Def() BuildingDef {
	return BuildingDefs[b.Kind]
}

// SpawnerKey identifies the building for the spawner registry.
func (b *Building) SpawnerKey() string {
	return spawnerKey(b.OwnerSlot, b.X, b.Y)
}

// DynamicCost returns the price of the next building of a kind for a slot:
// base × 2^(already built), an exponential sink against spamming one type.
func DynamicCost(kind BuildingKind, existing int) int {
	return BuildingDefs[kind].BaseCost * int(math.Pow(2, float64(existing)))
}

// ToState converts to protocol state
func (b *Building) ToState() BuildingState {
	return BuildingState{
		ID:        b.ID,
		Name:      b.Def().Name,
		X:         round1(b.X),
		Y:         round1(b.Y),
		OwnerSlot: b.OwnerSlot,
		Cost:      b.Cost,
	}
}
