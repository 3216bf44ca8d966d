package main

import (
	"fmt"
	"math"
	"time"
)

// spawnerKey identifies a spawning building by its (slot, x, y) triplet. The
// slot is the building's current owner; annexation rekeys live handles when it
// reassigns a building, so stopSpawner always finds them.
func spawnerKey(slot int, x, y float64) string {
	return fmt.Sprintf("%d:%.1f:%.1f", slot, x, y)
}

// SpawnerHandle is one registered recurring spawner. Scheduling is driven by
// the simulation tick rather than a goroutine per building, so cancelling is
// a plain map delete and can never race a pending callback.
type SpawnerHandle struct {
	Key        string
	BuildingID int
	Period     time.Duration
	NextAt     time.Time
}

// startSpawner registers a spawner for a building and fires it immediately.
// Duplicate starts for the same building identity are no-ops.
// Caller must hold g.mu.
func (g *Game) startSpawner(b *Building, now time.Time) {
	key := b.SpawnerKey()
	if _, ok := g.spawners[key]; ok {
		return
	}
	period := time.Duration(b.Def().SpawnPeriod * float64(time.Second))
	if period <= 0 {
		return
	}
	g.spawners[key] = &SpawnerHandle{
		Key:        key,
		BuildingID: b.ID,
		Period:     period,
		NextAt:     now.Add(period),
	}
	g.fireSpawner(b, now)
}

// stopSpawner cancels a building's spawner synchronously. Safe to call for
// buildings that never had one.
// Caller must hold g.mu.
func (g *Game) stopSpawner(b *Building) {
	delete(g.spawners, b.SpawnerKey())
}

// runSpawners fires every due spawner. A handle whose building has vanished
// without an explicit stop is dropped here as a safety net.
// Caller must hold g.mu.
func (g *Game) runSpawners(now time.Time) {
	for key, h := range g.spawners {
		if now.Before(h.NextAt) {
			continue
		}
		b, ok := g.buildings[h.BuildingID]
		if !ok {
			delete(g.spawners, key)
			continue
		}
		h.NextAt = now.Add(h.Period)
		g.fireSpawner(b, now)
	}
}

// fireSpawner produces one entity from a spawning building.
func (g *Game) fireSpawner(b *Building, now time.Time) {
	switch b.Kind {
	case KindMissileLauncher:
		g.spawnMissileFrom(b, now)
	case KindDroneFactory:
		g.spawnDroneFrom(b, now)
	}
}

// spawnMissileFrom creates one missile of the launcher's configured type,
// travelling in the launcher's fixed attack direction.
func (g *Game) spawnMissileFrom(b *Building, now time.Time) {
	g.spawnMissile(b, MissileTypeOrDefault(b.MissileType), now)
}

// spawnMissile creates one missile of an explicit type from a launcher.
func (g *Game) spawnMissile(b *Building, t string, now time.Time) {
	def := MissileTypes[t]
	g.nextMissileID++
	m := &Missile{
		ID:        g.nextMissileID,
		X:         b.X,
		Y:         b.Y,
		OwnerSlot: b.OwnerSlot,
		Direction: b.Direction,
		Type:      t,
		Speed:     def.Speed,
		Damage:    def.Damage,
		Radius:    def.Radius,
		CreatedAt: now.UnixMilli(),
	}
	g.missiles[m.ID] = m
}

// spawnDroneFrom creates one drone aimed at a target resolved now. When no
// target exists the spawn cycle is skipped, not deferred.
func (g *Game) spawnDroneFrom(b *Building, now time.Time) {
	target, ok := g.acquireDroneTarget(b)
	if !ok {
		return
	}
	g.nextDroneID++
	d := &Drone{
		ID:         g.nextDroneID,
		X:          b.X,
		Y:          b.Y,
		OwnerSlot:  b.OwnerSlot,
		TargetX:    target.x,
		TargetY:    target.y,
		TargetType: target.kind,
		TargetID:   target.id,
		TargetSlot: target.slot,
		CreatedAt:  now.UnixMilli(),
	}
	g.drones[d.ID] = d
}

type droneTarget struct {
	x, y float64
	kind string
	id   int
	slot int
}

// acquireDroneTarget picks the nearest enemy Antimissile in the factory's
// facing direction, falling back to the nearest living enemy base. Distances
// are measured along the facing direction with wraparound, matching how the
// drone will actually approach.
func (g *Game) acquireDroneTarget(b *Building) (droneTarget, bool) {
	owner := b.OwnerSlot

	dirDist := func(tx float64) float64 {
		d := (tx - b.X) * float64(b.Direction)
		if d < 0 {
			d += MapWidth
		}
		return d
	}

	var target droneTarget
	found := false
	best := math.MaxFloat64

	for _, t := range g.buildings {
		if t.Kind != KindAntiMissile || t.OwnerSlot == owner {
			continue
		}
		if d := dirDist(t.X); d < best {
			best = d
			target = droneTarget{x: t.X, y: t.Y, kind: TargetBuilding, id: t.ID}
			found = true
		}
	}
	if found {
		return target, true
	}

	for slot, p := range g.players {
		if p == nil || g.health[slot] <= 0 || slot == owner {
			continue
		}
		cx := SegmentCenter(slot, g.mode)
		if d := dirDist(cx); d < best {
			best = d
			target = droneTarget{x: cx, y: DroneBaseTargetY, kind: TargetBase, slot: slot}
			found = true
		}
	}
	return target, found
}
