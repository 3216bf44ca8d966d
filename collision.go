package main

import "math"

// resolveCollisions runs the per-tick interaction stages in a fixed order.
// The order matters: each stage may remove entities the next one would
// otherwise examine.
// Caller must hold g.mu.
func (g *Game) resolveCollisions() {
	g.missilesVsBases()
	g.missilesVsMissiles()
	g.interceptMissiles()
	g.missilesVsBuildings()
	g.dronesVsTargets()
}

// missilesVsBases checks each missile against the base centers ahead of it.
// Segments are walked in the travel direction to the map edge; stretches with
// the same resolved owner are passed through once, so a missile crosses its
// own (or any single owner's) territory without re-triggering.
func (g *Game) missilesVsBases() {
	n := SegmentCount(g.mode)
	for id, m := range g.missiles {
		prev := -1
		for s := SegmentIndexOf(m.X, g.mode); s >= 0 && s < n; s += m.Direction {
			owner := g.resolveOwner(s)
			if owner == prev {
				continue
			}
			prev = owner
			if owner == m.OwnerSlot {
				continue
			}
			if owner < 0 || owner >= len(g.players) || g.players[owner] == nil || g.health[owner] <= 0 {
				continue
			}
			if math.Abs(SegmentCenter(s, g.mode)-m.X) < BaseHitTolerance {
				g.damageBase(owner, m.Damage, m.OwnerSlot)
				delete(g.missiles, id)
				break
			}
		}
	}
}

// missilesVsMissiles destroys any two missiles within collision range of each
// other, ownership notwithstanding. Hits are collected first so a missile in
// several overlaps dies exactly once.
func (g *Game) missilesVsMissiles() {
	ids := make([]int, 0, len(g.missiles))
	for id := range g.missiles {
		ids = append(ids, id)
	}
	dead := make(map[int]bool)
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := g.missiles[ids[i]], g.missiles[ids[j]]
			if Distance(a.X, a.Y, b.X, b.Y) < MissileCollisionDist {
				dead[ids[i]] = true
				dead[ids[j]] = true
			}
		}
	}
	for id := range dead {
		delete(g.missiles, id)
	}
}

// interceptMissiles lets each Antimissile building destroy enemy missiles in
// its radius. Allied missiles pass through untouched.
func (g *Game) interceptMissiles() {
	for _, b := range g.buildings {
		if b.Kind != KindAntiMissile {
			continue
		}
		for id, m := range g.missiles {
			if m.OwnerSlot == b.OwnerSlot {
				continue
			}
			if Distance(b.X, b.Y, m.X, m.Y) < b.Def().Intercept {
				delete(g.missiles, id)
			}
		}
	}
}

// missilesVsBuildings detonates a missile on the first enemy building it
// overlaps, destroying both.
func (g *Game) missilesVsBuildings() {
	for id, m := range g.missiles {
		for _, b := range g.buildings {
			if b.OwnerSlot == m.OwnerSlot {
				continue
			}
			if Distance(m.X, m.Y, b.X, b.Y) < BuildingHitDist {
				g.destroyBuilding(b)
				delete(g.missiles, id)
				break
			}
		}
	}
}

// dronesVsTargets detonates drones that have reached their fixed target
// point. The target was resolved at spawn and is never re-acquired, so a
// building-bound drone re-scans the impact area for whatever stands there
// now.
func (g *Game) dronesVsTargets() {
	for id, d := range g.drones {
		if !d.AtTarget() {
			continue
		}
		switch d.TargetType {
		case TargetBuilding:
			var hit *Building
			best := DroneCollisionDist
			for _, b := range g.buildings {
				if b.OwnerSlot == d.OwnerSlot {
					continue
				}
				if dist := Distance(d.TargetX, d.TargetY, b.X, b.Y); dist < best {
					best = dist
					hit = b
				}
			}
			if hit != nil {
				g.destroyBuilding(hit)
			}
		case TargetBase:
			g.damageBase(d.TargetSlot, DroneDamage, d.OwnerSlot)
		}
		delete(g.drones, id)
	}
}
