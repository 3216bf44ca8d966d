package main

import (
	"fmt"
	"log"
)

// resolveOwner returns the slot controlling a segment: the slot whose annexed
// set contains it, or the segment's home slot when nobody has claimed it.
// Every consumer (collisions, bots, nukes, placement) goes through here.
func (g *Game) resolveOwner(seg int) int {
	for slot, segs := range g.segmentsByOwner {
		for _, s := range segs {
			if s == seg {
				return slot
			}
		}
	}
	return seg
}

// territorySegments lists every segment a slot controls, home included.
func (g *Game) territorySegments(slot int) []int {
	if segs, ok := g.segmentsByOwner[slot]; ok {
		return segs
	}
	return []int{slot}
}

// damageBase applies damage to a slot's base, clamped at zero, and triggers
// annexation when this hit is the killing blow. Self-damage is impossible;
// attackers never hurt their own base.
func (g *Game) damageBase(target, damage, attacker int) {
	if target == attacker || target < 0 || target >= len(g.health) {
		return
	}
	prev := g.health[target]
	if prev <= 0 {
		return
	}
	g.health[target] = ClampInt(prev-damage, 0, MaxHealth)
	g.lastAttacker[target] = attacker
	g.dirtyHealth = true

	if g.health[target] == 0 {
		g.annex(attacker, target)
	}
}

// annex transfers a defeated slot's whole territory to its eliminator in one
// step. Because each merge accumulates into the winner's set, a victim that
// had absorbed others hands over the entire chain at once.
func (g *Game) annex(attacker, victim int) {
	if attacker < 0 || attacker == victim {
		return
	}

	transferred := append([]int(nil), g.territorySegments(victim)...)
	delete(g.segmentsByOwner, victim)

	owned := g.territorySegments(attacker)
	for _, seg := range transferred {
		dup := false
		for _, s := range owned {
			if s == seg {
				dup = true
				break
			}
		}
		if !dup {
			owned = append(owned, seg)
		}
	}
	g.segmentsByOwner[attacker] = owned

	// Buildings inside the transferred x-ranges change hands atomically with
	// the segments. Spawner handles are rekeyed so a later stop still finds
	// them.
	w := SegmentWidth(g.mode)
	for _, seg := range transferred {
		lo, hi := float64(seg)*w, float64(seg+1)*w
		for _, b := range g.buildings {
			if b.X < lo || b.X >= hi || b.OwnerSlot == attacker {
				continue
			}
			oldKey := b.SpawnerKey()
			b.OwnerSlot = attacker
			if h, ok := g.spawners[oldKey]; ok {
				delete(g.spawners, oldKey)
				h.Key = b.SpawnerKey()
				g.spawners[h.Key] = h
			}
		}
	}

	if p := g.players[attacker]; p != nil {
		p.Eliminations++
	}
	if g.analytics != nil {
		g.analytics.Track(EvtElimination, 0, g.sessionID,
			fmt.Sprintf(`{"attacker":%d,"victim":%d}`, attacker, victim))
	}
	g.dirtySegments = true
	g.dirtyBuildings = true
	g.dirtyPlayers = true

	log.Printf("session %s: slot %d annexed slot %d (%d segments transferred)",
		g.sessionID, attacker, victim, len(transferred))
}
