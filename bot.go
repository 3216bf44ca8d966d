package main

import (
	"sort"
	"time"
)

const (
	botRichThreshold  = 300000
	botThreatHealth   = 50
	botPlaceAttempts  = 20
	botPlaceMargin    = 30.0
	botBuildingGap    = 50.0
	botStrikeCooldown = 20 * time.Second
	botStrikeReserve  = 400000
)

var botNames = []string{
	"Kessler", "Moreau", "Volkov", "Tanaka", "Okafor", "Lindgren", "Duarte", "Petrov",
}

// botBuildCap limits how many of each kind a bot will ever stack.
var botBuildCap = map[BuildingKind]int{
	KindCryptoFarm:      5,
	KindServer:          3,
	KindCastle:          2,
	KindMissileLauncher: 3,
	KindDroneFactory:    2,
	KindAntiMissile:     2,
	KindMedicalCenter:   1,
}

// fillBots seats a bot in every empty slot. Duel sessions stay human-only;
// an eight-slot map with two humans plays badly without filler opponents.
func (g *Game) fillBots() {
	if g.mode == ModeDuel {
		return
	}
	next := 0
	for slot, p := range g.players {
		if p != nil {
			continue
		}
		name := botNames[next%len(botNames)]
		next++
		g.players[slot] = NewBotPlayer(name)
	}
}

// botThink runs one decision round for a bot: at most one building this
// tick, plus an occasional air strike when flush.
func (g *Game) botThink(slot int, now time.Time) {
	if kind, ok := g.botChooseBuild(slot); ok {
		if x, y, placed := g.botPlacement(slot); placed {
			cost := g.dynamicCostFor(slot, kind)
			g.players[slot].Gold -= cost
			g.placeBuilding(slot, kind, x, y, cost, now)
		}
	}
	g.botConsiderStrike(slot, now)
	g.botLastHealth[slot] = g.health[slot]
}

// botChooseBuild walks the build policy in priority order and returns the
// first kind that is both wanted and affordable.
func (g *Game) botChooseBuild(slot int) (BuildingKind, bool) {
	p := g.players[slot]
	count := func(k BuildingKind) int { return g.countBuildings(slot, k) }
	afford := func(k BuildingKind) bool { return p.Gold >= g.dynamicCostFor(slot, k) }

	// An economy must exist before anything else.
	if count(KindCryptoFarm) == 0 {
		if afford(KindCryptoFarm) {
			return KindCryptoFarm, true
		}
		return 0, false
	}
	if count(KindMissileLauncher) == 0 && afford(KindMissileLauncher) {
		return KindMissileLauncher, true
	}

	// Under threat, defense outranks expansion.
	if g.health[slot] < botThreatHealth || g.health[slot] < g.botLastHealth[slot] {
		if count(KindAntiMissile) < botBuildCap[KindAntiMissile] && afford(KindAntiMissile) {
			return KindAntiMissile, true
		}
		if count(KindMedicalCenter) < botBuildCap[KindMedicalCenter] && afford(KindMedicalCenter) {
			return KindMedicalCenter, true
		}
	}

	// Winning or rich: press the advantage.
	if len(g.territorySegments(slot)) > 2 || p.Gold > botRichThreshold {
		if count(KindMissileLauncher) < botBuildCap[KindMissileLauncher] && afford(KindMissileLauncher) {
			return KindMissileLauncher, true
		}
		if count(KindDroneFactory) < botBuildCap[KindDroneFactory] && afford(KindDroneFactory) {
			return KindDroneFactory, true
		}
	}

	// Low on income: grow production. Servers wait until a launcher exists.
	if count(KindCryptoFarm) < 3 && afford(KindCryptoFarm) {
		return KindCryptoFarm, true
	}
	if count(KindServer) == 0 && count(KindMissileLauncher) > 0 && afford(KindServer) {
		return KindServer, true
	}

	// Last resort: anything still under its cap, cheapest priority first.
	kinds := make([]BuildingKind, 0, len(BuildingDefs))
	for _, def := range BuildingDefs {
		kinds = append(kinds, def.Kind)
	}
	sort.Slice(kinds, func(i, j int) bool {
		return BuildingDefs[kinds[i]].BotPriority < BuildingDefs[kinds[j]].BotPriority
	})
	for _, k := range kinds {
		if k == KindServer && count(KindMissileLauncher) == 0 {
			continue
		}
		if count(k) < botBuildCap[k] && afford(k) {
			return k, true
		}
	}
	return 0, false
}

// botPlacement picks a free spot inside the bot's home segment: inside the
// build band with a margin, off the health-bar strip, and at least a minimum
// gap from every existing building. Gives up for this tick after a bounded
// number of attempts.
func (g *Game) botPlacement(slot int) (float64, float64, bool) {
	w := SegmentWidth(g.mode)
	lo := float64(slot) * w

	for attempt := 0; attempt < botPlaceAttempts; attempt++ {
		x := lo + botPlaceMargin + randFloat()*(w-2*botPlaceMargin)
		y := BuildAreaTop + botPlaceMargin + randFloat()*(BuildAreaBottom-BuildAreaTop-2*botPlaceMargin)

		if IsOnHealthBar(x, y, slot, g.mode) {
			continue
		}
		clear := true
		for _, b := range g.buildings {
			if Distance(x, y, b.X, b.Y) < botBuildingGap {
				clear = false
				break
			}
		}
		if clear {
			return x, y, true
		}
	}
	return 0, 0, false
}

// botConsiderStrike drops an air strike on the densest reachable enemy spot
// when the bot has gold to burn, throttled per bot.
func (g *Game) botConsiderStrike(slot int, now time.Time) {
	p := g.players[slot]
	if p.Gold < botStrikeReserve {
		return
	}
	if last, ok := g.botStrikeAt[slot]; ok && now.Sub(last) < botStrikeCooldown {
		return
	}

	var target *Building
	bestScore := 1
	for _, b := range g.buildings {
		if b.OwnerSlot == slot {
			continue
		}
		score := 0
		for _, other := range g.buildings {
			if other.OwnerSlot == slot {
				continue
			}
			if Distance(b.X, b.Y, other.X, other.Y) <= AirStrikeRadius {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			target = b
		}
	}
	if target == nil {
		return
	}

	p.Gold -= AirStrikeCost
	g.airStrike(slot, target.X, target.Y)
	g.botStrikeAt[slot] = now
	g.dirtyPlayers = true
}
