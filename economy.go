package main

import "time"

// Economy tuning. Gold ("crypto") buys buildings and black market items; data
// is the secondary resource produced by servers; population is capped by
// castles. All three accrue once per real second for living players.
const (
	InitialGold = 30000
	InitialData = 100000
	InitialPop  = 10

	BaseGoldPerSec = 1000
	BaseDataPerSec = 20000
	BasePopPerSec  = 1
	BasePopMax     = 20

	CryptoBoostDuration = 15 * time.Second

	AirStrikeRadius = 100.0
	AirStrikeCost   = 150000
	NukeCost        = 200000
)

// Black market effect tags
const (
	EffectNuke        = "nuke_segment"
	EffectCryptoBoost = "crypto_boost"
	EffectHeal        = "heal_base"
	EffectReveal      = "reveal"
)

// BlackMarketItem is a purchasable one-shot effect
type BlackMarketItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Icon        string `json:"icon"`
	Effect      string `json:"effect"`
}

// BlackMarketCatalog is the full list of purchasable items. All items are on
// offer permanently.
var BlackMarketCatalog = []BlackMarketItem{
	{ID: "nuke", Name: "Missile nucléaire", Description: "Détruit tous les bâtiments d'un segment adverse.", Price: NukeCost, Icon: "☢️", Effect: EffectNuke},
	{ID: "crypto_boost", Name: "Boost de Production", Description: "Double votre production de crypto pendant 15 secondes.", Price: 250000, Icon: "⚡", Effect: EffectCryptoBoost},
	{ID: "heal", Name: "Sérum de Résurrection", Description: "Rend toute la vie à votre base principale.", Price: 120000, Icon: "💉", Effect: EffectHeal},
	{ID: "spy", Name: "Espionnage", Description: "Révèle tous les bâtiments adverses pendant 30s.", Price: 80000, Icon: "🕵️", Effect: EffectReveal},
}

// BlackMarketItemByID returns the catalog entry for an id
func BlackMarketItemByID(id string) (BlackMarketItem, bool) {
	for _, item := range BlackMarketCatalog {
		if item.ID == id {
			return item, true
		}
	}
	return BlackMarketItem{}, false
}

// countBuildings returns how many buildings of a kind a slot owns
func (g *Game) countBuildings(slot int, kind BuildingKind) int {
	n := 0
	for _, b := range g.buildings {
		if b.OwnerSlot == slot && b.Kind == kind {
			n++
		}
	}
	return n
}

// dynamicCostFor prices the next building of a kind for a slot
func (g *Game) dynamicCostFor(slot int, kind BuildingKind) int {
	return DynamicCost(kind, g.countBuildings(slot, kind))
}

// productionFor computes one second of production for a slot from its
// buildings: base rates plus per-building bonuses.
func (g *Game) productionFor(slot int) (gold, data int) {
	gold = BaseGoldPerSec + g.countBuildings(slot, KindCryptoFarm)*BuildingDefs[KindCryptoFarm].GoldPerSec
	data = BaseDataPerSec + g.countBuildings(slot, KindServer)*BuildingDefs[KindServer].DataPerSec
	return gold, data
}

// accrueResources applies one second of production to a slot, honoring the
// crypto boost and dropping it once expired.
func (g *Game) accrueResources(slot int, now time.Time) {
	p := g.players[slot]
	if p == nil {
		return
	}
	gold, data := g.productionFor(slot)
	if p.BoostActive(now) {
		gold *= 2
	} else if !p.CryptoBoostEnd.IsZero() {
		p.CryptoBoostEnd = time.Time{}
	}
	p.Gold += gold
	p.Data += data

	p.PopMax = BasePopMax + g.countBuildings(slot, KindCastle)*BuildingDefs[KindCastle].PopBonus
	p.Pop = ClampInt(p.Pop+BasePopPerSec, 0, p.PopMax)
}
