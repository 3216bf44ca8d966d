package main

import (
	"testing"
	"time"
)

func TestSpawnerStartIdempotent(t *testing.T) {
	g := NewGame("test", ModeStandard)
	g.players[0] = NewBotPlayer("a")
	g.players[1] = NewBotPlayer("b")
	g.health[1] = MaxHealth
	now := time.Now()

	b := g.placeBuilding(0, KindMissileLauncher, 50, 200, 0, now)
	if len(g.spawners) != 1 {
		t.Fatalf("expected 1 spawner, got %d", len(g.spawners))
	}
	// Starting fires one missile immediately
	if len(g.missiles) != 1 {
		t.Errorf("start should spawn one missile, got %d", len(g.missiles))
	}

	g.startSpawner(b, now)
	g.startSpawner(b, now)
	if len(g.spawners) != 1 {
		t.Errorf("duplicate starts must be no-ops, got %d spawners", len(g.spawners))
	}
	if len(g.missiles) != 1 {
		t.Errorf("duplicate starts must not spawn, got %d missiles", len(g.missiles))
	}
}

func TestSpawnerStopIsSynchronous(t *testing.T) {
	g := NewGame("test", ModeStandard)
	g.players[0] = NewBotPlayer("a")
	now := time.Now()

	b := g.placeBuilding(0, KindMissileLauncher, 50, 200, 0, now)
	g.destroyBuilding(b)
	if len(g.spawners) != 0 {
		t.Fatal("destroying the building must cancel its spawner")
	}

	// A fire time in the past must not produce anything after the stop
	before := len(g.missiles)
	g.runSpawners(now.Add(time.Minute))
	if len(g.missiles) != before {
		t.Error("cancelled spawner must never fire")
	}
}

func TestSpawnerPeriod(t *testing.T) {
	g := NewGame("test", ModeStandard)
	g.players[0] = NewBotPlayer("a")
	now := time.Now()

	g.placeBuilding(0, KindMissileLauncher, 50, 200, 0, now)
	if len(g.missiles) != 1 {
		t.Fatalf("expected the immediate spawn, got %d", len(g.missiles))
	}

	g.runSpawners(now.Add(time.Second))
	if len(g.missiles) != 1 {
		t.Errorf("spawner fired before its period, got %d missiles", len(g.missiles))
	}
	g.runSpawners(now.Add(3100 * time.Millisecond))
	if len(g.missiles) != 2 {
		t.Errorf("spawner should have fired after 3s, got %d missiles", len(g.missiles))
	}
}

func TestSpawnedMissileUsesLauncherConfig(t *testing.T) {
	g := NewGame("test", ModeStandard)
	g.players[0] = NewBotPlayer("a")
	now := time.Now()

	b := g.placeBuilding(0, KindMissileLauncher, 50, 200, 0, now)
	b.MissileType = MissileLourd
	g.runSpawners(now.Add(4 * time.Second))

	found := false
	for _, m := range g.missiles {
		if m.Type == MissileLourd {
			found = true
			if m.Damage != MissileTypes[MissileLourd].Damage {
				t.Errorf("lourd damage mismatch: %d", m.Damage)
			}
			if m.Direction != b.Direction {
				t.Error("missile should inherit the launcher direction")
			}
		}
	}
	if !found {
		t.Error("expected a lourd missile after set_missile_type")
	}
}

func TestDroneTargetsAntimissileFirst(t *testing.T) {
	g := NewGame("test", ModeStandard)
	g.players[0] = NewBotPlayer("a")
	g.players[3] = NewBotPlayer("b")
	g.health[3] = MaxHealth
	now := time.Now()

	am := g.placeBuilding(3, KindAntiMissile, SegmentCenter(3, ModeStandard)+40, 300, 0, now)
	factory := &Building{ID: 99, Kind: KindDroneFactory, X: 200, Y: 300, OwnerSlot: 0, Direction: 1}
	g.buildings[factory.ID] = factory

	g.spawnDroneFrom(factory, now)
	if len(g.drones) != 1 {
		t.Fatalf("expected 1 drone, got %d", len(g.drones))
	}
	for _, d := range g.drones {
		if d.TargetType != TargetBuilding || d.TargetID != am.ID {
			t.Errorf("drone should target the antimissile, got %+v", d)
		}
	}
}

func TestDroneFallsBackToBase(t *testing.T) {
	g := NewGame("test", ModeStandard)
	g.players[0] = NewBotPlayer("a")
	g.players[3] = NewBotPlayer("b")
	g.health[3] = MaxHealth
	now := time.Now()

	factory := &Building{ID: 99, Kind: KindDroneFactory, X: 200, Y: 300, OwnerSlot: 0, Direction: 1}
	g.buildings[factory.ID] = factory

	g.spawnDroneFrom(factory, now)
	if len(g.drones) != 1 {
		t.Fatalf("expected 1 drone, got %d", len(g.drones))
	}
	for _, d := range g.drones {
		if d.TargetType != TargetBase || d.TargetSlot != 3 {
			t.Errorf("drone should target slot 3's base, got %+v", d)
		}
		if d.TargetX != SegmentCenter(3, ModeStandard) || d.TargetY != DroneBaseTargetY {
			t.Errorf("drone base target point mismatch: (%f, %f)", d.TargetX, d.TargetY)
		}
	}
}

func TestDroneSkipsSpawnWithoutTarget(t *testing.T) {
	g := NewGame("test", ModeStandard)
	g.players[0] = NewBotPlayer("a")
	now := time.Now()

	factory := &Building{ID: 99, Kind: KindDroneFactory, X: 200, Y: 300, OwnerSlot: 0, Direction: 1}
	g.buildings[factory.ID] = factory

	g.spawnDroneFrom(factory, now)
	if len(g.drones) != 0 {
		t.Errorf("no living enemy means no spawn, got %d drones", len(g.drones))
	}
}
