package main

import "testing"

func TestMissileAdvance(t *testing.T) {
	m := &Missile{X: 100, Direction: 1, Speed: 7}
	m.Advance()
	if m.X != 107 {
		t.Errorf("expected x=107, got %f", m.X)
	}
	m.Direction = -1
	m.Advance()
	if m.X != 100 {
		t.Errorf("expected x=100, got %f", m.X)
	}
}

func TestMissileWraparound(t *testing.T) {
	m := &Missile{X: MapWidth - 1, Direction: 1, Speed: 7, Type: MissileRapide, Damage: 1}
	m.Advance()
	if m.X < 0 || m.X > MapWidth {
		t.Errorf("x should stay in [0, %f], got %f", MapWidth, m.X)
	}
	if m.X != 0 {
		t.Errorf("expected wrap to 0, got %f", m.X)
	}
	// Wrapping preserves direction and every other field
	if m.Direction != 1 || m.Type != MissileRapide || m.Damage != 1 {
		t.Error("wrap must not alter missile fields")
	}

	m2 := &Missile{X: 1, Direction: -1, Speed: 7}
	m2.Advance()
	if m2.X != MapWidth {
		t.Errorf("expected wrap to %f, got %f", MapWidth, m2.X)
	}
	if m2.Direction != -1 {
		t.Error("wrap must preserve direction")
	}
}

func TestMissileTypeOrDefault(t *testing.T) {
	if MissileTypeOrDefault(MissileLourd) != MissileLourd {
		t.Error("known type should pass through")
	}
	if MissileTypeOrDefault("plasma") != MissileRapide {
		t.Error("unknown type should fall back to rapide")
	}
	if MissileTypeOrDefault("") != MissileRapide {
		t.Error("empty type should fall back to rapide")
	}
}

func TestDroneAdvance(t *testing.T) {
	d := &Drone{X: 0, Y: 0, TargetX: 30, TargetY: 40}
	d.Advance()
	// Unit vector toward (30,40) is (0.6, 0.8)
	if d.X < 0.59 || d.X > 0.61 || d.Y < 0.79 || d.Y > 0.81 {
		t.Errorf("expected (0.6, 0.8), got (%f, %f)", d.X, d.Y)
	}
}

func TestDroneAtTarget(t *testing.T) {
	d := &Drone{X: 100, Y: 100, TargetX: 110, TargetY: 100}
	if !d.AtTarget() {
		t.Error("drone within collision range should be at target")
	}
	d.TargetX = 100 + DroneCollisionDist + 1
	if d.AtTarget() {
		t.Error("drone outside collision range should not be at target")
	}
}
