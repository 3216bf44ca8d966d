package main

import "math"

const (
	DroneSpeed         = 1.0 // units per tick, slower than missiles
	DroneDamage        = 50
	DroneCollisionDist = 15.0
	DroneBaseTargetY   = 350.0 // vertical center of a base
)

// Drone target kinds
const (
	TargetBuilding = "building"
	TargetBase     = "base"
)

// Drone flies in a straight line toward a target resolved at spawn time.
// The target is never re-acquired: if it moves or dies the drone still
// detonates at the recorded point.
type Drone struct {
	ID         int
	X, Y       float64
	OwnerSlot  int
	TargetX    float64
	TargetY    float64
	TargetType string
	TargetID   int
	TargetSlot int // valid when TargetType == TargetBase
	CreatedAt  int64
}

// Advance moves the drone one tick along the straight line to its target.
func (d *Drone) Advance() {
	dx := d.TargetX - d.X
	dy := d.TargetY - d.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist > 0 {
		d.X += (dx / dist) * DroneSpeed
		d.Y += (dy / dist) * DroneSpeed
	}
}

// AtTarget reports whether the drone is within collision range of its target.
func (d *Drone) AtTarget() bool {
	return Distance(d.X, d.Y, d.TargetX, d.TargetY) < DroneCollisionDist
}

// ToState converts to protocol state
func (d *Drone) ToState() DroneState {
	return DroneState{
		ID:        d.ID,
		X:         round1(d.X),
		Y:         round1(d.Y),
		OwnerSlot: d.OwnerSlot,
		TargetX:   round1(d.TargetX),
		TargetY:   round1(d.TargetY),
	}
}
