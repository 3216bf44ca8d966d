package main

// The map is a fixed logical strip of MapWidth units split evenly into
// segments, one per player slot. All positions on the wire use this unit so
// geometry is consistent across clients regardless of viewport size.
const (
	MapWidth = 1920.0

	// Vertical band where buildings may be placed.
	BuildAreaTop    = 140.0
	BuildAreaBottom = 560.0

	// Each segment reserves a thin vertical strip at its center for the
	// health bar; nothing may be built on it.
	HealthBarHalfWidth = 8.0
)

// SegmentCount returns the number of map segments for a game mode.
func SegmentCount(mode GameMode) int {
	if mode == ModeDuel {
		return 2
	}
	return 8
}

// SegmentWidth returns the width of one segment for a game mode.
func SegmentWidth(mode GameMode) float64 {
	return MapWidth / float64(SegmentCount(mode))
}

// SegmentIndexOf maps an x coordinate to its segment index, clamped to the
// valid range so edge coordinates never index out of bounds.
func SegmentIndexOf(x float64, mode GameMode) int {
	n := SegmentCount(mode)
	idx := int(x / SegmentWidth(mode))
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

// SegmentCenter returns the horizontal center of a segment. This is where the
// slot's base sits and where missiles check for base hits.
func SegmentCenter(seg int, mode GameMode) float64 {
	w := SegmentWidth(mode)
	return float64(seg)*w + w/2
}

// FireDirection decides which way a building fires. The choice is made once,
// at creation, against the midpoint of the segment the building physically
// sits in (its home segment — conquest never changes it): left half fires
// toward decreasing x, right half toward increasing x.
func FireDirection(x float64, mode GameMode) int {
	if x < SegmentCenter(SegmentIndexOf(x, mode), mode) {
		return -1
	}
	return 1
}

// IsOnHealthBar reports whether a point lies on the reserved health-bar strip
// of the given slot's home segment.
func IsOnHealthBar(x, y float64, slot int, mode GameMode) bool {
	center := SegmentCenter(slot, mode)
	return x >= center-HealthBarHalfWidth && x <= center+HealthBarHalfWidth &&
		y >= BuildAreaTop && y <= BuildAreaBottom
}
