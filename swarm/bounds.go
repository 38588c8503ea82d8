package swarm

// Vertical limits of the flight domain. Not configurable.
const (
	FloorY   = 0.0
	CeilingY = 10.0
)

// Interval is a closed range on one axis.
type Interval struct {
	Min, Max float64
}

// Contains reports whether v lies inside the interval.
func (i Interval) Contains(v float64) bool {
	return v >= i.Min && v <= i.Max
}

// Bounds is the horizontal box steering the velocity kernel.
type Bounds struct {
	X Interval
	Z Interval
}

// DefaultBounds returns the domain used when none is configured.
func DefaultBounds() Bounds {
	return Bounds{
		X: Interval{Min: -20, Max: 20},
		Z: Interval{Min: -10, Max: 10},
	}
}

// NewBounds builds bounds from raw limits. Reversed limits are swapped.
func NewBounds(minX, maxX, minZ, maxZ float64) Bounds {
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	if minZ > maxZ {
		minZ, maxZ = maxZ, minZ
	}
	return Bounds{
		X: Interval{Min: minX, Max: maxX},
		Z: Interval{Min: minZ, Max: maxZ},
	}
}

// Inside reports whether a position lies within the full flight domain,
// including the fixed vertical range.
func (b Bounds) Inside(x, y, z float64) bool {
	return b.X.Contains(x) && b.Z.Contains(z) && y >= FloorY && y <= CeilingY
}
