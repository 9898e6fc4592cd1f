// Package spawnpoint implements placement slots with occupancy tracking.
package spawnpoint

import (
	"github.com/milk9111/shootinggallery/common"
	"github.com/milk9111/shootinggallery/physics"
)

const DefaultRadius = 0.5

// Point is one placement slot. Occupy and Free are the only mutators of the
// occupied flag.
type Point struct {
	name     string
	pos      common.Vec
	radius   float64
	mask     physics.Layer
	world    *physics.World
	occupied bool
}

// New creates a free point. A nil world disables the overlap check.
func New(name string, pos common.Vec, radius float64, mask physics.Layer, world *physics.World) *Point {
	if radius <= 0 {
		radius = DefaultRadius
	}
	if mask == 0 {
		mask = physics.LayerTarget
	}
	return &Point{name: name, pos: pos, radius: radius, mask: mask, world: world}
}

func (p *Point) Name() string {
	return p.name
}

func (p *Point) Position() common.Vec {
	return p.pos
}

func (p *Point) Radius() float64 {
	return p.radius
}

// Available is true when the point is free and no enabled body in the
// membership mask lies within its radius.
func (p *Point) Available() bool {
	if p == nil || p.occupied {
		return false
	}
	return !p.world.Overlaps(p.pos, p.radius, p.mask)
}

func (p *Point) Occupy() {
	p.occupied = true
}

func (p *Point) Free() {
	p.occupied = false
}

func (p *Point) Occupied() bool {
	return p.occupied
}
