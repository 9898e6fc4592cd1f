// Package physics wraps a Chipmunk space used for spatial queries only:
// spawn point overlap tests and patrol obstacle probes. Nothing here is
// simulated with forces; bodies are kinematic and positioned by game code.
package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/shootinggallery/common"
)

// Layer is a membership bit used for query filtering.
type Layer uint

const (
	LayerTarget Layer = 1 << iota
	LayerObstacle
)

const allLayers = ^uint(0)

// World owns the Chipmunk space.
type World struct {
	space   *cp.Space
	enabled int
}

// Body is a circle shape owned by one entity.
type Body struct {
	world   *World
	body    *cp.Body
	shape   *cp.Shape
	enabled bool
}

// NewWorld creates an empty space without gravity.
func NewWorld() *World {
	space := cp.NewSpace()
	space.Iterations = 10
	return &World{space: space}
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

// Step advances the space so kinematic bounding boxes stay current.
func (w *World) Step(dt float64) {
	if w == nil || w.space == nil || dt <= 0 {
		return
	}
	w.space.Step(dt)
}

// NewCircle creates a kinematic circle body in the given layer. The body is
// not part of any query until Enable is called.
func (w *World) NewCircle(radius float64, layer Layer, owner any) *Body {
	if w == nil {
		return nil
	}
	if radius <= 0 {
		radius = 0.5
	}
	body := cp.NewKinematicBody()
	body.UserData = owner
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetSensor(true)
	shape.SetFilter(cp.ShapeFilter{Group: 0, Categories: uint(layer), Mask: allLayers})
	shape.UserData = owner
	return &Body{world: w, body: body, shape: shape}
}

// AddObstacle registers a static circle obstacle.
func (w *World) AddObstacle(center common.Vec, radius float64) {
	if w == nil || w.space == nil || radius <= 0 {
		return
	}
	shape := cp.NewCircle(w.space.StaticBody, radius, cp.Vector{X: center.X, Y: center.Y})
	shape.SetFilter(cp.ShapeFilter{Group: 0, Categories: uint(LayerObstacle), Mask: allLayers})
	w.space.AddShape(shape)
}

// Overlaps reports whether any enabled shape in mask lies within radius of
// center. Sensors are included; the space's nearest-point query skips them.
func (w *World) Overlaps(center common.Vec, radius float64, mask Layer) bool {
	if w == nil || w.space == nil {
		return false
	}
	if radius < 0 {
		radius = 0
	}
	filter := queryFilter(mask)
	p := cp.Vector{X: center.X, Y: center.Y}
	found := false
	w.space.EachShape(func(shape *cp.Shape) {
		if found || shape.Filter.Reject(filter) {
			return
		}
		if shape.PointQuery(p).Distance <= radius {
			found = true
		}
	})
	return found
}

// Pick returns the owner of the enabled shape in mask that contains point
// most deeply, or nil.
func (w *World) Pick(point common.Vec, mask Layer) any {
	if w == nil || w.space == nil {
		return nil
	}
	filter := queryFilter(mask)
	p := cp.Vector{X: point.X, Y: point.Y}
	var owner any
	best := 0.0
	w.space.EachShape(func(shape *cp.Shape) {
		if shape.Filter.Reject(filter) {
			return
		}
		d := shape.PointQuery(p).Distance
		if d > 0 {
			return
		}
		if owner == nil || d < best {
			owner = shape.UserData
			best = d
		}
	})
	return owner
}

func queryFilter(mask Layer) cp.ShapeFilter {
	return cp.ShapeFilter{Group: 0, Categories: allLayers, Mask: uint(mask)}
}

// Blocked reports whether an obstacle lies within radius of center.
func (w *World) Blocked(center common.Vec, radius float64) bool {
	return w.Overlaps(center, radius, LayerObstacle)
}

// Enabled returns the number of bodies currently taking part in queries.
func (w *World) Enabled() int {
	if w == nil {
		return 0
	}
	return w.enabled
}

// Enable adds the body to the space at pos.
func (b *Body) Enable(pos common.Vec) {
	if b == nil {
		return
	}
	b.body.SetPosition(cp.Vector{X: pos.X, Y: pos.Y})
	if b.enabled {
		b.shape.CacheBB()
		return
	}
	b.world.space.AddBody(b.body)
	b.world.space.AddShape(b.shape)
	b.enabled = true
	b.world.enabled++
}

// Disable removes the body from the space. It is safe to call repeatedly.
func (b *Body) Disable() {
	if b == nil || !b.enabled {
		return
	}
	b.world.space.RemoveShape(b.shape)
	b.world.space.RemoveBody(b.body)
	b.enabled = false
	b.world.enabled--
}

// Enabled reports whether the body takes part in queries.
func (b *Body) Enabled() bool {
	return b != nil && b.enabled
}

// SetPosition moves the body and refreshes its cached shape transform so
// queries see the new position before the next Step.
func (b *Body) SetPosition(pos common.Vec) {
	if b == nil {
		return
	}
	b.body.SetPosition(cp.Vector{X: pos.X, Y: pos.Y})
	b.shape.CacheBB()
}

// Position returns the body position.
func (b *Body) Position() common.Vec {
	if b == nil {
		return common.Vec{}
	}
	p := b.body.Position()
	return common.Vec{X: p.X, Y: p.Y}
}
