package physics

import (
	"testing"

	"github.com/milk9111/shootinggallery/common"
)

func TestOverlapsOnlyEnabledBodies(t *testing.T) {
	w := NewWorld()
	b := w.NewCircle(0.5, LayerTarget, "t1")

	if w.Overlaps(common.Vec{}, 0.5, LayerTarget) {
		t.Fatalf("disabled body must not overlap")
	}

	b.Enable(common.Vec{X: 0.2})
	if !w.Overlaps(common.Vec{}, 0.5, LayerTarget) {
		t.Fatalf("enabled body should overlap the query point")
	}
	if w.Overlaps(common.Vec{}, 0.5, LayerObstacle) {
		t.Fatalf("target layer must be filtered out by an obstacle mask")
	}

	b.SetPosition(common.Vec{X: 10})
	if w.Overlaps(common.Vec{}, 0.5, LayerTarget) {
		t.Fatalf("moved body should no longer overlap")
	}

	b.Disable()
	b.Disable()
	if w.Enabled() != 0 {
		t.Fatalf("expected 0 enabled bodies, got %d", w.Enabled())
	}
}

func TestBlocked(t *testing.T) {
	w := NewWorld()
	w.AddObstacle(common.Vec{X: 5, Y: 0}, 1)

	cases := []struct {
		name string
		at   common.Vec
		want bool
	}{
		{"inside", common.Vec{X: 5, Y: 0}, true},
		{"near_edge", common.Vec{X: 3.8, Y: 0}, true},
		{"far", common.Vec{X: 0, Y: 0}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := w.Blocked(tc.at, 0.5); got != tc.want {
				t.Fatalf("Blocked(%v) = %v, want %v", tc.at, got, tc.want)
			}
		})
	}
}

func TestPick(t *testing.T) {
	w := NewWorld()
	a := w.NewCircle(1, LayerTarget, "a")
	b := w.NewCircle(1, LayerTarget, "b")
	a.Enable(common.Vec{X: 0, Y: 0})
	b.Enable(common.Vec{X: 1.5, Y: 0})
	w.AddObstacle(common.Vec{X: 10, Y: 0}, 1)

	cases := []struct {
		name string
		at   common.Vec
		want any
	}{
		{"center_a", common.Vec{X: 0, Y: 0}, "a"},
		{"overlap_prefers_deeper", common.Vec{X: 0.8, Y: 0}, "b"},
		{"miss", common.Vec{X: 5, Y: 5}, nil},
		{"obstacle_filtered", common.Vec{X: 10, Y: 0}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := w.Pick(tc.at, LayerTarget); got != tc.want {
				t.Fatalf("Pick(%v) = %v, want %v", tc.at, got, tc.want)
			}
		})
	}

	b.Disable()
	if got := w.Pick(common.Vec{X: 1.5, Y: 0}, LayerTarget); got != nil {
		t.Fatalf("disabled body should not be picked, got %v", got)
	}
}

func TestQueriesSeeMovedSensorsBeforeStep(t *testing.T) {
	w := NewWorld()
	b := w.NewCircle(0.5, LayerTarget, "t1")
	b.Enable(common.Vec{X: 0, Y: 0})

	b.SetPosition(common.Vec{X: 4, Y: 0})
	if w.Overlaps(common.Vec{}, 0.1, LayerTarget) {
		t.Fatalf("old position still reported after move")
	}
	if !w.Overlaps(common.Vec{X: 4, Y: 0}, 0.1, LayerTarget) {
		t.Fatalf("sensor at the new position was not found")
	}
	if got := w.Pick(common.Vec{X: 4.2, Y: 0}, LayerTarget); got != "t1" {
		t.Fatalf("Pick after move = %v, want t1", got)
	}

	w.Step(1.0 / 60)
	if got := w.Pick(common.Vec{X: 4, Y: 0}, LayerTarget); got != "t1" {
		t.Fatalf("Pick after step = %v, want t1", got)
	}
}
