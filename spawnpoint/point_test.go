package spawnpoint

import (
	"testing"

	"github.com/milk9111/shootinggallery/common"
	"github.com/milk9111/shootinggallery/physics"
)

func TestAvailability(t *testing.T) {
	w := physics.NewWorld()
	p := New("a", common.Vec{X: 1, Y: 1}, 0.5, physics.LayerTarget, w)

	if !p.Available() {
		t.Fatalf("fresh point should be available")
	}

	p.Occupy()
	if p.Available() {
		t.Fatalf("occupied point must not be available")
	}
	p.Free()
	if !p.Available() {
		t.Fatalf("freed point should be available again")
	}

	body := w.NewCircle(0.5, physics.LayerTarget, nil)
	body.Enable(common.Vec{X: 1.3, Y: 1})
	if p.Available() {
		t.Fatalf("point overlapped by an active target must not be available")
	}
	body.Disable()
	if !p.Available() {
		t.Fatalf("point should be available once the overlapping body leaves")
	}
}

func TestMembershipFilter(t *testing.T) {
	w := physics.NewWorld()
	w.AddObstacle(common.Vec{}, 1)

	targetsOnly := New("a", common.Vec{}, 0.5, physics.LayerTarget, w)
	if !targetsOnly.Available() {
		t.Fatalf("obstacles are outside the target membership filter")
	}

	both := New("b", common.Vec{}, 0.5, physics.LayerTarget|physics.LayerObstacle, w)
	if both.Available() {
		t.Fatalf("point filtering on obstacles should be blocked")
	}
}

func TestDefaults(t *testing.T) {
	p := New("a", common.Vec{}, 0, 0, nil)
	if p.Radius() != DefaultRadius {
		t.Fatalf("expected default radius, got %v", p.Radius())
	}
	if !p.Available() {
		t.Fatalf("point without a world only checks occupancy")
	}
}
