package common

import "testing"

func TestCeilScaled(t *testing.T) {
	cases := []struct {
		v    int
		m    float64
		want int
	}{
		{20, 1.5, 30},
		{10, 1.5, 15},
		{10, 1.1, 11},
		{7, 1.5, 11},
		{0, 2, 0},
		{25, 1, 25},
	}
	for _, c := range cases {
		if got := CeilScaled(c.v, c.m); got != c.want {
			t.Fatalf("CeilScaled(%d, %v) = %d, want %d", c.v, c.m, got, c.want)
		}
	}
}

func TestMoveTowards(t *testing.T) {
	got := MoveTowards(Vec{}, Vec{X: 3, Y: 4}, 1)
	if Distance(got, Vec{X: 0.6, Y: 0.8}) > 1e-9 {
		t.Fatalf("unexpected step %v", got)
	}
	if got := MoveTowards(Vec{}, Vec{X: 0.5}, 1); got != (Vec{X: 0.5}) {
		t.Fatalf("overshoot must clamp to the target, got %v", got)
	}
	if got := (Vec{}).Normalize(); got != (Vec{}) {
		t.Fatalf("zero vector must normalize to zero, got %v", got)
	}
}
