package score

import (
	"testing"
	"time"
)

func TestBoardSession(t *testing.T) {
	b := NewBoard(2 * time.Second)
	ended := -1
	b.OnEnd(func(total int) { ended = total })

	b.AddScore(5)
	if b.Running() {
		t.Fatalf("board should not run before Start")
	}
	b.Start()
	if b.Total() != 0 {
		t.Fatalf("start must clear the total, got %d", b.Total())
	}
	b.AddScore(10)
	b.AddScore(15)
	b.RecordKill(true)
	b.RecordKill(false)

	b.Update(1500 * time.Millisecond)
	if !b.Running() || b.Clock() != "00:01" {
		t.Fatalf("expected running with 00:01 left, got %v %s", b.Running(), b.Clock())
	}
	b.Update(time.Second)
	if b.Running() {
		t.Fatalf("board should end at the time limit")
	}
	if ended != 25 || b.Best() != 25 || b.TimeLeft() != 0 {
		t.Fatalf("unexpected end state: ended=%d best=%d left=%v", ended, b.Best(), b.TimeLeft())
	}
	if b.Kills() != 2 || b.Headshots() != 1 {
		t.Fatalf("unexpected tallies %d/%d", b.Kills(), b.Headshots())
	}
}

func TestBoardEndIdempotent(t *testing.T) {
	b := NewBoard(0)
	calls := 0
	b.OnEnd(func(int) { calls++ })
	b.End()
	b.Start()
	b.Update(time.Hour)
	if !b.Running() {
		t.Fatalf("zero limit must not end on its own")
	}
	b.End()
	b.End()
	if calls != 1 {
		t.Fatalf("expected one end notification, got %d", calls)
	}
}

func TestBoardClock(t *testing.T) {
	cases := []struct {
		left time.Duration
		want string
	}{
		{60 * time.Second, "01:00"},
		{59100 * time.Millisecond, "01:00"},
		{900 * time.Millisecond, "00:01"},
		{0, "00:00"},
	}
	for _, c := range cases {
		t.Run(c.want, func(t *testing.T) {
			b := NewBoard(c.left)
			if got := b.Clock(); got != c.want {
				t.Fatalf("Clock(%v) = %s, want %s", c.left, got, c.want)
			}
		})
	}
}
