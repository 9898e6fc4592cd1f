// Package score keeps the running total of a timed gallery session.
package score

import (
	"fmt"
	"log"
	"math"
	"time"
)

const DefaultTimeLimit = 60 * time.Second

// Board accumulates score while a session is running and ends the session
// when its time limit runs out. A zero time limit never ends on its own.
type Board struct {
	limit     time.Duration
	left      time.Duration
	total     int
	best      int
	kills     int
	headshots int
	running   bool

	onEnd func(total int)
}

func NewBoard(limit time.Duration) *Board {
	if limit < 0 {
		limit = 0
	}
	return &Board{limit: limit, left: limit}
}

// OnEnd installs the single session-end listener.
func (b *Board) OnEnd(fn func(total int)) {
	b.onEnd = fn
}

func (b *Board) SetTimeLimit(limit time.Duration) {
	if limit < 0 {
		limit = 0
	}
	b.limit = limit
	if !b.running {
		b.left = limit
	}
}

// Start clears the tallies and begins a new session.
func (b *Board) Start() {
	b.total = 0
	b.kills = 0
	b.headshots = 0
	b.left = b.limit
	b.running = true
	log.Printf("score: session started, limit=%v", b.limit)
}

// End stops the session. It is a no-op when nothing is running.
func (b *Board) End() {
	if !b.running {
		return
	}
	b.running = false
	if b.total > b.best {
		b.best = b.total
		log.Printf("score: new best %d", b.best)
	}
	log.Printf("score: session ended, total=%d kills=%d headshots=%d", b.total, b.kills, b.headshots)
	if b.onEnd != nil {
		b.onEnd(b.total)
	}
}

// Update counts down the remaining time.
func (b *Board) Update(dt time.Duration) {
	if !b.running || b.limit == 0 || dt <= 0 {
		return
	}
	b.left -= dt
	if b.left <= 0 {
		b.left = 0
		b.End()
	}
}

// Running is the spawner's run signal.
func (b *Board) Running() bool {
	return b.running
}

func (b *Board) AddScore(amount int) {
	b.total += amount
}

// RecordKill tallies a kill; headshot kills are counted separately.
func (b *Board) RecordKill(headshot bool) {
	b.kills++
	if headshot {
		b.headshots++
	}
}

// Reset zeroes the total without touching the session state.
func (b *Board) Reset() {
	b.total = 0
}

func (b *Board) Total() int {
	return b.total
}

func (b *Board) Best() int {
	return b.best
}

func (b *Board) Kills() int {
	return b.kills
}

func (b *Board) Headshots() int {
	return b.headshots
}

func (b *Board) TimeLeft() time.Duration {
	return b.left
}

// Clock formats the remaining time as MM:SS, rounding partial seconds up.
func (b *Board) Clock() string {
	sec := int(math.Ceil(b.left.Seconds()))
	return fmt.Sprintf("%02d:%02d", sec/60, sec%60)
}
