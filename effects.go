package main

import (
	"github.com/milk9111/shootinggallery/common"
	"github.com/milk9111/shootinggallery/target"
)

const (
	flashTicks = 8
	deathTicks = 36
)

type flash struct {
	pos      common.Vec
	headshot bool
	left     int
}

type dying struct {
	target *target.Target
	left   int
}

// effects plays hit flashes and the death fade. The fade is the animation
// whose completion returns a killed target.
type effects struct {
	flashes []flash
	dying   []dying
	sounds  *sounds
}

func newEffects(s *sounds) *effects {
	return &effects{sounds: s}
}

func (e *effects) Hit(_ *target.Target, ev target.HitEvent) {
	e.flashes = append(e.flashes, flash{pos: ev.Point, headshot: ev.Headshot, left: flashTicks})
	if ev.Headshot {
		e.sounds.play("headshot", 0.6)
	} else {
		e.sounds.play("hit", 0.6)
	}
}

func (e *effects) Died(t *target.Target, _ bool, _ int) bool {
	e.dying = append(e.dying, dying{target: t, left: deathTicks})
	e.sounds.play("kill", 0.7)
	return true
}

func (e *effects) Cue(_ *target.Target, cue string, volume float64) {
	e.sounds.play(cue, volume)
}

func (e *effects) Update() {
	flashes := e.flashes[:0]
	for _, f := range e.flashes {
		f.left--
		if f.left > 0 {
			flashes = append(flashes, f)
		}
	}
	e.flashes = flashes

	var done []*target.Target
	dyingList := e.dying[:0]
	for _, d := range e.dying {
		d.left--
		if d.left > 0 {
			dyingList = append(dyingList, d)
			continue
		}
		done = append(done, d.target)
	}
	e.dying = dyingList
	for _, t := range done {
		t.AnimationDone()
	}
}

// fade returns the remaining opacity of a dying target, 1 when t is not
// fading.
func (e *effects) fade(t *target.Target) float32 {
	for _, d := range e.dying {
		if d.target == t {
			return float32(d.left) / deathTicks
		}
	}
	return 1
}

func (e *effects) Reset() {
	e.flashes = nil
	e.dying = nil
}
