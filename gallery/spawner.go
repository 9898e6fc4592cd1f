// Package gallery schedules target spawns across spawn points and ties the
// pool, the targets and their modifiers together.
package gallery

import (
	"errors"
	"log"
	"time"

	"github.com/milk9111/shootinggallery/clock"
	"github.com/milk9111/shootinggallery/journal"
	"github.com/milk9111/shootinggallery/pool"
	"github.com/milk9111/shootinggallery/spawnpoint"
	"github.com/milk9111/shootinggallery/target"
)

var (
	ErrNoTemplates     = errors.New("gallery: no target templates configured")
	ErrNoSpawnPoints   = errors.New("gallery: no spawn points configured")
	ErrMissingModifier = errors.New("gallery: template lacks the requested modifier")
	ErrNoClock         = errors.New("gallery: spawner needs a clock")
	ErrNoPool          = errors.New("gallery: spawner needs a pool")
)

const minLoopDelay = time.Millisecond

// TargetPool is the pool of target instances keyed by template.
type TargetPool = pool.Pool[*target.Template, *target.Target]

// RunSignal gates the spawn loop.
type RunSignal interface {
	Running() bool
}

// ScoreSink receives the score of every kill.
type ScoreSink interface {
	AddScore(amount int)
}

// Recorder receives journal entries for spawner events.
type Recorder interface {
	Record(e journal.Entry)
}

type Settings struct {
	MaxActive  int
	StartDelay time.Duration
	SpawnDelay time.Duration
	IdlePoll   time.Duration
	Elite      Category
	Moving     Category
	AllowBoth  bool
	Debug      bool
}

type Config struct {
	Clock     *clock.Clock
	Pool      *TargetPool
	Points    []*spawnpoint.Point
	Templates []*target.Template
	Rand      Rand
	Run       RunSignal
	Score     ScoreSink
	Recorder  Recorder
	Rules     *Rules
	Settings  Settings
}

type Stats struct {
	Spawned  int
	Killed   int
	Expired  int
	Returned int
	Elite    int
	Moving   int
	Failed   int
}

// Spawner owns the active list and the spawn point registry.
type Spawner struct {
	clock     *clock.Clock
	pool      *TargetPool
	points    []*spawnpoint.Point
	templates []*target.Template
	retired   map[*target.Template]bool
	rng       Rand
	run       RunSignal
	score     ScoreSink
	rec       Recorder
	rules     *Rules

	settings Settings
	policy   Policy
	spawns   int
	active   []*target.Target
	loop     *clock.Task
	stats    Stats
	warned   error
}

func NewSpawner(cfg Config) (*Spawner, error) {
	if cfg.Clock == nil {
		return nil, ErrNoClock
	}
	if cfg.Pool == nil {
		return nil, ErrNoPool
	}
	rng := cfg.Rand
	if rng == nil {
		rng = newRand(0)
	}
	s := &Spawner{
		clock:     cfg.Clock,
		pool:      cfg.Pool,
		points:    cfg.Points,
		templates: cfg.Templates,
		retired:   make(map[*target.Template]bool),
		rng:       rng,
		run:       cfg.Run,
		score:     cfg.Score,
		rec:       cfg.Recorder,
		rules:     cfg.Rules,
	}
	s.ApplySettings(cfg.Settings)
	return s, nil
}

// ApplySettings replaces the spawner settings. Active targets and the
// category counters are left as they are.
func (s *Spawner) ApplySettings(set Settings) {
	if set.MaxActive < 0 {
		set.MaxActive = 0
	}
	if set.StartDelay < 0 {
		set.StartDelay = 0
	}
	if set.IdlePoll < minLoopDelay {
		set.IdlePoll = 16 * time.Millisecond
	}
	s.settings = set
	s.policy.Elite = set.Elite
	s.policy.Moving = set.Moving
	s.policy.AllowBoth = set.AllowBoth
}

func (s *Spawner) Settings() Settings {
	return s.settings
}

// SetTemplates swaps the template list. Instances of dropped templates are
// discarded once they come back from play.
func (s *Spawner) SetTemplates(templates []*target.Template) {
	keep := make(map[*target.Template]bool, len(templates))
	for _, t := range templates {
		keep[t] = true
		delete(s.retired, t)
	}
	for _, t := range s.templates {
		if !keep[t] {
			s.retired[t] = true
			s.pool.Drain(t)
		}
	}
	s.templates = templates
	s.warned = nil
}

func (s *Spawner) Templates() []*target.Template {
	return s.templates
}

// SetRules replaces the rules script; nil disables it.
func (s *Spawner) SetRules(r *Rules) {
	s.rules = r
}

func (s *Spawner) Points() []*spawnpoint.Point {
	return s.points
}

// Start schedules the loop after the start delay. It is a no-op while the
// loop is already scheduled.
func (s *Spawner) Start() {
	if s.loop != nil {
		return
	}
	s.loop = s.clock.After(s.settings.StartDelay, s.tick)
}

func (s *Spawner) Stop() {
	if s.loop != nil {
		s.loop.Cancel()
		s.loop = nil
	}
}

// Started reports whether the loop is scheduled.
func (s *Spawner) Started() bool {
	return s.loop != nil
}

func (s *Spawner) tick() {
	s.loop = nil
	if s.run != nil && !s.run.Running() {
		s.schedule(s.settings.IdlePoll)
		return
	}
	s.Prune()
	if len(s.active) < s.settings.MaxActive {
		if pt := s.pickPoint(s.rng.Intn); pt != nil {
			s.spawnAt(pt)
		}
	}
	s.schedule(s.settings.SpawnDelay)
}

func (s *Spawner) schedule(d time.Duration) {
	if d < minLoopDelay {
		d = minLoopDelay
	}
	s.loop = s.clock.After(d, s.tick)
}

// SpawnOne attempts one spawn right away, scanning points from the first.
// It still honours the max-active limit.
func (s *Spawner) SpawnOne() (*target.Target, bool) {
	s.Prune()
	if len(s.active) >= s.settings.MaxActive {
		return nil, false
	}
	pt := s.pickPoint(func(int) int { return 0 })
	if pt == nil {
		return nil, false
	}
	t := s.spawnAt(pt)
	return t, t != nil
}

// pickPoint scans the registry from a random start with wraparound and
// returns the first available point.
func (s *Spawner) pickPoint(start func(n int) int) *spawnpoint.Point {
	n := len(s.points)
	if n == 0 {
		s.warnOnce(ErrNoSpawnPoints)
		return nil
	}
	first := start(n)
	for i := 0; i < n; i++ {
		pt := s.points[(first+i)%n]
		if pt != nil && pt.Available() {
			return pt
		}
	}
	return nil
}

func (s *Spawner) spawnAt(pt *spawnpoint.Point) *target.Target {
	if len(s.templates) == 0 {
		s.warnOnce(ErrNoTemplates)
		return nil
	}
	tmpl := s.templates[s.rng.Intn(len(s.templates))]

	t, err := s.pool.Acquire(tmpl)
	if err != nil {
		s.stats.Failed++
		log.Printf("gallery: acquire %s: %v", tmpl, err)
		return nil
	}
	t.Reset()
	t.SetOrigin(pt)

	s.spawns++
	d := s.policy.Decide(s.rng, s.rewrite(tmpl))

	elite, moving := d.Elite, d.Moving
	if elite && t.Elite() == nil {
		log.Printf("gallery: %s elite spawn: %v", tmpl, ErrMissingModifier)
		elite = false
	}
	if moving && t.Patrol() == nil {
		log.Printf("gallery: %s moving spawn: %v", tmpl, ErrMissingModifier)
		moving = false
	}
	if e := t.Elite(); e != nil {
		e.Apply(elite)
	}
	if p := t.Patrol(); p != nil {
		p.Apply(moving, pt.Position())
	}
	t.Finalize()

	t.OnKilled(func(score int) { s.handleKilled(t, score) })
	t.OnReturned(s.handleReturned)

	if err := t.Activate(pt.Position()); err != nil {
		s.stats.Failed++
		log.Printf("gallery: activate %s#%d: %v", tmpl, t.ID(), err)
		s.unwire(t)
		s.pool.Release(t)
		return nil
	}
	pt.Occupy()
	s.active = append(s.active, t)

	s.stats.Spawned++
	if elite {
		s.stats.Elite++
	}
	if moving {
		s.stats.Moving++
	}
	if s.settings.Debug {
		log.Printf("gallery: spawn#%d template=%s point=%s elite=%v moving=%v (forceE=%v, forceM=%v)",
			s.spawns, tmpl, pt.Name(), elite, moving, d.ForcedElite, d.ForcedMoving)
	}
	s.record(journal.KindSpawn, t, func(e *journal.Entry) {
		e.Elite = elite
		e.Moving = moving
	})
	return t
}

func (s *Spawner) rewrite(tmpl *target.Template) Rewrite {
	if s.rules == nil {
		return nil
	}
	return func(elite, moving bool) (bool, bool) {
		e, m, err := s.rules.Eval(RuleInput{
			Spawn:     s.spawns,
			Active:    len(s.active),
			MaxActive: s.settings.MaxActive,
			Template:  tmpl.Name,
			Elite:     elite,
			Moving:    moving,
		})
		if err != nil {
			log.Printf("%v", err)
		}
		return e, m
	}
}

func (s *Spawner) handleKilled(t *target.Target, score int) {
	s.stats.Killed++
	if s.score != nil {
		s.score.AddScore(score)
	}
	s.record(journal.KindKill, t, func(e *journal.Entry) { e.Score = score })
}

func (s *Spawner) handleReturned(t *target.Target) {
	if t.Expired() {
		s.stats.Expired++
		s.record(journal.KindExpire, t, nil)
	}
	s.reclaim(t)
}

// reclaim is the return path. It reports false when t is not in the
// active list.
func (s *Spawner) reclaim(t *target.Target) bool {
	idx := -1
	for i, a := range s.active {
		if a == t {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	s.unwire(t)
	t.Deactivate()
	if pt := t.Origin(); pt != nil {
		pt.Free()
	}
	if e := t.Elite(); e != nil {
		e.Apply(false)
	}
	if p := t.Patrol(); p != nil {
		p.Apply(false, p.Anchor())
	}
	s.record(journal.KindReturn, t, nil)
	t.SetOrigin(nil)
	s.pool.Release(t)
	if s.retired[t.Template()] {
		s.pool.Drain(t.Template())
	}
	s.active = append(s.active[:idx], s.active[idx+1:]...)
	s.stats.Returned++
	return true
}

func (s *Spawner) unwire(t *target.Target) {
	t.OnKilled(nil)
	t.OnReturned(nil)
}

// Prune reclaims active entries that went inactive out-of-band.
func (s *Spawner) Prune() int {
	var stale []*target.Target
	for _, t := range s.active {
		if !t.Active() {
			stale = append(stale, t)
		}
	}
	for _, t := range stale {
		s.reclaim(t)
	}
	return len(stale)
}

// ResetState returns every active target, frees every point and zeroes the
// counters. The loop keeps its schedule.
func (s *Spawner) ResetState() {
	for len(s.active) > 0 {
		t := s.active[len(s.active)-1]
		if !s.reclaim(t) {
			s.active = s.active[:len(s.active)-1]
		}
	}
	for _, pt := range s.points {
		if pt != nil {
			pt.Free()
		}
	}
	s.policy.Reset()
	s.spawns = 0
}

func (s *Spawner) Active() []*target.Target {
	out := make([]*target.Target, len(s.active))
	copy(out, s.active)
	return out
}

func (s *Spawner) ActiveCount() int {
	return len(s.active)
}

// Spawns returns the spawn counter since the last reset.
func (s *Spawner) Spawns() int {
	return s.spawns
}

func (s *Spawner) Counters() (elite, moving int) {
	return s.policy.Counters()
}

func (s *Spawner) Stats() Stats {
	return s.stats
}

func (s *Spawner) record(kind journal.Kind, t *target.Target, fill func(e *journal.Entry)) {
	if s.rec == nil {
		return
	}
	e := journal.Entry{
		Kind:     kind,
		At:       s.clock.Now(),
		Target:   t.ID(),
		Template: t.Template().Name,
	}
	if pt := t.Origin(); pt != nil {
		e.Point = pt.Name()
	}
	if fill != nil {
		fill(&e)
	}
	s.rec.Record(e)
}

func (s *Spawner) warnOnce(err error) {
	if errors.Is(s.warned, err) {
		return
	}
	s.warned = err
	log.Printf("gallery: spawn skipped: %v", err)
}
