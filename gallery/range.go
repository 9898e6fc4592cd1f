package gallery

import (
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/milk9111/shootinggallery/clock"
	"github.com/milk9111/shootinggallery/common"
	"github.com/milk9111/shootinggallery/journal"
	"github.com/milk9111/shootinggallery/physics"
	"github.com/milk9111/shootinggallery/pool"
	"github.com/milk9111/shootinggallery/prefabs"
	"github.com/milk9111/shootinggallery/score"
	"github.com/milk9111/shootinggallery/spawnpoint"
	"github.com/milk9111/shootinggallery/target"
)

// headshotBand is the share of a target's diameter, measured from its top,
// that counts as the head.
const headshotBand = 1.0 / 3

// Options configure Load. An empty Gallery loads "gallery.yaml"; a non-zero
// Seed overrides the prefab seed.
type Options struct {
	Gallery  string
	Feedback target.Feedback
	Recorder Recorder
	Rand     Rand
	Seed     int64
}

// Range assembles one playable gallery from its prefabs.
type Range struct {
	name     string
	spec     *prefabs.GallerySpec
	specs    map[*target.Template]*prefabs.TargetSpec
	rec      Recorder
	Clock    *clock.Clock
	World    *physics.World
	Pool     *TargetPool
	Points   []*spawnpoint.Point
	Spawner  *Spawner
	Board    *score.Board
	nextID   uint64
	feedback target.Feedback
}

// Shot is the outcome of one Shoot call.
type Shot struct {
	Target   *target.Target
	Headshot bool
	Applied  int
	Killed   bool
}

func Load(opts Options) (*Range, error) {
	name := opts.Gallery
	if name == "" {
		name = "gallery.yaml"
	}
	spec, err := prefabs.LoadGallery(name)
	if err != nil {
		return nil, err
	}
	templates, specs, err := LoadTemplates(spec.Targets)
	if err != nil {
		return nil, err
	}

	r := &Range{
		name:     name,
		spec:     spec,
		specs:    specs,
		rec:      opts.Recorder,
		Clock:    clock.New(),
		World:    physics.NewWorld(),
		Board:    score.NewBoard(*spec.TimeLimit),
		feedback: opts.Feedback,
	}
	if r.feedback == nil {
		r.feedback = target.NopFeedback{}
	}

	for _, o := range spec.Obstacles {
		r.World.AddObstacle(common.Vec{X: o.X, Y: o.Y}, o.Radius)
	}
	for _, p := range spec.Points {
		r.Points = append(r.Points, spawnpoint.New(p.Name, common.Vec{X: p.X, Y: p.Y}, p.Radius, physics.LayerTarget, r.World))
	}

	r.Pool, err = pool.New(r.newTarget, spec.Spawner.PoolCapacity)
	if err != nil {
		return nil, err
	}
	if n := spec.Spawner.WarmUp; n > 0 {
		for _, tmpl := range templates {
			if err := r.Pool.WarmUp(tmpl, n); err != nil {
				log.Printf("range: %v", err)
			}
		}
	}

	var rules *Rules
	if spec.Rules != "" {
		rules, err = LoadRules(spec.Rules)
		if err != nil {
			return nil, err
		}
	}

	rng := opts.Rand
	if rng == nil {
		seed := spec.Spawner.Seed
		if opts.Seed != 0 {
			seed = opts.Seed
		}
		rng = newRand(seed)
	}

	r.Spawner, err = NewSpawner(Config{
		Clock:     r.Clock,
		Pool:      r.Pool,
		Points:    r.Points,
		Templates: templates,
		Rand:      rng,
		Run:       r.Board,
		Score:     r.Board,
		Recorder:  opts.Recorder,
		Rules:     rules,
		Settings:  SettingsFromSpec(spec.Spawner),
	})
	if err != nil {
		return nil, err
	}
	r.Spawner.Start()
	log.Printf("range: loaded %s with %d templates and %d spawn points", name, len(templates), len(r.Points))
	return r, nil
}

func (r *Range) newTarget(tmpl *target.Template) (*target.Target, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("range: nil template")
	}
	r.nextID++
	return target.New(r.nextID, tmpl, target.Env{Clock: r.Clock, World: r.World, Feedback: r.feedback}), nil
}

func (r *Range) Name() string {
	return r.spec.Name
}

func (r *Range) Obstacles() []prefabs.ObstacleSpec {
	return r.spec.Obstacles
}

// Background returns the configured clear colour.
func (r *Range) Background(fallback color.Color) color.Color {
	return r.spec.Background.Or(fallback)
}

// Color returns the presentation colour of t, using the elite colour while
// the elite modifier is applied.
func (r *Range) Color(t *target.Target, fallback color.Color) color.Color {
	spec := r.specs[t.Template()]
	if spec == nil {
		return fallback
	}
	if e := t.Elite(); e != nil && e.Applied() && spec.Elite != nil && spec.Elite.Color != nil {
		return spec.Elite.Color.Or(fallback)
	}
	return spec.Color.Or(fallback)
}

// Start begins a new session, clearing the range of leftover targets. The
// spawn loop restarts, so the first spawn waits the start delay again.
func (r *Range) Start() {
	r.Spawner.Stop()
	r.Spawner.ResetState()
	r.Board.Start()
	r.Spawner.Start()
}

// Update advances the range by dt: patrol movement, then every timer due
// within dt, then the collision space.
func (r *Range) Update(dt time.Duration) {
	if dt <= 0 {
		return
	}
	for _, t := range r.Spawner.Active() {
		t.Update(dt.Seconds())
	}
	r.Board.Update(dt)
	r.Clock.Advance(dt)
	r.World.Step(dt.Seconds())
}

// TargetAt returns the active target under point, or nil.
func (r *Range) TargetAt(point common.Vec) *target.Target {
	t, _ := r.World.Pick(point, physics.LayerTarget).(*target.Target)
	if t == nil || !t.Active() {
		return nil
	}
	return t
}

// IsHeadshot reports whether point lies in the top band of t. World y grows
// downwards.
func IsHeadshot(t *target.Target, point common.Vec) bool {
	top := t.Position().Y - t.Radius()
	return point.Y <= top+2*t.Radius()*headshotBand
}

// Shoot routes a shot at point to the target under it.
func (r *Range) Shoot(point common.Vec, headshot bool, damage int) Shot {
	t := r.TargetAt(point)
	if t == nil {
		return Shot{}
	}
	wasDead := t.Dead()
	applied := t.ApplyHit(target.Hit{
		Headshot: headshot,
		Damage:   damage,
		Point:    point,
		Normal:   point.Sub(t.Position()).Normalize(),
	})
	shot := Shot{Target: t, Headshot: headshot, Applied: applied, Killed: !wasDead && t.Dead()}
	if applied > 0 && r.rec != nil {
		r.rec.Record(journal.Entry{
			Kind:     journal.KindHit,
			At:       r.Clock.Now(),
			Target:   t.ID(),
			Template: t.Template().Name,
			Headshot: headshot,
			Damage:   applied,
		})
	}
	if shot.Killed {
		r.Board.RecordKill(headshot)
	}
	return shot
}

// Reload re-reads the gallery and target prefabs and applies the spawner
// settings, templates, rules and time limit. Active targets keep running on
// their old templates; spawn points and obstacles keep their layout.
func (r *Range) Reload() error {
	spec, err := prefabs.LoadGallery(r.name)
	if err != nil {
		return err
	}
	templates, specs, err := LoadTemplates(spec.Targets)
	if err != nil {
		return err
	}
	var rules *Rules
	if spec.Rules != "" {
		if rules, err = LoadRules(spec.Rules); err != nil {
			return err
		}
	}
	if len(spec.Points) != len(r.spec.Points) || len(spec.Obstacles) != len(r.spec.Obstacles) {
		log.Printf("range: spawn layout changes in %s apply on restart", r.name)
	}

	for tmpl, s := range specs {
		r.specs[tmpl] = s
	}
	r.Spawner.ApplySettings(SettingsFromSpec(spec.Spawner))
	r.Spawner.SetTemplates(templates)
	r.Spawner.SetRules(rules)
	r.Pool.SetCapacity(spec.Spawner.PoolCapacity)
	r.Board.SetTimeLimit(*spec.TimeLimit)
	spec.Points = r.spec.Points
	spec.Obstacles = r.spec.Obstacles
	r.spec = spec
	log.Printf("range: reloaded %s", r.name)
	return nil
}
