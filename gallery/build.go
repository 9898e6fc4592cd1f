package gallery

import (
	"math/rand"
	"time"

	"github.com/milk9111/shootinggallery/common"
	"github.com/milk9111/shootinggallery/prefabs"
	"github.com/milk9111/shootinggallery/target"
)

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// SettingsFromSpec converts a defaulted spawner prefab into settings.
func SettingsFromSpec(s prefabs.SpawnerSpec) Settings {
	allowBoth := true
	if s.AllowBoth != nil {
		allowBoth = *s.AllowBoth
	}
	return Settings{
		MaxActive:  s.MaxActive,
		StartDelay: s.StartDelay,
		SpawnDelay: s.SpawnDelay,
		IdlePoll:   s.IdlePoll,
		Elite:      Category{Every: s.Elite.Every(), Chance: s.Elite.Probability()},
		Moving:     Category{Every: s.Moving.Every(), Chance: s.Moving.Probability()},
		AllowBoth:  allowBoth,
		Debug:      s.Debug,
	}
}

// TemplateFromSpec converts a defaulted target prefab into a template.
// Modifier overrides of zero become absent overrides.
func TemplateFromSpec(s *prefabs.TargetSpec) *target.Template {
	tmpl := &target.Template{
		Name:               s.Name,
		MaxHP:              s.MaxHP,
		Score:              target.DefaultScore,
		HeadshotMultiplier: s.HeadshotMultiplier,
		Radius:             s.Radius,
		Material:           s.Material,
		DeathHold:          target.DefaultDeathHold,
		Watchdog:           s.Watchdog,
		Lifetime:           s.Lifetime,
	}
	if s.Score != nil {
		tmpl.Score = *s.Score
	}
	if s.DeathHold != nil {
		tmpl.DeathHold = *s.DeathHold
	}
	if e := s.Elite; e != nil {
		tmpl.Elite = &target.EliteConfig{
			HP:       target.FromConfig(e.HP),
			Score:    target.FromConfig(e.Score),
			Material: e.Material,
			Audio:    e.Audio,
			Volume:   e.Volume,
		}
	}
	if p := s.Patrol; p != nil {
		wait := target.DefaultPatrolWait
		if p.WaitOnTurn != nil {
			wait = *p.WaitOnTurn
		}
		tmpl.Patrol = &target.PatrolConfig{
			Speed:          p.Speed,
			Range:          p.Range,
			WaitOnTurn:     wait,
			ObstacleProbe:  p.ObstacleProbe,
			Axis:           common.Vec{X: p.AxisX, Y: p.AxisY},
			StartDirection: p.StartDirection,
			HP:             target.FromConfig(p.HP),
			Score:          target.FromConfig(p.Score),
		}
	}
	return tmpl
}

// LoadTemplates loads every target prefab a gallery lists, keeping their
// prefab specs alongside for presentation lookups.
func LoadTemplates(names []string) ([]*target.Template, map[*target.Template]*prefabs.TargetSpec, error) {
	templates := make([]*target.Template, 0, len(names))
	specs := make(map[*target.Template]*prefabs.TargetSpec, len(names))
	for _, name := range names {
		spec, err := prefabs.LoadTarget(name)
		if err != nil {
			return nil, nil, err
		}
		tmpl := TemplateFromSpec(spec)
		templates = append(templates, tmpl)
		specs[tmpl] = spec
	}
	return templates, specs, nil
}
