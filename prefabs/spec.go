package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxActive       = 6
	DefaultStartDelay      = time.Second
	DefaultSpawnDelay      = 1500 * time.Millisecond
	DefaultIdlePoll        = 16 * time.Millisecond
	DefaultEliteEvery      = 10
	DefaultEliteChance     = 0.1
	DefaultMovingEvery     = 8
	DefaultMovingChance    = 0.2
	DefaultPoolCapacity    = 100
	DefaultTimeLimit       = 60 * time.Second
	DefaultPointRadius     = 0.5
	DefaultTargetDeathHold = 1050 * time.Millisecond
	DefaultTargetWatchdog  = 2 * time.Second
	DefaultTargetMaxHP     = 25
	DefaultTargetScore     = 10
	DefaultTargetHeadshot  = 1.5
	DefaultTargetRadius    = 0.5
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// GallerySpec describes one shooting range: its spawner, the target
// prefabs it draws from and the spawn point layout.
type GallerySpec struct {
	Name       string           `yaml:"name"`
	TimeLimit  *time.Duration   `yaml:"time_limit"`
	Rules      string           `yaml:"rules"`
	Background *YAMLColor       `yaml:"background"`
	Spawner    SpawnerSpec      `yaml:"spawner"`
	Targets    []string         `yaml:"targets"`
	Points     []SpawnPointSpec `yaml:"spawn_points"`
	Obstacles  []ObstacleSpec   `yaml:"obstacles"`
}

type SpawnerSpec struct {
	MaxActive    int           `yaml:"max_active"`
	StartDelay   time.Duration `yaml:"start_delay"`
	SpawnDelay   time.Duration `yaml:"spawn_delay"`
	IdlePoll     time.Duration `yaml:"idle_poll"`
	Elite        CategorySpec  `yaml:"elite"`
	Moving       CategorySpec  `yaml:"moving"`
	AllowBoth    *bool         `yaml:"allow_both"`
	PoolCapacity int           `yaml:"pool_capacity"`
	WarmUp       int           `yaml:"warm_up"`
	Seed         int64         `yaml:"seed"`
	Debug        bool          `yaml:"debug"`
}

// CategorySpec configures one guaranteed-interval category. An explicit
// zero disables the respective rule; an omitted field takes the default.
type CategorySpec struct {
	GuaranteedEvery *int     `yaml:"guaranteed_every"`
	Chance          *float64 `yaml:"chance"`
}

type SpawnPointSpec struct {
	Name   string  `yaml:"name"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
}

type ObstacleSpec struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
}

// TargetSpec is one spawnable template.
type TargetSpec struct {
	Name               string         `yaml:"name"`
	MaxHP              int            `yaml:"max_hp"`
	Score              *int           `yaml:"score"`
	HeadshotMultiplier float64        `yaml:"headshot_multiplier"`
	Radius             float64        `yaml:"radius"`
	Material           string         `yaml:"material"`
	Color              *YAMLColor     `yaml:"color"`
	DeathHold          *time.Duration `yaml:"death_hold"`
	Watchdog           time.Duration  `yaml:"watchdog"`
	Lifetime           time.Duration  `yaml:"lifetime"`
	Elite              *EliteSpec     `yaml:"elite"`
	Patrol             *PatrolSpec    `yaml:"patrol"`
}

// EliteSpec overrides are optional; zero leaves the stat slot untouched.
type EliteSpec struct {
	HP       int        `yaml:"hp"`
	Score    int        `yaml:"score"`
	Material string     `yaml:"material"`
	Color    *YAMLColor `yaml:"color"`
	Audio    string     `yaml:"audio"`
	Volume   float64    `yaml:"volume"`
}

type PatrolSpec struct {
	Speed          float64        `yaml:"speed"`
	Range          float64        `yaml:"range"`
	WaitOnTurn     *time.Duration `yaml:"wait_on_turn"`
	ObstacleProbe  float64        `yaml:"obstacle_probe"`
	AxisX          float64        `yaml:"axis_x"`
	AxisY          float64        `yaml:"axis_y"`
	StartDirection int            `yaml:"start_direction"`
	HP             int            `yaml:"hp"`
	Score          int            `yaml:"score"`
}

// LoadGallery loads, defaults and validates a gallery prefab.
func LoadGallery(name string) (*GallerySpec, error) {
	spec, err := LoadSpec[GallerySpec](name)
	if err != nil {
		return nil, err
	}
	spec.ApplyDefaults()
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", name, err)
	}
	return &spec, nil
}

// LoadTarget loads, defaults and validates a target prefab.
func LoadTarget(name string) (*TargetSpec, error) {
	spec, err := LoadSpec[TargetSpec](name)
	if err != nil {
		return nil, err
	}
	spec.ApplyDefaults()
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", name, err)
	}
	return &spec, nil
}

func (g *GallerySpec) ApplyDefaults() {
	if g.TimeLimit == nil {
		d := DefaultTimeLimit
		g.TimeLimit = &d
	}
	g.Spawner.ApplyDefaults()
	for i := range g.Points {
		if g.Points[i].Name == "" {
			g.Points[i].Name = fmt.Sprintf("point_%d", i)
		}
		if g.Points[i].Radius <= 0 {
			g.Points[i].Radius = DefaultPointRadius
		}
	}
}

func (g *GallerySpec) Validate() error {
	var errs []error
	if len(g.Targets) == 0 {
		errs = append(errs, errors.New("no target prefabs listed"))
	}
	if len(g.Points) == 0 {
		errs = append(errs, errors.New("no spawn points listed"))
	}
	seen := make(map[string]bool, len(g.Points))
	for _, p := range g.Points {
		if seen[p.Name] {
			errs = append(errs, fmt.Errorf("duplicate spawn point %q", p.Name))
		}
		seen[p.Name] = true
	}
	for i, o := range g.Obstacles {
		if o.Radius <= 0 {
			errs = append(errs, fmt.Errorf("obstacle %d: radius must be positive", i))
		}
	}
	if g.TimeLimit != nil && *g.TimeLimit < 0 {
		errs = append(errs, errors.New("time_limit must not be negative"))
	}
	if err := g.Spawner.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *SpawnerSpec) ApplyDefaults() {
	if s.MaxActive == 0 {
		s.MaxActive = DefaultMaxActive
	}
	if s.StartDelay == 0 {
		s.StartDelay = DefaultStartDelay
	}
	if s.SpawnDelay == 0 {
		s.SpawnDelay = DefaultSpawnDelay
	}
	if s.IdlePoll <= 0 {
		s.IdlePoll = DefaultIdlePoll
	}
	s.Elite.applyDefaults(DefaultEliteEvery, DefaultEliteChance)
	s.Moving.applyDefaults(DefaultMovingEvery, DefaultMovingChance)
	if s.AllowBoth == nil {
		v := true
		s.AllowBoth = &v
	}
	if s.PoolCapacity == 0 {
		s.PoolCapacity = DefaultPoolCapacity
	}
}

func (s *SpawnerSpec) Validate() error {
	var errs []error
	if s.MaxActive < 0 {
		errs = append(errs, errors.New("spawner.max_active must not be negative"))
	}
	if s.StartDelay < 0 || s.SpawnDelay < 0 {
		errs = append(errs, errors.New("spawner delays must not be negative"))
	}
	if s.PoolCapacity < 0 {
		errs = append(errs, errors.New("spawner.pool_capacity must not be negative"))
	}
	if s.WarmUp < 0 {
		errs = append(errs, errors.New("spawner.warm_up must not be negative"))
	}
	if err := s.Elite.validate("elite"); err != nil {
		errs = append(errs, err)
	}
	if err := s.Moving.validate("moving"); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c *CategorySpec) applyDefaults(every int, chance float64) {
	if c.GuaranteedEvery == nil {
		c.GuaranteedEvery = &every
	}
	if c.Chance == nil {
		c.Chance = &chance
	}
}

func (c *CategorySpec) validate(name string) error {
	var errs []error
	if c.GuaranteedEvery != nil && *c.GuaranteedEvery < 0 {
		errs = append(errs, fmt.Errorf("spawner.%s.guaranteed_every must not be negative", name))
	}
	if c.Chance != nil && (*c.Chance < 0 || *c.Chance > 1) {
		errs = append(errs, fmt.Errorf("spawner.%s.chance must be within [0, 1]", name))
	}
	return errors.Join(errs...)
}

// Every returns the guaranteed interval, zero when unset.
func (c CategorySpec) Every() int {
	if c.GuaranteedEvery == nil {
		return 0
	}
	return *c.GuaranteedEvery
}

// Probability returns the configured chance, zero when unset.
func (c CategorySpec) Probability() float64 {
	if c.Chance == nil {
		return 0
	}
	return *c.Chance
}

func (t *TargetSpec) ApplyDefaults() {
	if t.MaxHP == 0 {
		t.MaxHP = DefaultTargetMaxHP
	}
	if t.Score == nil {
		v := DefaultTargetScore
		t.Score = &v
	}
	if t.HeadshotMultiplier == 0 {
		t.HeadshotMultiplier = DefaultTargetHeadshot
	}
	if t.Radius == 0 {
		t.Radius = DefaultTargetRadius
	}
	if t.DeathHold == nil {
		d := DefaultTargetDeathHold
		t.DeathHold = &d
	}
	if t.Watchdog == 0 {
		t.Watchdog = DefaultTargetWatchdog
	}
}

func (t *TargetSpec) Validate() error {
	var errs []error
	if t.Name == "" {
		errs = append(errs, errors.New("target name is required"))
	}
	if t.MaxHP <= 0 {
		errs = append(errs, errors.New("max_hp must be positive"))
	}
	if t.Score != nil && *t.Score < 0 {
		errs = append(errs, errors.New("score must not be negative"))
	}
	if t.HeadshotMultiplier < 1 {
		errs = append(errs, errors.New("headshot_multiplier must be at least 1"))
	}
	if t.Radius <= 0 {
		errs = append(errs, errors.New("radius must be positive"))
	}
	if t.DeathHold != nil && *t.DeathHold < 0 {
		errs = append(errs, errors.New("death_hold must not be negative"))
	}
	if t.Watchdog <= 0 {
		errs = append(errs, errors.New("watchdog must be positive"))
	}
	if t.Lifetime < 0 {
		errs = append(errs, errors.New("lifetime must not be negative"))
	}
	if e := t.Elite; e != nil && (e.HP < 0 || e.Score < 0) {
		errs = append(errs, errors.New("elite overrides must not be negative"))
	}
	if p := t.Patrol; p != nil {
		if p.Speed < 0 || p.Range < 0 || p.ObstacleProbe < 0 {
			errs = append(errs, errors.New("patrol speed, range and obstacle_probe must not be negative"))
		}
		if p.HP < 0 || p.Score < 0 {
			errs = append(errs, errors.New("patrol overrides must not be negative"))
		}
	}
	return errors.Join(errs...)
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// Or returns the parsed colour, or fallback when unset.
func (c *YAMLColor) Or(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}
