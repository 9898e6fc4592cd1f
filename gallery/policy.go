package gallery

// Rand is the randomness source the spawner draws from. *rand.Rand
// satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Category configures one guaranteed-interval rule. Every <= 0 disables
// the guarantee, leaving only the chance.
type Category struct {
	Every  int
	Chance float64
}

// Decision is the outcome of one policy evaluation.
type Decision struct {
	Elite        bool
	Moving       bool
	ForcedElite  bool
	ForcedMoving bool
}

// Rewrite may replace the raw flags before the allow-both tie-break. A
// forced flag stays true whatever the rewrite returns.
type Rewrite func(elite, moving bool) (bool, bool)

// Policy is the guaranteed-interval policy for the elite and moving
// categories.
type Policy struct {
	Elite     Category
	Moving    Category
	AllowBoth bool

	eliteCount  int
	movingCount int
}

// Decide evaluates both categories for one spawn. The counters reset only
// when the final flag is true, so a forced moving flag dropped by the
// tie-break is forced again on the next spawn.
func (p *Policy) Decide(rng Rand, rewrite Rewrite) Decision {
	p.eliteCount++
	p.movingCount++

	var d Decision
	d.ForcedElite = p.Elite.Every > 0 && p.eliteCount >= p.Elite.Every
	d.ForcedMoving = p.Moving.Every > 0 && p.movingCount >= p.Moving.Every
	d.Elite = d.ForcedElite || rng.Float64() < p.Elite.Chance
	d.Moving = d.ForcedMoving || rng.Float64() < p.Moving.Chance

	if rewrite != nil {
		d.Elite, d.Moving = rewrite(d.Elite, d.Moving)
		d.Elite = d.Elite || d.ForcedElite
		d.Moving = d.Moving || d.ForcedMoving
	}
	// elite wins the tie
	if !p.AllowBoth && d.Elite && d.Moving {
		d.Moving = false
	}

	if d.Elite {
		p.eliteCount = 0
	}
	if d.Moving {
		p.movingCount = 0
	}
	return d
}

// Counters returns the spawns since each category was last true.
func (p *Policy) Counters() (elite, moving int) {
	return p.eliteCount, p.movingCount
}

func (p *Policy) Reset() {
	p.eliteCount = 0
	p.movingCount = 0
}
