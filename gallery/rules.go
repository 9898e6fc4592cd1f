package gallery

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/shootinggallery/prefabs"
)

// RuleInput is the state exposed to a rules script as globals.
type RuleInput struct {
	Spawn     int
	Active    int
	MaxActive int
	Template  string
	Elite     bool
	Moving    bool
}

// Rules is a compiled tengo script that may rewrite the elite and moving
// flags of a spawn. The script reads spawn, active, max_active, template,
// elite and moving, and assigns elite and moving.
type Rules struct {
	name     string
	compiled *tengo.Compiled
}

// LoadRules compiles the named script from the prefab scripts directory.
func LoadRules(name string) (*Rules, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("gallery: load rules %s: %w", name, err)
	}
	return NewRules(name, src)
}

func NewRules(name string, src []byte) (*Rules, error) {
	script := tengo.NewScript(src)
	for _, g := range ruleGlobals(RuleInput{}) {
		if err := script.Add(g.name, g.value); err != nil {
			return nil, fmt.Errorf("gallery: rules %s: add %s: %w", name, g.name, err)
		}
	}
	script.SetImports(stdlib.GetModuleMap("math", "text", "times"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("gallery: compile rules %s: %w", name, err)
	}
	return &Rules{name: name, compiled: compiled}, nil
}

type ruleGlobal struct {
	name  string
	value any
}

func ruleGlobals(in RuleInput) []ruleGlobal {
	return []ruleGlobal{
		{"spawn", in.Spawn},
		{"active", in.Active},
		{"max_active", in.MaxActive},
		{"template", in.Template},
		{"elite", in.Elite},
		{"moving", in.Moving},
	}
}

func (r *Rules) Name() string {
	return r.name
}

// Eval runs the script once and returns the rewritten flags. On error the
// input flags are returned unchanged.
func (r *Rules) Eval(in RuleInput) (elite, moving bool, err error) {
	if r == nil || r.compiled == nil {
		return in.Elite, in.Moving, nil
	}
	for _, g := range ruleGlobals(in) {
		if err := r.compiled.Set(g.name, g.value); err != nil {
			return in.Elite, in.Moving, fmt.Errorf("gallery: rules %s: set %s: %w", r.name, g.name, err)
		}
	}
	if err := r.compiled.Run(); err != nil {
		return in.Elite, in.Moving, fmt.Errorf("gallery: rules %s: %w", r.name, err)
	}
	return r.compiled.Get("elite").Bool(), r.compiled.Get("moving").Bool(), nil
}
