package gallery

import "testing"

func TestNewRulesReportsCompileErrors(t *testing.T) {
	if _, err := NewRules("broken", []byte(`elite = `)); err == nil {
		t.Fatalf("expected a compile error")
	}
	if _, err := NewRules("unknown", []byte(`elite = undefined_name`)); err == nil {
		t.Fatalf("expected an unresolved name error")
	}
}

func TestEvalRewritesFlags(t *testing.T) {
	rules, err := LoadRules("spawn_rules.tengo")
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	cases := []struct {
		name       string
		in         RuleInput
		wantElite  bool
		wantMoving bool
	}{
		{"opening_spawn_plain", RuleInput{Spawn: 1, MaxActive: 6, Elite: true, Moving: true}, false, false},
		{"crowded_stationary", RuleInput{Spawn: 5, Active: 5, MaxActive: 6, Elite: true, Moving: true}, true, false},
		{"untouched", RuleInput{Spawn: 5, Active: 1, MaxActive: 6, Moving: true}, false, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, m, err := rules.Eval(c.in)
			if err != nil {
				t.Fatalf("eval: %v", err)
			}
			if e != c.wantElite || m != c.wantMoving {
				t.Fatalf("got elite=%v moving=%v, want %v %v", e, m, c.wantElite, c.wantMoving)
			}
		})
	}
}
