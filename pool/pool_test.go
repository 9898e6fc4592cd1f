package pool

import (
	"errors"
	"testing"
)

type fakeTemplate struct {
	name string
}

type fakeItem struct {
	id     int
	active bool
	resets int
	deacts int
	dirty  bool
}

func (f *fakeItem) Active() bool { return f.active }
func (f *fakeItem) Deactivate() {
	f.active = false
	f.deacts++
}
func (f *fakeItem) Reset() {
	f.dirty = false
	f.resets++
}

func newFakePool(t *testing.T, capacity int) (*Pool[*fakeTemplate, *fakeItem], *int) {
	t.Helper()
	created := 0
	p, err := New(func(_ *fakeTemplate) (*fakeItem, error) {
		created++
		return &fakeItem{id: created, active: true}, nil
	}, capacity)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p, &created
}

func TestNewRejectsNilFactory(t *testing.T) {
	if _, err := New[*fakeTemplate, *fakeItem](nil, 1); !errors.Is(err, ErrNilFactory) {
		t.Fatalf("expected ErrNilFactory, got %v", err)
	}
}

func TestAcquireReturnsInactiveResetInstance(t *testing.T) {
	p, _ := newFakePool(t, 0)
	tmpl := &fakeTemplate{name: "soldier"}

	item, err := p.Acquire(tmpl)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if item.Active() {
		t.Fatalf("acquired item must be deactivated")
	}
	if item.resets == 0 {
		t.Fatalf("acquired item must be reset")
	}
	if !p.IsBorrowed(item) {
		t.Fatalf("acquired item should be tracked as borrowed")
	}
}

func TestReuseIsLIFO(t *testing.T) {
	p, created := newFakePool(t, 0)
	tmpl := &fakeTemplate{name: "soldier"}

	a, _ := p.Acquire(tmpl)
	b, _ := p.Acquire(tmpl)
	p.Release(a)
	p.Release(b)

	got, _ := p.Acquire(tmpl)
	if got != b {
		t.Fatalf("expected most recently released item %d, got %d", b.id, got.id)
	}
	if *created != 2 {
		t.Fatalf("expected 2 creations, got %d", *created)
	}
	if p.Stats().Reused != 1 {
		t.Fatalf("expected 1 reuse, got %d", p.Stats().Reused)
	}
}

func TestAcquireNeverSharesLiveBorrow(t *testing.T) {
	p, _ := newFakePool(t, 0)
	tmpl := &fakeTemplate{name: "soldier"}

	seen := map[*fakeItem]bool{}
	for i := 0; i < 5; i++ {
		item, err := p.Acquire(tmpl)
		if err != nil {
			t.Fatalf("Acquire failed: %v", err)
		}
		if seen[item] {
			t.Fatalf("item %d handed out twice while borrowed", item.id)
		}
		seen[item] = true
	}
	if p.Borrowed() != 5 {
		t.Fatalf("expected 5 borrowed, got %d", p.Borrowed())
	}
}

func TestDoubleReleaseIsNoop(t *testing.T) {
	p, _ := newFakePool(t, 0)
	tmpl := &fakeTemplate{name: "soldier"}

	item, _ := p.Acquire(tmpl)
	if !p.Release(item) {
		t.Fatalf("first release should succeed")
	}
	if p.Release(item) {
		t.Fatalf("second release should be a no-op")
	}
	if p.Count(tmpl) != 1 {
		t.Fatalf("item must appear once in the free list, count=%d", p.Count(tmpl))
	}
}

func TestCapacityScenario(t *testing.T) {
	p, created := newFakePool(t, 2)
	tmpl := &fakeTemplate{name: "T"}

	var items []*fakeItem
	for i := 0; i < 3; i++ {
		item, err := p.Acquire(tmpl)
		if err != nil {
			t.Fatalf("Acquire failed: %v", err)
		}
		items = append(items, item)
	}
	if *created != 3 {
		t.Fatalf("expected 3 fresh instances, got %d", *created)
	}

	for _, item := range items {
		if !p.Release(item) {
			t.Fatalf("release of %d failed", item.id)
		}
	}
	if p.Count(tmpl) != 2 {
		t.Fatalf("expected pool size capped at 2, got %d", p.Count(tmpl))
	}
	if p.Stats().Discarded != 1 {
		t.Fatalf("expected 1 discarded, got %d", p.Stats().Discarded)
	}
	if _, ok := p.TemplateOf(items[2]); ok {
		t.Fatalf("discarded instance should be forgotten")
	}
}

func TestUnknownTemplateCreatesEntry(t *testing.T) {
	p, _ := newFakePool(t, 0)
	a := &fakeTemplate{name: "a"}
	b := &fakeTemplate{name: "b"}

	ia, _ := p.Acquire(a)
	ib, _ := p.Acquire(b)
	p.Release(ia)
	p.Release(ib)

	if p.Count(a) != 1 || p.Count(b) != 1 {
		t.Fatalf("expected one free item per template, got a=%d b=%d", p.Count(a), p.Count(b))
	}
	got, _ := p.Acquire(a)
	if got != ia {
		t.Fatalf("release must return instance to its own template list")
	}
}

func TestFactoryError(t *testing.T) {
	boom := errors.New("boom")
	p, err := New(func(_ *fakeTemplate) (*fakeItem, error) { return nil, boom }, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := p.Acquire(&fakeTemplate{}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped factory error, got %v", err)
	}
	if p.Borrowed() != 0 {
		t.Fatalf("failed acquire must not record a borrow")
	}
}

func TestWarmUpRespectsCapacity(t *testing.T) {
	p, created := newFakePool(t, 3)
	tmpl := &fakeTemplate{name: "soldier"}

	if err := p.WarmUp(tmpl, 5); err != nil {
		t.Fatalf("WarmUp failed: %v", err)
	}
	if p.Count(tmpl) != 3 || *created != 3 {
		t.Fatalf("expected 3 warm instances, got count=%d created=%d", p.Count(tmpl), *created)
	}
	item, _ := p.Acquire(tmpl)
	if item.Active() {
		t.Fatalf("warm instance must be inactive")
	}
}

func TestDrainDropsCachedInstances(t *testing.T) {
	p, created := newFakePool(t, 0)
	tmpl := &fakeTemplate{name: "old"}

	a, _ := p.Acquire(tmpl)
	b, _ := p.Acquire(tmpl)
	p.Release(a)
	if n := p.Drain(tmpl); n != 1 {
		t.Fatalf("expected 1 drained instance, got %d", n)
	}
	if p.Count(tmpl) != 0 {
		t.Fatalf("free list should be empty after drain")
	}
	if !p.IsBorrowed(b) {
		t.Fatalf("drain must not touch borrowed instances")
	}
	c, _ := p.Acquire(tmpl)
	if c == a || *created != 3 {
		t.Fatalf("expected a fresh instance after drain, created=%d", *created)
	}
}
