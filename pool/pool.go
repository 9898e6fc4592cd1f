// Package pool caches inactive reusable instances per template.
package pool

import (
	"errors"
	"fmt"
)

var ErrNilFactory = errors.New("pool: nil factory")

// Item is an instance the pool can recycle. Deactivate and Reset must be
// idempotent.
type Item interface {
	comparable
	Active() bool
	Deactivate()
	Reset()
}

// Factory creates a new instance for a template.
type Factory[K comparable, T Item] func(template K) (T, error)

// Stats counts pool traffic since creation.
type Stats struct {
	Created   int
	Reused    int
	Released  int
	Discarded int
}

// Pool keeps a LIFO free list per template plus the reverse instance to
// template map used on release.
type Pool[K comparable, T Item] struct {
	factory  Factory[K, T]
	capacity int

	free     map[K][]T
	owner    map[T]K
	borrowed map[T]struct{}
	stats    Stats
}

// New creates a pool. capacity caps each template's free list; 0 means no cap.
func New[K comparable, T Item](factory Factory[K, T], capacity int) (*Pool[K, T], error) {
	if factory == nil {
		return nil, ErrNilFactory
	}
	if capacity < 0 {
		capacity = 0
	}
	return &Pool[K, T]{
		factory:  factory,
		capacity: capacity,
		free:     make(map[K][]T),
		owner:    make(map[T]K),
		borrowed: make(map[T]struct{}),
	}, nil
}

// Acquire returns an inactive, reset instance of template, reusing the most
// recently released one when available.
func (p *Pool[K, T]) Acquire(template K) (T, error) {
	var zero T
	if p == nil {
		return zero, ErrNilFactory
	}
	list := p.free[template]
	for len(list) > 0 {
		item := list[len(list)-1]
		list = list[:len(list)-1]
		p.free[template] = list
		if _, held := p.borrowed[item]; held {
			continue
		}
		p.prepare(item)
		p.borrowed[item] = struct{}{}
		p.stats.Reused++
		return item, nil
	}

	item, err := p.factory(template)
	if err != nil {
		return zero, fmt.Errorf("pool: create instance: %w", err)
	}
	if item == zero {
		return zero, fmt.Errorf("pool: factory returned nil instance")
	}
	p.owner[item] = template
	p.prepare(item)
	p.borrowed[item] = struct{}{}
	p.stats.Created++
	return item, nil
}

// Release deactivates and resets item and returns it to its template's free
// list, or discards it when that list is full. Releasing an instance that is
// not currently borrowed is a no-op and reports false.
func (p *Pool[K, T]) Release(item T) bool {
	if p == nil {
		return false
	}
	if _, held := p.borrowed[item]; !held {
		return false
	}
	delete(p.borrowed, item)
	p.prepare(item)
	p.stats.Released++

	template := p.owner[item]
	list := p.free[template]
	if p.capacity > 0 && len(list) >= p.capacity {
		delete(p.owner, item)
		p.stats.Discarded++
		return true
	}
	p.free[template] = append(list, item)
	return true
}

// WarmUp pre-creates up to n inactive instances for template, bounded by the
// free-list capacity.
func (p *Pool[K, T]) WarmUp(template K, n int) error {
	if p == nil {
		return ErrNilFactory
	}
	var zero T
	for i := 0; i < n; i++ {
		if p.capacity > 0 && len(p.free[template]) >= p.capacity {
			return nil
		}
		item, err := p.factory(template)
		if err != nil {
			return fmt.Errorf("pool: warm up: %w", err)
		}
		if item == zero {
			return fmt.Errorf("pool: factory returned nil instance")
		}
		p.owner[item] = template
		p.prepare(item)
		p.free[template] = append(p.free[template], item)
		p.stats.Created++
	}
	return nil
}

// Count returns the number of inactive instances cached for template.
func (p *Pool[K, T]) Count(template K) int {
	if p == nil {
		return 0
	}
	return len(p.free[template])
}

// Borrowed returns the number of instances currently handed out.
func (p *Pool[K, T]) Borrowed() int {
	if p == nil {
		return 0
	}
	return len(p.borrowed)
}

// IsBorrowed reports whether item is currently handed out.
func (p *Pool[K, T]) IsBorrowed(item T) bool {
	if p == nil {
		return false
	}
	_, held := p.borrowed[item]
	return held
}

// TemplateOf returns the template an instance was created for.
func (p *Pool[K, T]) TemplateOf(item T) (K, bool) {
	var zero K
	if p == nil {
		return zero, false
	}
	k, ok := p.owner[item]
	return k, ok
}

// Capacity returns the free-list cap, 0 meaning unbounded.
func (p *Pool[K, T]) Capacity() int {
	if p == nil {
		return 0
	}
	return p.capacity
}

// SetCapacity changes the cap for future releases. Lists already above the
// new cap shrink as instances are acquired.
func (p *Pool[K, T]) SetCapacity(capacity int) {
	if p == nil {
		return
	}
	if capacity < 0 {
		capacity = 0
	}
	p.capacity = capacity
}

func (p *Pool[K, T]) Stats() Stats {
	if p == nil {
		return Stats{}
	}
	return p.stats
}

func (p *Pool[K, T]) prepare(item T) {
	if item.Active() {
		item.Deactivate()
	}
	item.Reset()
}

// Drain drops every cached instance of template and reports how many were
// dropped. Borrowed instances are unaffected.
func (p *Pool[K, T]) Drain(template K) int {
	if p == nil {
		return 0
	}
	list := p.free[template]
	for _, item := range list {
		delete(p.owner, item)
	}
	delete(p.free, template)
	p.stats.Discarded += len(list)
	return len(list)
}
