// Package clock provides a deterministic virtual-time scheduler. Game code
// advances it once per update tick and every delayed action runs as a
// cancellable task on that single ordered timeline.
package clock

import "time"

// Clock owns virtual time and the pending task list.
type Clock struct {
	now   time.Duration
	seq   uint64
	tasks []*Task
}

// Task is a one-shot callback due at a fixed virtual deadline.
type Task struct {
	clock *Clock
	due   time.Duration
	seq   uint64
	fn    func()
	done  bool
}

// New creates a clock at time zero.
func New() *Clock {
	return &Clock{}
}

// Now returns the current virtual time.
func (c *Clock) Now() time.Duration {
	if c == nil {
		return 0
	}
	return c.now
}

// After schedules fn to run once d has elapsed. Negative delays are treated
// as zero; a zero-delay task runs on the next Advance, never synchronously.
func (c *Clock) After(d time.Duration, fn func()) *Task {
	if d < 0 {
		d = 0
	}
	c.seq++
	t := &Task{clock: c, due: c.now + d, seq: c.seq, fn: fn}
	c.tasks = append(c.tasks, t)
	return t
}

// Pending returns the number of tasks waiting to fire.
func (c *Clock) Pending() int {
	if c == nil {
		return 0
	}
	return len(c.tasks)
}

// Advance moves time forward by dt and runs every task whose deadline falls
// inside the window, earliest first. While a task runs Now reports its
// deadline, so tasks it schedules are relative to that instant.
func (c *Clock) Advance(dt time.Duration) {
	if c == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}
	end := c.now + dt
	for {
		idx := c.nextDue(end)
		if idx < 0 {
			break
		}
		t := c.tasks[idx]
		c.tasks = append(c.tasks[:idx], c.tasks[idx+1:]...)
		t.done = true
		if t.due > c.now {
			c.now = t.due
		}
		if t.fn != nil {
			t.fn()
		}
	}
	c.now = end
}

func (c *Clock) nextDue(end time.Duration) int {
	best := -1
	for i, t := range c.tasks {
		if t.due > end {
			continue
		}
		if best < 0 || t.due < c.tasks[best].due || (t.due == c.tasks[best].due && t.seq < c.tasks[best].seq) {
			best = i
		}
	}
	return best
}

// Cancel removes the task if it has not fired yet. It reports whether the
// task was still pending.
func (t *Task) Cancel() bool {
	if t == nil || t.done {
		return false
	}
	t.done = true
	c := t.clock
	for i, other := range c.tasks {
		if other == t {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			break
		}
	}
	return true
}

// Pending reports whether the task is still waiting to fire.
func (t *Task) Pending() bool {
	return t != nil && !t.done
}

// Due returns the virtual deadline of the task.
func (t *Task) Due() time.Duration {
	if t == nil {
		return 0
	}
	return t.due
}
