// Package pool implements fixed-capacity slot storage for game entities.
//
// Slots are allocated once and never resized. An entity is built into the
// lowest free slot on acquire and its slot is marked inactive on release;
// the value is kept so that the slot can be reused without reallocating.
package pool

import "errors"

var (
	// ErrExhausted is returned when every slot is active. Callers drop the
	// spawn request.
	ErrExhausted = errors.New("pool exhausted")
	// ErrInvalidRelease is returned when releasing a slot that is not active.
	ErrInvalidRelease = errors.New("release of inactive slot")
	// ErrOutOfRange is returned for indices outside the pool.
	ErrOutOfRange = errors.New("slot index out of range")
)

type slot[T any] struct {
	value  T
	filled bool
	active bool
}

// Pool is a bounded array of reusable slots. It is not safe for concurrent
// use; each game owns its pools.
type Pool[T any] struct {
	slots   []slot[T]
	count   int
	dropped uint64
}

// New returns a pool with the given number of empty slots.
func New[T any](capacity int) *Pool[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Pool[T]{slots: make([]slot[T], capacity)}
}

// TryAcquire returns the lowest index whose slot is empty or inactive.
func (p *Pool[T]) TryAcquire() (int, error) {
	if p.count == len(p.slots) {
		return -1, ErrExhausted
	}
	for i := range p.slots {
		if !p.slots[i].active {
			return i, nil
		}
	}
	return -1, ErrExhausted
}

// Acquire builds a value into the lowest free slot and marks it active.
// If build fails the slot stays free.
func (p *Pool[T]) Acquire(build func(index int) (T, error)) (int, error) {
	i, err := p.TryAcquire()
	if err != nil {
		p.dropped++
		return -1, err
	}
	v, err := build(i)
	if err != nil {
		return -1, err
	}
	s := &p.slots[i]
	s.value = v
	s.filled = true
	s.active = true
	p.count++
	return i, nil
}

// Release runs detach on the slot's value and then marks it inactive.
// detach is where the owner hands its physics body back; if it fails the
// slot stays active so the release can be retried.
func (p *Pool[T]) Release(i int, detach func(v *T) error) error {
	if i < 0 || i >= len(p.slots) {
		return ErrOutOfRange
	}
	s := &p.slots[i]
	if !s.active {
		return ErrInvalidRelease
	}
	if detach != nil {
		if err := detach(&s.value); err != nil {
			return err
		}
	}
	s.active = false
	p.count--
	return nil
}

// Get returns the value in slot i if it is active.
func (p *Pool[T]) Get(i int) (*T, bool) {
	if i < 0 || i >= len(p.slots) || !p.slots[i].active {
		return nil, false
	}
	return &p.slots[i].value, true
}

// ForEachActive calls fn for each active slot in index order.
func (p *Pool[T]) ForEachActive(fn func(i int, v *T)) {
	for i := range p.slots {
		if p.slots[i].active {
			fn(i, &p.slots[i].value)
		}
	}
}

// Reset releases every active slot. Errors from detach are joined and the
// affected slots stay active.
func (p *Pool[T]) Reset(detach func(v *T) error) error {
	var errs []error
	for i := range p.slots {
		if !p.slots[i].active {
			continue
		}
		if err := p.Release(i, detach); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len reports the number of active slots.
func (p *Pool[T]) Len() int { return p.count }

// Cap reports the fixed capacity.
func (p *Pool[T]) Cap() int { return len(p.slots) }

// IsFull reports whether every slot is active.
func (p *Pool[T]) IsFull() bool { return p.count == len(p.slots) }

// Dropped reports how many acquire calls failed with ErrExhausted.
func (p *Pool[T]) Dropped() uint64 { return p.dropped }
