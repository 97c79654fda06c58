package pool

import (
	"errors"
	"testing"
)

type thing struct {
	id       int
	detached bool
}

func build(id int) func(int) (thing, error) {
	return func(int) (thing, error) { return thing{id: id}, nil }
}

func TestCapacityThreeScenario(t *testing.T) {
	p := New[thing](3)
	for i := 0; i < 3; i++ {
		idx, err := p.Acquire(build(i))
		if err != nil {
			t.Fatalf("acquire %d: %v", i, err)
		}
		if idx != i {
			t.Fatalf("acquire %d returned index %d", i, idx)
		}
	}
	if p.Len() != 3 || !p.IsFull() {
		t.Fatalf("len=%d full=%v, want 3 true", p.Len(), p.IsFull())
	}
	if _, err := p.Acquire(build(99)); !errors.Is(err, ErrExhausted) {
		t.Fatalf("fourth acquire err = %v, want ErrExhausted", err)
	}
	if p.Len() != 3 {
		t.Fatalf("len after exhausted acquire = %d", p.Len())
	}
	if p.Dropped() != 1 {
		t.Fatalf("dropped = %d, want 1", p.Dropped())
	}
}

func TestAcquireReturnsLowestFreeIndex(t *testing.T) {
	p := New[thing](4)
	for i := 0; i < 4; i++ {
		p.Acquire(build(i))
	}
	if err := p.Release(2, nil); err != nil {
		t.Fatal(err)
	}
	if err := p.Release(1, nil); err != nil {
		t.Fatal(err)
	}
	idx, err := p.TryAcquire()
	if err != nil || idx != 1 {
		t.Fatalf("TryAcquire = %d, %v; want 1", idx, err)
	}
	idx, _ = p.Acquire(build(10))
	if idx != 1 {
		t.Fatalf("Acquire = %d, want 1", idx)
	}
	idx, _ = p.Acquire(build(11))
	if idx != 2 {
		t.Fatalf("Acquire = %d, want 2", idx)
	}
}

func TestReleaseRunsDetachBeforeDeactivating(t *testing.T) {
	p := New[thing](2)
	idx, _ := p.Acquire(build(7))
	var sawActive bool
	err := p.Release(idx, func(v *thing) error {
		_, sawActive = p.Get(idx)
		v.detached = true
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if !sawActive {
		t.Error("slot was inactive while detach ran")
	}
	if _, ok := p.Get(idx); ok {
		t.Error("slot still active after release")
	}
	if !p.slots[idx].value.detached {
		t.Error("detach did not run")
	}
}

func TestDoubleReleaseIsRejected(t *testing.T) {
	p := New[thing](1)
	idx, _ := p.Acquire(build(1))
	if err := p.Release(idx, nil); err != nil {
		t.Fatal(err)
	}
	calls := 0
	err := p.Release(idx, func(*thing) error { calls++; return nil })
	if !errors.Is(err, ErrInvalidRelease) {
		t.Fatalf("err = %v, want ErrInvalidRelease", err)
	}
	if calls != 0 {
		t.Error("detach ran for an inactive slot")
	}
	if p.Len() != 0 {
		t.Errorf("len = %d", p.Len())
	}
	if err := p.Release(5, nil); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("out of range err = %v", err)
	}
}

func TestFailedDetachKeepsSlotActive(t *testing.T) {
	p := New[thing](1)
	idx, _ := p.Acquire(build(1))
	boom := errors.New("boom")
	if err := p.Release(idx, func(*thing) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if _, ok := p.Get(idx); !ok || p.Len() != 1 {
		t.Fatal("slot should still be active")
	}
}

func TestFailedBuildLeavesSlotFree(t *testing.T) {
	p := New[thing](1)
	_, err := p.Acquire(func(int) (thing, error) { return thing{}, errors.New("nope") })
	if err == nil {
		t.Fatal("expected build error")
	}
	if p.Len() != 0 || p.Dropped() != 0 {
		t.Fatalf("len=%d dropped=%d", p.Len(), p.Dropped())
	}
}

func TestForEachActiveSkipsInactive(t *testing.T) {
	p := New[thing](5)
	for i := 0; i < 5; i++ {
		p.Acquire(build(i))
	}
	p.Release(0, nil)
	p.Release(3, nil)
	var seen []int
	p.ForEachActive(func(i int, v *thing) { seen = append(seen, v.id) })
	want := []int{1, 2, 4}
	if len(seen) != len(want) {
		t.Fatalf("seen %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("seen %v, want %v", seen, want)
		}
	}
}

func TestReset(t *testing.T) {
	p := New[thing](3)
	for i := 0; i < 3; i++ {
		p.Acquire(build(i))
	}
	detached := 0
	if err := p.Reset(func(*thing) error { detached++; return nil }); err != nil {
		t.Fatal(err)
	}
	if detached != 3 || p.Len() != 0 || p.IsFull() {
		t.Fatalf("detached=%d len=%d", detached, p.Len())
	}
}

func TestCountInvariantUnderChurn(t *testing.T) {
	p := New[thing](8)
	for step := 0; step < 200; step++ {
		if step%3 == 2 {
			p.ForEachActive(func(i int, _ *thing) {
				if i%2 == step%2 {
					p.Release(i, nil)
				}
			})
		} else {
			p.Acquire(build(step))
		}
		active := 0
		p.ForEachActive(func(int, *thing) { active++ })
		if active != p.Len() || p.Len() > p.Cap() {
			t.Fatalf("step %d: active=%d len=%d cap=%d", step, active, p.Len(), p.Cap())
		}
		if p.IsFull() != (p.Len() == p.Cap()) {
			t.Fatalf("step %d: IsFull mismatch", step)
		}
	}
}
