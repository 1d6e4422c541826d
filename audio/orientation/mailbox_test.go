package orientation

import (
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestReadAndSwapWithoutUpdate(t *testing.T) {
	initial := Position{
		Direction: mgl32.Vec3{0, 0, -1},
		Gain:      1,
	}
	m := NewMailbox(initial)

	// without an intermediate Set, previous and current must be equal
	// on every read, otherwise the engine would interpolate towards a
	// phantom movement
	for i := 0; i < 3; i++ {
		prev, cur := m.ReadAndSwap()
		if prev != cur {
			t.Fatalf("read %d: expected previous == current, got %v / %v", i, prev, cur)
		}
		if cur != initial {
			t.Fatalf("read %d: expected %v, got %v", i, initial, cur)
		}
	}
}

func TestReadAndSwapAfterUpdate(t *testing.T) {
	first := Position{Direction: mgl32.Vec3{0, 0, -1}, Gain: 1}
	second := Position{Direction: mgl32.Vec3{1, 0, 0}, Gain: 0.5}

	m := NewMailbox(first)
	m.Set(second)

	prev, cur := m.ReadAndSwap()
	if prev != first {
		t.Fatalf("expected previous %v, got %v", first, prev)
	}
	if cur != second {
		t.Fatalf("expected current %v, got %v", second, cur)
	}

	// the update is now retired; a second read must report no movement
	prev, cur = m.ReadAndSwap()
	if prev != cur {
		t.Fatalf("expected previous == current after swap, got %v / %v", prev, cur)
	}
}

func TestFreshestUpdateWins(t *testing.T) {
	m := NewMailbox(Position{})

	m.Set(Position{Gain: 0.1})
	m.Set(Position{Gain: 0.2})
	m.Set(Position{Gain: 0.3})

	_, cur := m.ReadAndSwap()
	if cur.Gain != 0.3 {
		t.Fatalf("expected freshest update to win, got gain %f", cur.Gain)
	}
}

func TestConcurrentWriters(t *testing.T) {
	m := NewMailbox(Position{})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				m.Set(Position{Direction: mgl32.Vec3{0, 1, 0}, Gain: 1})
				m.ReadAndSwap()
			}
		}()
	}
	wg.Wait()
}
