package orientation

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Position describes where the sound source is located relative to the
// listener: a direction vector (listener to source) and a distance based
// gain factor.
type Position struct {
	Direction mgl32.Vec3
	Gain      float32
}

// Mailbox is a single slot carrying the most recent listener relative
// source position. Writers overwrite, they never block and never queue:
// only the freshest position is meaningful for real-time audio, so
// intermediate updates between two reads are intentionally lost.
//
// The render worker reads through ReadAndSwap, which additionally tracks
// the position used at the start of the previous chunk. The engine
// interpolates between the two to avoid audible clicks at chunk
// boundaries.
type Mailbox struct {
	sync.Mutex
	previous Position
	current  Position
}

// NewMailbox returns a Mailbox seeded with the given initial position.
// Both slots start at initial, so the first read reports no movement.
func NewMailbox(initial Position) *Mailbox {
	return &Mailbox{
		previous: initial,
		current:  initial,
	}
}

// Set publishes a new position. It is safe to call from any thread at any
// rate; the critical section is a plain struct assignment.
func (m *Mailbox) Set(p Position) {
	m.Lock()
	m.current = p
	m.Unlock()
}

// ReadAndSwap returns the position used for the previous chunk and the
// freshest published position, and retires the latter as the new
// previous. If no Set occurred since the last call, previous and current
// are equal and no artificial discontinuity is introduced.
func (m *Mailbox) ReadAndSwap() (previous, current Position) {
	m.Lock()
	previous = m.previous
	current = m.current
	m.previous = m.current
	m.Unlock()
	return previous, current
}
