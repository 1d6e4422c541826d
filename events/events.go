package events

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/cskr/pubsub"
)

// Event channel names used for event Pubsub

const (
	StateUpdate = "stateUpdate" // bool
	RotateBy    = "rotateBy"    // float32 (degrees)
	VolumeDelta = "volumeDelta" // float32
	Shutdown    = "shutdown"    // bool
	OsExit      = "osExit"      // bool
)

// WatchSystemEvents translates OS signals into application events.
func WatchSystemEvents(evPS *pubsub.PubSub) {

	// Channel to handle OS signals
	osSignals := make(chan os.Signal, 1)

	signal.Notify(osSignals, os.Interrupt, syscall.SIGTERM)

	<-osSignals
	evPS.Pub(true, OsExit)
}
