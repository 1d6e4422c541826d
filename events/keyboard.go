package events

import (
	"bufio"
	"fmt"
	"os"

	"github.com/cskr/pubsub"
)

// CaptureKeyboard reads single-letter commands from stdin and publishes
// them as application events. It is meant to be run in its own
// goroutine while audio is playing.
func CaptureKeyboard(evPS *pubsub.PubSub) {

	scanner := bufio.NewScanner(os.Stdin)

	for {
		if scanner.Scan() {
			switch scanner.Text() {
			case "a":
				evPS.Pub(float32(-15), RotateBy)
			case "d":
				evPS.Pub(float32(15), RotateBy)
			case "+":
				evPS.Pub(float32(0.1), VolumeDelta)
			case "-":
				evPS.Pub(float32(-0.1), VolumeDelta)
			case "q":
				evPS.Pub(true, OsExit)
			default:
				fmt.Println("keyboard input:", scanner.Text())
			}
		}
	}
}
