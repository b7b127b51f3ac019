package scroll

import "time"

// Defaults for the scroll and frame settings.
const (
	DefaultFPS            = 60
	DefaultDisplayHz      = 120
	DefaultSpeed          = 1
	DefaultStartOffset    = -50
	DefaultResizeDebounce = 500 * time.Millisecond
)

// FrameInterval converts a rate in frames per second to the time between
// frames. Rates below 1 are treated as 1.
func FrameInterval(fps int) time.Duration {
	if fps < 1 {
		fps = 1
	}
	return time.Second / time.Duration(fps)
}
