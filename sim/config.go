package sim

import (
	"fmt"

	"github.com/inference-sim/vmsim/sim/trace"
)

// SimConfig groups the parameters fixed before the first instruction.
type SimConfig struct {
	Frames     int              // physical frames, in [1, MaxFrames]
	Pager      string           // pager name or one-letter code (see ValidPagers)
	TraceLevel trace.TraceLevel // "none" (default) or "events"
}

// Validate checks the frame count, pager name and trace level.
func (c SimConfig) Validate() error {
	if c.Frames < 1 || c.Frames > MaxFrames {
		return fmt.Errorf("frames must be in [1, %d], got %d", MaxFrames, c.Frames)
	}
	if !IsValidPager(c.Pager) {
		return fmt.Errorf("unknown pager %q", c.Pager)
	}
	if !trace.IsValidTraceLevel(string(c.TraceLevel)) {
		return fmt.Errorf("unknown trace level %q", c.TraceLevel)
	}
	return nil
}
