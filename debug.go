package bubble

import (
	"time"

	"go.uber.org/zap"
)

// debugStats holds per-frame timing and idea counts.
// Only populated when Stage.debug is true.
type debugStats struct {
	cameraTime time.Duration
	bubbleTime time.Duration
	swarmTime  time.Duration
	free       int
	flying     int
	arrived    int
}

// debugLog writes one frame's stats at debug level.
func (s *Stage) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	total := stats.cameraTime + stats.bubbleTime + stats.swarmTime
	s.log.Debug("frame",
		zap.Uint64("frame", s.frame),
		zap.Stringer("state", s.state),
		zap.Stringer("phase", s.bubble.Phase()),
		zap.Duration("camera", stats.cameraTime),
		zap.Duration("bubble", stats.bubbleTime),
		zap.Duration("swarm", stats.swarmTime),
		zap.Duration("total", total),
		zap.Int("free", stats.free),
		zap.Int("flying", stats.flying),
		zap.Int("arrived", stats.arrived),
	)
}
