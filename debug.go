package materialize

import "time"

// frameStatsInterval is the number of frames aggregated per debug log line.
const frameStatsInterval = 120

// frameStats accumulates per-frame timings and logs their averages every
// frameStatsInterval frames. Only used when debug logging is enabled.
type frameStats struct {
	frames     int
	tickTime   time.Duration
	drawTime   time.Duration
	placements int
}

func (s *frameStats) addTick(d time.Duration) {
	s.tickTime += d
}

// addDraw records one drawn frame and flushes when the interval is reached.
func (s *frameStats) addDraw(d time.Duration, placements int) {
	s.frames++
	s.drawTime += d
	s.placements += placements
	if s.frames >= frameStatsInterval {
		s.flush()
	}
}

func (s *frameStats) flush() {
	if s.frames == 0 {
		return
	}
	n := time.Duration(s.frames)
	Logger().Debug("frame stats",
		"frames", s.frames,
		"tick", s.tickTime/n,
		"draw", s.drawTime/n,
		"placements", s.placements/s.frames)
	*s = frameStats{}
}
