package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats is one interval's worth of frame and memory statistics.
type Stats struct {
	Frames        int
	FPS           float64
	AvgFrameTime  time.Duration
	WorstFrame    time.Duration
	HeapMB        float64
	AllocRateMBps float64
	GCCount       uint32
	LastPauseUs   uint64
	MaxPauseUs    uint64
	SysMB         float64
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	now            func() time.Time
	updateInterval time.Duration
	logging        bool
	readMem        bool

	frameCount int
	lastTime   time.Time
	lastFrame  time.Time
	worstFrame time.Duration

	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	last Stats
}

// ProfilerOption configures a Profiler.
type ProfilerOption func(p *Profiler)

// WithInterval sets how often statistics are rolled over. Non-positive values are ignored.
//
// Parameters:
//   - interval: the reporting interval
//
// Returns:
//   - ProfilerOption: option function to apply
func WithInterval(interval time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithLogging toggles the per-interval log line. Statistics are collected either way.
//
// Parameters:
//   - enabled: true to log
//
// Returns:
//   - ProfilerOption: option function to apply
func WithLogging(enabled bool) ProfilerOption {
	return func(p *Profiler) {
		p.logging = enabled
	}
}

// WithMemStats toggles runtime.ReadMemStats at each rollover. It stops the world briefly.
//
// Parameters:
//   - enabled: true to read memory statistics
//
// Returns:
//   - ProfilerOption: option function to apply
func WithMemStats(enabled bool) ProfilerOption {
	return func(p *Profiler) {
		p.readMem = enabled
	}
}

// WithClock replaces the time source.
//
// Parameters:
//   - now: the clock
//
// Returns:
//   - ProfilerOption: option function to apply
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second,
// with logging and memory statistics enabled.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		now:            time.Now,
		updateInterval: time.Second,
		logging:        true,
		readMem:        true,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	p.lastFrame = p.lastTime
	return p
}

// Tick should be called once per frame to track frame timing.
// When the update interval has elapsed the statistics roll over and, if enabled, are logged.
//
// Returns:
//   - bool: true if the interval rolled over this tick
func (p *Profiler) Tick() bool {
	currentTime := p.now()
	if ft := currentTime.Sub(p.lastFrame); ft > p.worstFrame {
		p.worstFrame = ft
	}
	p.lastFrame = currentTime
	p.frameCount++

	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	s := Stats{
		Frames:       p.frameCount,
		FPS:          float64(p.frameCount) / elapsed.Seconds(),
		AvgFrameTime: elapsed / time.Duration(p.frameCount),
		WorstFrame:   p.worstFrame,
	}
	if p.readMem {
		p.collectMem(&s, elapsed)
	}
	p.last = s

	if p.logging {
		log.Printf("[Profiler] FPS: %.2f | Frame: %s avg, %s worst | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
			s.FPS, s.AvgFrameTime.Round(time.Microsecond), s.WorstFrame.Round(time.Microsecond),
			s.HeapMB, s.AllocRateMBps, s.GCCount, s.LastPauseUs, s.MaxPauseUs, s.SysMB)
	}

	p.frameCount = 0
	p.worstFrame = 0
	p.lastTime = currentTime
	return true
}

// Last returns the statistics of the most recently completed interval.
//
// Returns:
//   - Stats: the statistics, zero before the first rollover
func (p *Profiler) Last() Stats {
	return p.last
}

func (p *Profiler) collectMem(s *Stats, elapsed time.Duration) {
	runtime.ReadMemStats(&p.memStats)
	s.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	s.SysMB = float64(p.memStats.Sys) / 1024 / 1024
	s.AllocRateMBps = float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	s.GCCount = gcCount
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses.
		s.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			if pause := p.memStats.PauseNs[i%256] / 1000; pause > s.MaxPauseUs {
				s.MaxPauseUs = pause
			}
		}
	}

	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
}
