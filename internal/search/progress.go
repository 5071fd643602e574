package search

import (
	"sync"
	"sync/atomic"
	"time"
)

// Progress reports traversal progress.
type Progress struct {
	// Visited is the number of entries listed so far.
	Visited int64
	// DirsListed is the number of directories read successfully.
	DirsListed int64
	// Matched is the number of paths yielded to the caller.
	Matched int64
	// Skipped counts directories the safe strategy could not read.
	Skipped int64
	// Done indicates the traversal finished.
	Done bool
	// StartTime is when the traversal began.
	StartTime time.Time
	// Duration is elapsed time.
	Duration time.Duration
}

// ItemsPerSecond returns the listing rate.
func (p Progress) ItemsPerSecond() float64 {
	if p.Duration.Seconds() == 0 {
		return 0
	}
	return float64(p.Visited) / p.Duration.Seconds()
}

// Counters accumulates traversal statistics. It may be read from another
// goroutine while a traversal runs. A nil *Counters ignores all updates.
type Counters struct {
	visited, dirsListed, matched, skipped atomic.Int64
	done                                  atomic.Bool

	mu    sync.Mutex
	start time.Time
	end   time.Time
}

func (c *Counters) reset() {
	if c == nil {
		return
	}
	c.visited.Store(0)
	c.dirsListed.Store(0)
	c.matched.Store(0)
	c.skipped.Store(0)
	c.done.Store(false)
	c.mu.Lock()
	c.start = time.Now()
	c.end = time.Time{}
	c.mu.Unlock()
}

func (c *Counters) finish() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.end = time.Now()
	c.mu.Unlock()
	c.done.Store(true)
}

func (c *Counters) addVisited() {
	if c != nil {
		c.visited.Add(1)
	}
}

func (c *Counters) addDirListed() {
	if c != nil {
		c.dirsListed.Add(1)
	}
}

func (c *Counters) addMatched() {
	if c != nil {
		c.matched.Add(1)
	}
}

func (c *Counters) addSkipped() {
	if c != nil {
		c.skipped.Add(1)
	}
}

// Snapshot returns the current counter values.
func (c *Counters) Snapshot() Progress {
	if c == nil {
		return Progress{}
	}
	c.mu.Lock()
	start, end := c.start, c.end
	c.mu.Unlock()

	p := Progress{
		Visited:    c.visited.Load(),
		DirsListed: c.dirsListed.Load(),
		Matched:    c.matched.Load(),
		Skipped:    c.skipped.Load(),
		Done:       c.done.Load(),
		StartTime:  start,
	}
	switch {
	case start.IsZero():
	case end.IsZero():
		p.Duration = time.Since(start)
	default:
		p.Duration = end.Sub(start)
	}
	return p
}
