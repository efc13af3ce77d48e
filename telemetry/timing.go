package telemetry

import (
	"io"
	"sync"
	"time"

	"github.com/fsecamp/reimburse/output"
)

// TimingCollector collects a tree of timings. Top-level timers started while
// another top-level timer is running nest under it.
type TimingCollector struct {
	mu      sync.Mutex
	roots   []*span
	current *span
}

// span is a single timed operation.
type span struct {
	name     string
	start    time.Time
	end      time.Time
	parent   *span
	children []*span
}

func (s *span) duration() time.Duration {
	if s.end.IsZero() {
		return time.Since(s.start)
	}
	return s.end.Sub(s.start)
}

// NewTimingCollector creates a new timing collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{}
}

// Start begins timing an operation.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &span{name: name, start: time.Now(), parent: c.current}
	if c.current == nil {
		c.roots = append(c.roots, s)
	} else {
		c.current.children = append(c.current.children, s)
	}
	c.current = s
	return &timingTimer{collector: c, span: s}
}

// Report writes the timing tree to w.
func (c *TimingCollector) Report(w io.Writer, styles *output.Styles) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, root := range c.roots {
		formatTimingTree(w, root, styles)
	}
}

// Spans returns the recorded operations depth-first with their nesting depth.
func (c *TimingCollector) Spans() []Span {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Span
	var walk func(s *span, depth int)
	walk = func(s *span, depth int) {
		out = append(out, Span{Name: s.name, Depth: depth, Duration: s.duration()})
		for _, child := range s.children {
			walk(child, depth+1)
		}
	}
	for _, root := range c.roots {
		walk(root, 0)
	}
	return out
}

// Span is a recorded operation.
type Span struct {
	Name     string
	Depth    int
	Duration time.Duration
}

type timingTimer struct {
	collector *TimingCollector
	span      *span
}

func (t *timingTimer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	t.span.end = time.Now()
	if t.collector.current == t.span {
		t.collector.current = t.span.parent
	}
}

// Child creates a nested timer without moving the collector's cursor, so
// children may be started from several goroutines.
func (t *timingTimer) Child(name string) Timer {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	s := &span{name: name, start: time.Now(), parent: t.span}
	t.span.children = append(t.span.children, s)
	return &timingTimer{collector: t.collector, span: s}
}
