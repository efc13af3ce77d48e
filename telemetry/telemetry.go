// Package telemetry provides hierarchical timing of the load, validate and
// export phases of a run.
//
// Collectors travel through the context so instrumented code keeps its
// signatures. Without a collector every call is a no-op.
//
// Example usage:
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := telemetry.StartTimer(ctx, "loader.load batch.csv")
//	defer timer.End()
//
//	parse := timer.Child("loader.parse")
//	// ... work ...
//	parse.End()
//
//	collector.Report(os.Stderr, nil)
package telemetry

import (
	"context"
	"io"

	"github.com/fsecamp/reimburse/output"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey int

const (
	collectorKey contextKey = iota
	timerKey
)

// Collector collects timings.
type Collector interface {
	// Start begins timing an operation. End the returned Timer when done.
	Start(name string) Timer

	// Report writes the collected timings. styles may be nil for plain output.
	Report(w io.Writer, styles *output.Styles)
}

// Timer tracks a single operation's timing.
type Timer interface {
	// End stops the timer and records the duration.
	End()

	// Child creates a nested timer under this timer.
	Child(name string) Timer
}

// WithCollector adds a collector to a context.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext extracts the collector from context.
// If no collector is present, returns a collector that does nothing.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(collectorKey).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}

// WithTimer attaches a running timer to the context. StartTimer calls made
// with the returned context nest under it.
func WithTimer(ctx context.Context, timer Timer) context.Context {
	return context.WithValue(ctx, timerKey, timer)
}

// StartTimer starts a timer under the context's current timer, or at the top
// level of the context's collector.
func StartTimer(ctx context.Context, name string) Timer {
	if parent, ok := ctx.Value(timerKey).(Timer); ok {
		return parent.Child(name)
	}
	return FromContext(ctx).Start(name)
}
