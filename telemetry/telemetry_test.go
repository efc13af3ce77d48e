package telemetry

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func TestFromContextReturnsNoOpWhenMissing(t *testing.T) {
	collector := FromContext(context.Background())
	_, ok := collector.(noOpCollector)
	assert.True(t, ok)

	timer := StartTimer(context.Background(), "anything")
	timer.Child("child").End()
	timer.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)
	assert.Equal(t, 0, buf.Len())
}

func TestWithCollector(t *testing.T) {
	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)

	retrieved, ok := FromContext(ctx).(*TimingCollector)
	assert.True(t, ok)
	assert.True(t, retrieved == collector)
}

func TestStartTimerNestsUnderContextTimer(t *testing.T) {
	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)

	load := StartTimer(ctx, "load")
	inner := StartTimer(WithTimer(ctx, load), "parse")
	inner.End()
	load.End()

	validate := StartTimer(ctx, "validate")
	validate.End()

	spans := collector.Spans()
	assert.Equal(t, 3, len(spans))
	assert.Equal(t, Span{Name: "load", Depth: 0, Duration: spans[0].Duration}, spans[0])
	assert.Equal(t, "parse", spans[1].Name)
	assert.Equal(t, 1, spans[1].Depth)
	assert.Equal(t, "validate", spans[2].Name)
	assert.Equal(t, 0, spans[2].Depth)
}

func TestTimingCollectorReport(t *testing.T) {
	collector := NewTimingCollector()

	root := collector.Start("Total")
	child := root.Child("Child")
	grandchild := child.Child("Grandchild")
	time.Sleep(2 * time.Millisecond)
	grandchild.End()
	child.End()
	root.Child("Child 2").End()
	root.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	assert.Equal(t, 4, len(lines))
	assert.True(t, strings.HasPrefix(lines[0], "Total: "))
	assert.True(t, strings.HasPrefix(lines[1], "├─ Child: "))
	assert.True(t, strings.HasPrefix(lines[2], "│  └─ Grandchild: "))
	assert.True(t, strings.HasPrefix(lines[3], "└─ Child 2: "))
}

func TestTimingCollectorConcurrentChildren(t *testing.T) {
	collector := NewTimingCollector()
	root := collector.Start("batch")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			root.Child("worker").End()
		}()
	}
	wg.Wait()
	root.End()

	assert.Equal(t, 9, len(collector.Spans()))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		want     string
	}{
		{1 * time.Millisecond, "1ms"},
		{999 * time.Millisecond, "999ms"},
		{1 * time.Second, "1.00s"},
		{1500 * time.Millisecond, "1.50s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.duration))
	}
}

func TestTimingCollectorEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	NewTimingCollector().Report(&buf, nil)
	assert.Equal(t, 0, buf.Len())
}
