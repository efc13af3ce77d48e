package telemetry

import (
	"fmt"
	"io"
	"time"

	"github.com/fsecamp/reimburse/output"
)

// slowThreshold marks operations highlighted in styled reports.
const slowThreshold = 100 * time.Millisecond

// formatTimingTree writes a span and its children:
//
//	validation.validate (120 rows): 14ms
//	└─ validation.normalize: 3ms
func formatTimingTree(w io.Writer, root *span, styles *output.Styles) {
	name := root.name
	if styles != nil {
		name = styles.Keyword(name)
	}
	_, _ = fmt.Fprintf(w, "%s: %s\n", name, styleDuration(root.duration(), styles))

	for i, child := range root.children {
		formatNode(w, child, "", i == len(root.children)-1, styles)
	}
}

func formatNode(w io.Writer, s *span, prefix string, last bool, styles *output.Styles) {
	branch, extension := "├─ ", "│  "
	if last {
		branch, extension = "└─ ", "   "
	}

	tree := prefix + branch
	if styles != nil {
		tree = styles.Dim(tree)
	}
	_, _ = fmt.Fprintf(w, "%s%s: %s\n", tree, s.name, styleDuration(s.duration(), styles))

	for i, child := range s.children {
		formatNode(w, child, prefix+extension, i == len(s.children)-1, styles)
	}
}

func styleDuration(d time.Duration, styles *output.Styles) string {
	text := formatDuration(d)
	if styles == nil {
		return text
	}
	return styles.Timing(text, d >= slowThreshold)
}

// formatDuration shows milliseconds below one second and seconds above.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", float64(d)/float64(time.Second))
}
