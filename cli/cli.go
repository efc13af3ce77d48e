// Package cli implements the reimburse command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/fsecamp/reimburse/loader"
)

// stdinName labels batches read from standard input.
const stdinName = "<stdin>"

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D7D7", Dark: "#00D7D7"})
)

func printStatus(w io.Writer, symbol string, style lipgloss.Style, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", style.Render(symbol), message)
}

func printSuccess(w io.Writer, message string) {
	printStatus(w, "✓", successStyle, message)
}

func printError(w io.Writer, message string) {
	printStatus(w, "✗", errorStyle, errorStyle.Render(message))
}

func printInfof(w io.Writer, format string, args ...any) {
	printStatus(w, "→", infoStyle, fmt.Sprintf(format, args...))
}

// promptYesNo asks for confirmation. It answers no without asking when stdin
// is not a terminal.
func promptYesNo(question string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, nil
	}

	var confirm bool
	err := huh.NewConfirm().
		Title(question).
		WithButtonAlignment(lipgloss.Left).
		Value(&confirm).
		Run()
	if err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}
	return confirm, nil
}

// terminalWidth returns the width of w when it is the process's terminal
// stdout, or 0.
func terminalWidth(w io.Writer) int {
	if w != os.Stdout || !term.IsTerminal(int(os.Stdout.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// BatchFile is a batch named on the command line. "-" or no argument reads
// standard input, which is buffered at decode time; files are read by the
// loader.
type BatchFile struct {
	Path string
	Data []byte
}

// Decode implements kong.MapperValue.
func (f *BatchFile) Decode(ctx *kong.DecodeContext) error {
	var path string
	if err := ctx.Scan.PopValueInto("file", &path); err != nil {
		return err
	}
	if path == "-" || path == "" {
		return f.readStdin()
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}
	f.Path = path
	return nil
}

// EnsureContents reads standard input when no file was given.
func (f *BatchFile) EnsureContents() error {
	if f.Path != "" {
		return nil
	}
	return f.readStdin()
}

func (f *BatchFile) readStdin() error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read from stdin: %w", err)
	}
	f.Path = stdinName
	f.Data = data
	return nil
}

func (f *BatchFile) isStdin() bool {
	return f.Path == stdinName
}

// Source returns the raw input for quoting lines in error messages.
func (f *BatchFile) Source() ([]byte, error) {
	if f.isStdin() {
		return f.Data, nil
	}
	return os.ReadFile(f.Path)
}

// AbsPath returns the absolute path, or the stdin label.
func (f *BatchFile) AbsPath() string {
	if f.isStdin() {
		return f.Path
	}
	if abs, err := filepath.Abs(f.Path); err == nil {
		return abs
	}
	return f.Path
}

// Load parses the batch with ldr.
func (f *BatchFile) Load(ctx context.Context, ldr *loader.Loader) (*loader.Result, error) {
	if f.isStdin() {
		return ldr.LoadBytes(ctx, f.Path, f.Data)
	}
	return ldr.Load(ctx, f.AbsPath())
}
