// Package output formats the plain (non-TUI) text a CLI verb prints to
// stdout: status lines, success/warning/error lines, code blocks, and a
// one-shot progress bar for commands that don't spin up the full
// bubbletea renderer in internal/ui.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Accent colors, matching internal/ui's lime-green TUI palette so a
// command that falls back to plain output (non-TTY output or CI) still
// reads consistently with the interactive sync view.
const (
	colorLime   = "154"
	colorYellow = "220"
	colorRed    = "196"
)

// Writer formats a verb's plain-text output.
type Writer struct {
	out      io.Writer
	useColor bool
}

// New creates a Writer for out, enabling color only when out is an
// interactive terminal (matching internal/ui's TTY detection for the
// sync progress view) and NO_COLOR is unset.
func New(out io.Writer) *Writer {
	useColor := false
	if f, ok := out.(*os.File); ok {
		useColor = (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) && !noColorRequested()
	}
	return &Writer{out: out, useColor: useColor}
}

func noColorRequested() bool {
	_, set := os.LookupEnv("NO_COLOR")
	return set
}

// Status prints a status message with an icon.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Statusf prints a formatted status message with an icon.
func (w *Writer) Statusf(icon, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	w.Status(icon, msg)
}

// Success prints a success message with checkmark.
func (w *Writer) Success(msg string) {
	w.Status("✅", w.colorize(colorLime, msg))
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status("⚠️ ", w.colorize(colorYellow, msg))
}

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	w.Status("❌", w.colorize(colorRed, msg))
}

// Errorf prints a formatted error message.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// colorize applies color only when the writer detected an interactive,
// non-NO_COLOR terminal; otherwise msg passes through unchanged.
func (w *Writer) colorize(color, msg string) string {
	if !w.useColor {
		return msg
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(msg)
}

// Code prints a code block with indentation.
func (w *Writer) Code(content string) {
	_, _ = fmt.Fprintln(w.out)
	// Indent each line
	lines := strings.Split(content, "\n")
	for _, line := range lines {
		_, _ = fmt.Fprintf(w.out, "  %s\n", line)
	}
	_, _ = fmt.Fprintln(w.out)
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}

// Progress prints a progress bar with message.
func (w *Writer) Progress(current, total int, msg string) {
	if total <= 0 {
		return
	}

	pct := float64(current) / float64(total) * 100
	bar := renderProgressBar(current, total, 30)

	// Use carriage return for in-place updates
	_, _ = fmt.Fprintf(w.out, "\r[%s] %.0f%% %s", bar, pct, msg)

	// Add newline when complete
	if current >= total {
		_, _ = fmt.Fprintln(w.out)
	}
}

// ProgressDone completes a progress line with newline.
func (w *Writer) ProgressDone() {
	_, _ = fmt.Fprintln(w.out)
}

// renderProgressBar creates a text progress bar.
func renderProgressBar(current, total, width int) string {
	if total <= 0 {
		return strings.Repeat("░", width)
	}

	pct := float64(current) / float64(total)
	filled := int(pct * float64(width))

	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
