// Package logger provides a small colored console logger used across the
// CLI and its collaborators. Color is suppressed when stdout is not a
// terminal so piped/redirected output (CI logs, the report writer) stays
// clean.
package logger

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

var colorEnabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

func paint(color, s string) string {
	if !colorEnabled {
		return s
	}
	return color + s + colorReset
}

func line(tagColor, tag, msg string) {
	fmt.Printf("%s %s\n", paint(tagColor, "["+tag+"]"), msg)
}

// Info logs a neutral informational line tagged with tag.
func Info(tag, msg string) {
	line(colorCyan, tag, msg)
}

// Success logs a line indicating something completed as expected.
func Success(tag, msg string) {
	line(colorGreen, tag, msg)
}

// Warn logs a line indicating a recoverable or noteworthy condition.
func Warn(tag, msg string) {
	line(colorYellow, tag, msg)
}

// Error logs a line indicating a failure.
func Error(tag, msg string) {
	line(colorRed, tag, msg)
}

// Banner prints a one-line startup splash. An empty version omits the tag.
func Banner(version string) {
	if version == "" {
		fmt.Println(paint(colorBold, "austaxcgt"))
		return
	}
	fmt.Println(paint(colorBold, fmt.Sprintf("austaxcgt %s", version)))
}

// Section prints a labeled divider, used to separate phases of a run
// (load, adjust, solve per FY, report) in verbose output.
func Section(title string) {
	fmt.Printf("\n%s %s\n", paint(colorBold, "=="), paint(colorBold, title))
}

// Stats prints a single key/value diagnostic line.
func Stats(key string, value any) {
	fmt.Printf("  %s: %v\n", key, value)
}
