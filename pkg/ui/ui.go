// Package ui prints operator-facing status lines. Diagnostic detail goes
// through the log package; these helpers are for the lines a human acts on.
package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	okMark   = color.New(color.FgGreen, color.Bold).Sprint("[ok]")
	warnMark = color.New(color.FgYellow, color.Bold).Sprint("[warn]")
	failMark = color.New(color.FgRed, color.Bold).Sprint("[fail]")
)

// Info prints a plain progress line.
func Info(format string, a ...interface{}) {
	fmt.Printf(format+"\n", a...)
}

// Success prints a green-marked completion line.
func Success(format string, a ...interface{}) {
	fmt.Printf("%s %s\n", okMark, fmt.Sprintf(format, a...))
}

// Warn prints a yellow-marked line for conditions the flow survives.
func Warn(format string, a ...interface{}) {
	fmt.Printf("%s %s\n", warnMark, fmt.Sprintf(format, a...))
}

// Error prints a red-marked line to stderr. Callers decide the exit code.
func Error(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", failMark, fmt.Sprintf(format, a...))
}
