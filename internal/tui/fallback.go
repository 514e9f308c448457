package tui

import (
	"fmt"
	"io"
)

// FallbackRunner guides users to the plain-text subcommands when no
// terminal is attached.
type FallbackRunner struct {
	out io.Writer
}

// NewFallbackRunner creates a new FallbackRunner writing to out.
func NewFallbackRunner(out io.Writer) *FallbackRunner {
	return &FallbackRunner{out: out}
}

// Run prints the guidance.
func (f *FallbackRunner) Run() error {
	_, err := fmt.Fprint(f.out, `Non-TTY environment detected.
Use the non-interactive commands instead:
  examcoach submit <file.json>      submit a mock test
  examcoach analysis                show weak and strong topics
  examcoach plan [--generate]       show the study plan
  examcoach recommendations         show recommendations
  examcoach export --out DIR        write the dashboard charts as PNG
`)
	return err
}
