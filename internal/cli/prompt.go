package cli

import (
	"io"
	"time"

	"github.com/pterm/pterm"
)

// Prompter asks the user for input.
type Prompter interface {
	Confirm(message string) (bool, error)
	Input(message string) (string, error)
}

// ptermPrompter reads answers from the terminal.
type ptermPrompter struct{}

func (ptermPrompter) Confirm(message string) (bool, error) {
	return pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show(message)
}

func (ptermPrompter) Input(message string) (string, error) {
	return pterm.DefaultInteractiveTextInput.Show(message)
}

// spinnerDelay is the time between spinner frames.
const spinnerDelay = 100 * time.Millisecond

// spinner wraps a pterm spinner so callers need not care whether it started.
type spinner struct {
	printer *pterm.SpinnerPrinter
}

func startSpinner(out io.Writer, text string) *spinner {
	printer, err := pterm.DefaultSpinner.
		WithStyle(pterm.NewStyle(pterm.FgLightBlue)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(spinnerDelay).
		WithRemoveWhenDone(true).
		WithWriter(out).
		Start(text)
	if err != nil {
		return &spinner{}
	}
	return &spinner{printer: printer}
}

func (s *spinner) Stop() {
	if s.printer != nil {
		_ = s.printer.Stop()
	}
}
