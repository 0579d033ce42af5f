package ui

import (
	"context"
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"
)

// Run starts the browser. A zero width or height is detected from the
// terminal, falling back to 80x24, when the other one is forced.
func Run(ctx context.Context, m *Model, width, height int, startKeys []string, opts ...tea.ProgramOption) error {
	if width > 0 || height > 0 {
		runW, runH := width, height
		if runW <= 0 || runH <= 0 {
			if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				if runW <= 0 {
					runW = w
				}
				if runH <= 0 {
					runH = h
				}
			}
		}
		if runW <= 0 {
			runW = 80
		}
		if runH <= 0 {
			runH = 24
		}
		m.WinWidth = runW
		m.WinHeight = runH
		m.render()
		opts = append(opts, tea.WithWindowSize(runW, runH))
	}

	if len(startKeys) > 0 {
		ApplyStartupKeys(m, startKeys)
	}

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}
