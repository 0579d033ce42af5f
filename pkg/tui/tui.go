// Package tui runs the interactive catalog browser from Go programs.
package tui

import (
	"context"
	"io"
	"os"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/oakwood-commons/showroom/internal/catalog"
	"github.com/oakwood-commons/showroom/internal/ui"
)

const defaultFallbackTermWidth = 120

// DetectTerminalSize returns the best-effort terminal width and height by probing
// stdout, stderr, and stdin, then falling back to the COLUMNS environment variable.
// If detection fails completely, returns (120, 24).
func DetectTerminalSize() (width int, height int) {
	fds := []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()}
	for _, fd := range fds {
		if w, h, err := term.GetSize(int(fd)); err == nil && (w > 0 || h > 0) {
			return w, h
		}
	}
	if col := os.Getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			return w, 24
		}
	}
	return defaultFallbackTermWidth, 24
}

// Run starts the browser over records and blocks until the user quits or
// ctx is canceled. Host applications can pass tea.ProgramOption values to
// control IO.
func Run(ctx context.Context, records []*catalog.Record, cfg Config, opts ...tea.ProgramOption) error {
	cfg.Apply()
	m := ui.NewModel(records, append(cfg.options(), ui.WithContext(ctx))...)
	return ui.Run(ctx, m, cfg.Width, cfg.Height, cfg.StartKeys, opts...)
}

// RenderSnapshot renders one frame of the browser after the start keys
// and returns it. Thumbnails are not probed. A zero size is detected from
// the terminal.
func RenderSnapshot(records []*catalog.Record, cfg Config) string {
	cfg.Apply()
	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		dw, dh := DetectTerminalSize()
		if w <= 0 {
			w = dw
		}
		if h <= 0 {
			h = dh
		}
	}
	return ui.RenderSnapshot(records, ui.SnapshotConfig{
		Width:     w,
		Height:    h,
		NoColor:   cfg.NoColor,
		StartKeys: cfg.StartKeys,
		Options:   cfg.options(),
	})
}

// WithIO returns tea.ProgramOptions to set custom input/output.
func WithIO(in io.Reader, out io.Writer) []tea.ProgramOption {
	opts := []tea.ProgramOption{}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	return opts
}
