package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/oakwood-commons/showroom/internal/catalog"
)

// SnapshotConfig configures a one-frame render of the browser.
type SnapshotConfig struct {
	Width     int
	Height    int
	NoColor   bool
	StartKeys []string
	Options   []Option
}

// RenderSnapshot renders one frame of the browser over records after
// applying the start keys. Thumbnails are not probed.
func RenderSnapshot(records []*catalog.Record, cfg SnapshotConfig) string {
	opts := append([]Option{WithNoColor(cfg.NoColor), WithSize(cfg.Width, cfg.Height)}, cfg.Options...)
	m := NewModel(records, opts...)
	m.Prober = nil
	ApplyStartupKeys(m, cfg.StartKeys)

	view := m.Render()
	if cfg.NoColor {
		view = ansi.Strip(view)
	}
	if cfg.Height > 0 {
		view = padSnapshotHeight(view, cfg.Height, cfg.Width)
	}
	return view
}

func padSnapshotHeight(view string, height, width int) string {
	lines := strings.Split(strings.TrimRight(view, "\n"), "\n")
	if len(lines) >= height {
		return strings.Join(lines, "\n")
	}
	padLine := " "
	if width > 1 {
		padLine = strings.Repeat(" ", width)
	}
	for len(lines) < height {
		lines = append(lines, padLine)
	}
	return strings.Join(lines, "\n")
}
