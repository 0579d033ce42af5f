package tui

import (
	"time"

	"github.com/oakwood-commons/showroom/internal/config"
	"github.com/oakwood-commons/showroom/internal/render"
	"github.com/oakwood-commons/showroom/internal/ui"
	"github.com/oakwood-commons/showroom/pkg/core"
)

// Config holds host-provided settings for running the browser.
type Config struct {
	AppName   string
	Width     int
	Height    int
	NoColor   bool
	StartKeys []string
	// Plan is the initial query. The zero Plan shows every record in
	// source order.
	Plan     core.Plan
	Renderer *render.Renderer
	// Theme, when set, replaces the current theme before the browser starts.
	Theme *ui.Theme
	// ProbeImages checks the thumbnails of each page and swaps broken ones
	// for the placeholder.
	ProbeImages  bool
	ProbeTimeout time.Duration
	ProbeLimit   int
}

// DefaultConfig returns a baseline config with the same defaults as the CLI.
func DefaultConfig() Config {
	c := Config{AppName: config.AppName, ProbeImages: true, ProbeTimeout: 5 * time.Second, ProbeLimit: render.DefaultProbeLimit}
	embedded, err := config.Default()
	if err != nil {
		return c
	}
	if embedded.App.Name != "" {
		c.AppName = embedded.App.Name
	}
	c.ProbeImages = embedded.Display.ProbeEnabled()
	if embedded.Display.ProbeTimeout > 0 {
		c.ProbeTimeout = embedded.Display.ProbeTimeout
	}
	if embedded.Display.ProbeLimit > 0 {
		c.ProbeLimit = embedded.Display.ProbeLimit
	}
	c.Renderer = render.New(embedded.Schema,
		render.WithCurrency(embedded.Display.Currency),
		render.WithPlaceholder(embedded.Display.Placeholder),
		render.WithNoun(embedded.Display.Noun),
	)
	return c
}

// options turns c into model options.
func (c Config) options() []ui.Option {
	var opts []ui.Option
	if c.Plan.Engine != nil {
		opts = append(opts, ui.WithEngine(c.Plan.Engine), ui.WithState(c.Plan.State))
	}
	if c.Renderer != nil {
		opts = append(opts, ui.WithRenderer(c.Renderer))
	}
	opts = append(opts, ui.WithNoColor(c.NoColor), ui.WithAppName(c.AppName))
	if c.ProbeImages {
		opts = append(opts, ui.WithProber(render.NewHTTPProber(c.ProbeTimeout), c.ProbeLimit))
	}
	return opts
}

// Apply installs the theme of c, if any.
func (c Config) Apply() {
	if c.Theme != nil {
		ui.SetTheme(*c.Theme)
	}
}
