package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/oakwood-commons/showroom/internal/browse"
	"github.com/oakwood-commons/showroom/internal/config"
	"github.com/oakwood-commons/showroom/internal/formatter"
	"github.com/oakwood-commons/showroom/internal/render"
	"github.com/oakwood-commons/showroom/pkg/core"
	"github.com/oakwood-commons/showroom/pkg/loader"
	"github.com/oakwood-commons/showroom/pkg/logger"
	"github.com/oakwood-commons/showroom/pkg/settings"
	"github.com/oakwood-commons/showroom/pkg/tui"
)

var (
	interactive    bool
	searchTerm     string
	filterMode     string
	sortMode       string
	pageNumber     int
	output         string
	whereExpr      string
	checkImages    bool
	renderSnapshot bool
	snapshotWidth  int
	snapshotHeight int
	noColor        bool
	configFile     string
	themeName      string
	startKeys      []string
	debug          bool
)

var (
	rootCtx = context.Background()
	// cfg is the merged configuration, loaded before any command runs.
	cfg config.Config
)

// usageError marks invalid flag values; they exit with status 2.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usage(err error) error {
	if err == nil {
		return nil
	}
	return usageError{err: err}
}

// ExitCode maps an Execute error to the process exit status: 2 for invalid
// flags and values, 1 for everything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ue usageError
	var te themeSelectionError
	switch {
	case errors.As(err, &ue), errors.As(err, &te),
		errors.Is(err, browse.ErrUnknownFilter),
		errors.Is(err, browse.ErrUnknownSort),
		errors.Is(err, formatter.ErrUnknownFormat):
		return 2
	default:
		return 1
	}
}

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName + " [source]",
	Short: "Browse a vehicle catalog",
	Long: "Browse a vehicle catalog: search by name, filter limited cars, sort by name or price\n" +
		"and page through the results. source is a JSON file, an http(s) URL or - for stdin.",
	Example: "\n  showroom docs/database/cars_combined.json\n" +
		"  showroom cars.json --search gt --filter limited --sort price-desc\n" +
		"  showroom cars.json -o table --page 3\n" +
		"  showroom cars.json --where '_.Cost >= 1000000' -o json\n" +
		"  showroom cars.json -i\n",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var level int8 = 0
		if debug {
			level = -1
		}
		lgr := logger.Get(level)
		lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())
		rootCtx = logger.WithLogger(context.Background(), lgr)

		loaded, err := config.Load(config.ResolvePath(configFile), config.BuildInfo{
			Version: settings.VersionInformation.BuildVersion,
			Commit:  settings.VersionInformation.Commit,
		})
		if err != nil {
			return err
		}
		cfg = loaded
		return applyTheme(cfg, themeName, cmd.Flags().Changed("theme"))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		source := cfg.Data.Source
		if len(args) > 0 {
			source = args[0]
		}
		run := &settings.Run{
			Source:      source,
			Interactive: interactive && !renderSnapshot,
			NoColor:     noColor,
			CheckImages: checkImages,
		}
		if debug {
			run.MinLogLevel = -1
		}
		ctx := settings.IntoContext(rootCtx, run)
		return runBrowse(ctx, cmd.OutOrStdout(), cmd.InOrStdin())
	},
}

func newEngine(ctx context.Context) (*core.Engine, error) {
	locale := language.Und
	if loc := strings.TrimSpace(cfg.Display.Locale); loc != "" {
		tag, err := language.Parse(loc)
		if err != nil {
			return nil, usage(fmt.Errorf("invalid display.locale %q: %w", loc, err))
		}
		locale = tag
	}
	return core.New(
		core.WithRenderer(render.New(cfg.Schema,
			render.WithCurrency(cfg.Display.Currency),
			render.WithPlaceholder(cfg.Display.Placeholder),
			render.WithNoun(cfg.Display.Noun),
		)),
		core.WithLocale(locale),
		core.WithLogger(*logger.FromContext(ctx)),
	)
}

func prepareQuery(engine *core.Engine) (core.Plan, error) {
	if pageNumber < 1 {
		return core.Plan{}, usage(fmt.Errorf("invalid --page %d: must be at least 1", pageNumber))
	}
	plan, err := engine.Prepare(core.Query{
		Search: searchTerm,
		Filter: filterMode,
		Sort:   sortMode,
		Page:   pageNumber,
		Where:  whereExpr,
	})
	if errors.Is(err, core.ErrInvalidWhere) {
		return plan, usage(err)
	}
	return plan, err
}

func runBrowse(ctx context.Context, w io.Writer, stdin io.Reader) error {
	run, _ := settings.FromContext(ctx)
	lgr := logger.FromContext(ctx)

	format, err := formatter.ParseFormat(output)
	if err != nil {
		return err
	}
	engine, err := newEngine(ctx)
	if err != nil {
		return err
	}
	plan, err := prepareQuery(engine)
	if err != nil {
		return err
	}

	ds, err := core.Load(ctx, run.Source,
		loader.WithHTTPClient(&http.Client{Timeout: cfg.Data.Timeout}),
		loader.WithSchema(cfg.Schema),
		loader.WithStdin(stdin),
		loader.WithLogger(*lgr),
	)
	if err != nil {
		return err
	}
	lgr.V(1).Info("catalog ready", logger.SourceKey, ds.Source, logger.RecordsKey, ds.Len())

	if renderSnapshot || run.Interactive {
		tc := tui.Config{
			AppName:      cfg.App.Name,
			Width:        snapshotWidth,
			Height:       snapshotHeight,
			NoColor:      run.NoColor,
			StartKeys:    startKeys,
			Plan:         plan,
			Renderer:     engine.Renderer,
			ProbeImages:  cfg.Display.ProbeEnabled() || run.CheckImages,
			ProbeTimeout: cfg.Display.ProbeTimeout,
			ProbeLimit:   cfg.Display.ProbeLimit,
		}
		if renderSnapshot {
			size := resolveSnapshotSize(snapshotWidth, snapshotHeight, 0, 0)
			tc.Width, tc.Height = size.Width, size.Height
			_, err := fmt.Fprintln(w, tui.RenderSnapshot(ds.Records, tc))
			return err
		}
		progOpts, cleanup := getProgramOptions()
		defer cleanup()
		return tui.Run(ctx, ds.Records, tc, progOpts...)
	}

	res := plan.Run(ds.Records)
	if run.CheckImages {
		srcs := engine.Renderer.Sources(res.Visible())
		failures, err := render.ProbeAll(ctx, render.NewHTTPProber(cfg.Display.ProbeTimeout), srcs, cfg.Display.ProbeLimit)
		if err != nil {
			return fmt.Errorf("check images: %w", err)
		}
		engine.Renderer.Fallbacks.MarkFailures(failures)
	}
	return engine.Write(w, res, formatter.Options{
		Format:  format,
		NoColor: run.NoColor,
		Width:   snapshotWidth,
	})
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() { //nolint:gochecknoinits
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usage(err) })
	rootCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "start the interactive browser")
	rootCmd.Flags().StringVar(&searchTerm, "search", "", "case-insensitive substring of the car name")
	rootCmd.Flags().StringVar(&filterMode, "filter", string(browse.FilterAll), "limited filter: all|limited|normal")
	rootCmd.Flags().StringVar(&sortMode, "sort", string(browse.SortNone), "sort order: "+strings.Join(browse.SortModeNames(), "|"))
	rootCmd.Flags().IntVar(&pageNumber, "page", 1, "page to show (clamped to the last page)")
	rootCmd.Flags().StringVarP(&output, "output", "o", string(formatter.OutputText), "output format: text|table|tree|json|yaml|toml")
	rootCmd.Flags().StringVar(&whereExpr, "where", "", "CEL predicate over the record fields bound to '_'. Examples: '_.Cost >= 1000000', 'limited && price < 500000'")
	rootCmd.Flags().BoolVar(&checkImages, "check-images", false, "probe thumbnails and show the placeholder for broken ones")
	rootCmd.Flags().BoolVar(&renderSnapshot, "snapshot", false, "render a single frame of the interactive browser and exit; honors --width/--height")
	rootCmd.Flags().IntVar(&snapshotWidth, "width", 0, "output width in columns (affects formatting and browser layout)")
	rootCmd.Flags().IntVar(&snapshotHeight, "height", 0, "output height in rows (affects browser layout)")
	rootCmd.Flags().StringArrayVar(&startKeys, "press", nil, "simulate keys on startup. Use <Key> for special keys (e.g. <Right>, <Enter>, <Esc>). Literal text types normally. Example: --press \"/gt<Enter>\"")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config-file", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "theme name (default from config; see 'showroom config themes')")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging on stderr")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newThumbnailsCmd())
	rootCmd.AddCommand(functionsCmd)
}

// stdinIsPiped reports whether stdin is not a terminal.
func stdinIsPiped() bool {
	st, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return st.Mode()&os.ModeCharDevice == 0
}
