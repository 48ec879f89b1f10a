// Package commands defines the analyzer's CLI surface.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/slidelens/deck-analyzer/cmd/deck-analyzer/ui"
	"github.com/slidelens/deck-analyzer/internal/analysis"
	"github.com/slidelens/deck-analyzer/internal/cache"
	"github.com/slidelens/deck-analyzer/internal/config"
	"github.com/slidelens/deck-analyzer/internal/deck"
	"github.com/slidelens/deck-analyzer/internal/domain"
	"github.com/slidelens/deck-analyzer/internal/extract"
	"github.com/slidelens/deck-analyzer/internal/observability"
	"github.com/slidelens/deck-analyzer/internal/ocr"
	"github.com/slidelens/deck-analyzer/internal/pipeline"
	"github.com/slidelens/deck-analyzer/internal/report"
)

var (
	cfgFile      string
	outputPath   string
	outputFormat string
	modelName    string
	width        int
	noCache      bool
	verbose      bool
	noColor      bool
)

var rootCmd = &cobra.Command{
	Use:   "deck-analyzer <deck.pptx>",
	Short: "Analyze a PowerPoint deck for cross-slide inconsistencies",
	Long: `deck-analyzer consolidates a deck's slide text, speaker notes, and
image text, sends it to a reasoning model, and reports numerical
conflicts, contradictory claims, timeline mismatches, and missing data.

Results are cached by deck content, so re-analyzing an unchanged file
never triggers a second remote call.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAnalyze,
}

func init() {
	rootCmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "export report to file (.md for markdown, anything else for plain text)")
	rootCmd.Flags().StringVar(&outputFormat, "format", "", "export format: text or markdown (default: by extension)")
	rootCmd.Flags().StringVar(&modelName, "model", "", "override the analysis model")
	rootCmd.Flags().IntVar(&width, "width", 0, "report width in columns")
	rootCmd.Flags().BoolVar(&noCache, "no-cache", false, "skip the cache lookup and force a fresh analysis")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	deckPath := args[0]

	_ = godotenv.Load()

	if cfgFile == "" {
		cfgFile = config.Discover()
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if modelName != "" {
		cfg.Analysis.Model = modelName
	}
	if width > 0 {
		cfg.Report.Width = width
	}
	if verbose {
		cfg.Observability.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if noColor {
		color.NoColor = true
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		Output:      os.Stderr,
		ServiceName: "deck-analyzer",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, cleanup, err := buildPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	var bar *ui.ProgressBar
	spin := ui.NewSpinner("Waiting for analysis model...")

	hooks := &pipeline.Hooks{
		OnLoadDone: func(slideCount int) {
			bar = ui.NewProgressBar(int64(slideCount), "Extracting slides")
		},
		OnSlideExtracted: func(index, total int) {
			if bar != nil {
				bar.Set(int64(index))
			}
		},
		OnAnalysisStart: func() {
			if bar != nil {
				bar.Finish()
			}
			spin.Start()
		},
		OnAnalysisDone: func() {
			spin.Stop()
		},
	}

	res, err := p.Run(ctx, deckPath, noCache, hooks)
	if err != nil {
		return err
	}

	if res.FromCache {
		fmt.Fprintln(os.Stderr, "Using cached analysis (pass --no-cache to re-analyze).")
	}

	renderer := report.NewRenderer(cfg.Report.Width, report.TerminalStyle())
	fmt.Print(renderer.Render(res.Report))

	if outputPath != "" {
		if err := report.Export(res.Report, outputPath, cfg.Report.Width, outputFormat); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Report exported to %s\n", outputPath)
	}

	return nil
}

// buildPipeline assembles the pipeline from configuration. The returned
// cleanup closes remote clients and the cache handle.
func buildPipeline(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*pipeline.Pipeline, func(), error) {
	analyzer, err := analysis.NewClient(ctx, cfg.Analysis.APIKey, cfg.Analysis.Model, cfg.Analysis.Timeout, logger)
	if err != nil {
		return nil, nil, err
	}

	var recognizer domain.Recognizer
	if cfg.OCR.Endpoint != "" {
		recognizer = ocr.NewClient(cfg.OCR.Endpoint, cfg.OCR.APIKey, cfg.OCR.Timeout, logger)
	} else {
		logger.Debug().Msg("no OCR endpoint configured, image text will be skipped")
		recognizer = noopRecognizer{}
	}

	var store domain.CacheStore
	var closeStore func()
	if cfg.Cache.Enabled {
		s, err := cache.NewSQLiteStore(cfg.Cache.Path, logger)
		if err != nil {
			analyzer.Close()
			return nil, nil, err
		}
		store = s
		closeStore = func() { s.Close() }
	}

	p := pipeline.New(
		deck.NewPPTXLoader(logger),
		extract.NewService(recognizer, cfg.OCR.Concurrency, logger),
		analyzer,
		store,
		logger,
	)

	cleanup := func() {
		if closeStore != nil {
			closeStore()
		}
		analyzer.Close()
	}
	return p, cleanup, nil
}

// noopRecognizer stands in when no OCR service is configured: every
// image contributes no text.
type noopRecognizer struct{}

func (noopRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	return "", nil
}
