package cmd

import (
	"bufio"
	"errors"
	"io"

	"github.com/itsmostafa/yearbook/internal/config"
	"github.com/itsmostafa/yearbook/internal/locate"
	"github.com/itsmostafa/yearbook/internal/ocr"
	"github.com/itsmostafa/yearbook/internal/ocr/tesseract"
	"github.com/itsmostafa/yearbook/internal/pagescan"
	"github.com/itsmostafa/yearbook/internal/render"
	"github.com/itsmostafa/yearbook/internal/tablelist"
	"github.com/spf13/cobra"
)

// searchOptions are the flags shared by the search commands.
type searchOptions struct {
	output string
	yes    bool
	no     bool
	policy string
	window int
	dpi    int
}

func addSearchFlags(cmd *cobra.Command, o *searchOptions) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Output directory (env OUTPUT_DIR)")
	cmd.Flags().BoolVarP(&o.yes, "yes", "y", false, "Scan every page of books without a list of tables")
	cmd.Flags().BoolVar(&o.no, "no", false, "Skip books without a list of tables")
	cmd.Flags().StringVar(&o.policy, "policy", "", "Match policy when several pages match (all, skip-first)")
	cmd.Flags().IntVar(&o.window, "window", 0, "Pages searched on each side of the table-list estimate")
	cmd.Flags().IntVar(&o.dpi, "dpi", 0, "Rendering resolution for recognition")
}

// loadConfig reads the configuration and applies the flags that were set.
func loadConfig(cmd *cobra.Command, o *searchOptions) (*config.Config, error) {
	if o.yes && o.no {
		return nil, errors.New("--yes and --no are mutually exclusive")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.OutputDir = o.output
	}
	if flags.Changed("policy") {
		cfg.MatchPolicy = o.policy
	}
	if flags.Changed("window") {
		cfg.Window = o.window
	}
	if flags.Changed("dpi") {
		cfg.DPI = o.dpi
	}
	switch {
	case o.yes:
		cfg.Confirm = config.ConfirmAlways
	case o.no:
		cfg.Confirm = config.ConfirmNever
	}

	return cfg, cfg.Validate()
}

// newLocator wires poppler rendering and Tesseract recognition into the
// per-document search.
func newLocator(cfg *config.Config, in *bufio.Reader, out io.Writer) *locate.Locator {
	renderer := render.NewPoppler(cfg.DPI)
	extractor := ocr.NewExtractor(tesseract.New(),
		ocr.WithLanguages(cfg.Languages...),
		ocr.WithRegionLanguages(cfg.RegionLanguages...),
	)

	tables := tablelist.NewLocator(renderer, extractor, cfg.TableListConfig())
	scanner := pagescan.NewScanner(renderer, extractor, cfg.BatchSize)

	return locate.New(tables, scanner, cfg.LocateConfig(),
		locate.WithConfirm(confirmFunc(cfg.Confirm, in, out)),
	)
}
