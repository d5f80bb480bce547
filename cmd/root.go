package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/itsmostafa/yearbook/internal/version"
	"github.com/spf13/cobra"
)

var configPath string
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "yearbook",
	Short: "Collect the pages about a topic from a shelf of yearbook PDFs",
	Long: `Yearbook searches a directory of statistical yearbooks, text or scanned, for a
query and merges every matching page into one PDF, each source introduced by a
label page.

Scanned books are narrowed with their printed list of tables before pages are
recognized with Tesseract; rendering needs pdftoppm from poppler-utils.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("yearbook %s\n", version.String()))

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default yearbook.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(w io.Writer) {
	level := slog.LevelWarn
	if verbose || os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
