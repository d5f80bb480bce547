package cmd

import (
	"bufio"

	"github.com/itsmostafa/yearbook/internal/scraper"
	"github.com/spf13/cobra"
)

var scrapeOpts searchOptions
var inputDir string
var jobs int

var scrapeCmd = &cobra.Command{
	Use:   "scrape [query]",
	Short: "Search every PDF in a directory and merge the matching pages",
	Long: `Search every PDF in the input directory for the query and write
<output>/<query>-scraped-<input directory name>.pdf, each book introduced by a
label page.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, &scrapeOpts)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("input") {
			cfg.InputDir = inputDir
		}
		if cmd.Flags().Changed("jobs") {
			cfg.Jobs = jobs
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		in := bufio.NewReader(cmd.InOrStdin())
		out := cmd.OutOrStdout()

		query, err := readQuery(args, in, out)
		if err != nil {
			return err
		}

		s := scraper.New(newLocator(cfg, in, out), scraper.Config{
			Jobs:    cfg.Jobs,
			WorkDir: cfg.WorkDir,
			Policy:  cfg.Policy,
		}, out)

		_, err = s.Run(cmd.Context(), query, cfg.InputDir, cfg.OutputDir)
		return err
	},
}

func init() {
	addSearchFlags(scrapeCmd, &scrapeOpts)
	scrapeCmd.Flags().StringVarP(&inputDir, "input", "i", "", "Directory of yearbook PDFs (env INPUT_DIR)")
	scrapeCmd.Flags().IntVarP(&jobs, "jobs", "j", 1, "Number of books searched at once")

	rootCmd.AddCommand(scrapeCmd)
}
