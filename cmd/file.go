package cmd

import (
	"bufio"
	"errors"

	"github.com/itsmostafa/yearbook/internal/scraper"
	"github.com/spf13/cobra"
)

var fileOpts searchOptions
var filePath string

var fileCmd = &cobra.Command{
	Use:   "file [query]",
	Short: "Search one PDF and save the matching pages",
	Long:  `Search a single PDF for the query and write the matching pages to <output>/scraped-<name>.pdf.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, &fileOpts)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("file") {
			cfg.FilePath = filePath
		}
		if cfg.FilePath == "" {
			return errors.New("no file given: use --file or set FILE_PATH")
		}

		in := bufio.NewReader(cmd.InOrStdin())
		out := cmd.OutOrStdout()

		query, err := readQuery(args, in, out)
		if err != nil {
			return err
		}

		s := scraper.New(newLocator(cfg, in, out), scraper.Config{
			WorkDir: cfg.WorkDir,
			Policy:  cfg.Policy,
		}, out)

		summary, err := s.RunFile(cmd.Context(), query, cfg.FilePath, cfg.OutputDir)
		if err != nil {
			return err
		}
		return summary.Results[0].Err
	},
}

func init() {
	addSearchFlags(fileCmd, &fileOpts)
	fileCmd.Flags().StringVarP(&filePath, "file", "f", "", "PDF to search (env FILE_PATH)")

	rootCmd.AddCommand(fileCmd)
}
