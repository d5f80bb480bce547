package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/itsmostafa/yearbook/internal/config"
	"github.com/itsmostafa/yearbook/internal/rename"
	"github.com/itsmostafa/yearbook/internal/report"
	"github.com/spf13/cobra"
)

var renameDir string
var replacements []string
var shiftYear int
var script string
var dryRun bool

var renameCmd = &cobra.Command{
	Use:   "rename",
	Short: "Bulk-rename yearbook files",
	Long: `Rename every file in a directory by replacing text in the name and/or
shifting the first four-digit year, e.g.

  yearbook rename --replace education=statistical --shift-year 1

--script takes a JavaScript expression that sees name, stem and ext:

  yearbook rename --script 'stem.toLowerCase() + ext'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := renameRules(replacements, shiftYear, script)
		if err != nil {
			return err
		}

		dir := renameDir
		if !cmd.Flags().Changed("dir") {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			dir = cfg.InputDir
		}

		plan, err := rename.Plan(dir, rules...)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, r := range plan {
			report.FormatRename(out, filepath.Base(r.From), filepath.Base(r.To), dryRun)
		}
		if len(plan) == 0 {
			fmt.Fprintln(out, "Nothing to rename")
		}
		if dryRun {
			return nil
		}
		return rename.Apply(plan)
	},
}

func renameRules(replacements []string, shift int, script string) ([]rename.Rule, error) {
	var rules []rename.Rule
	for _, r := range replacements {
		old, repl, ok := strings.Cut(r, "=")
		if !ok || old == "" {
			return nil, fmt.Errorf("invalid --replace %q: want old=new", r)
		}
		rules = append(rules, rename.Replace(old, repl))
	}
	if shift != 0 {
		rules = append(rules, rename.ShiftYear(shift))
	}
	if script != "" {
		rule, err := rename.Script(script)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	if len(rules) == 0 {
		return nil, errors.New("nothing to do: give --replace, --shift-year or --script")
	}
	return rules, nil
}

func init() {
	renameCmd.Flags().StringVarP(&renameDir, "dir", "d", "", "Directory whose files are renamed (env INPUT_DIR)")
	renameCmd.Flags().StringArrayVar(&replacements, "replace", nil, "Replace text in names, as old=new (repeatable)")
	renameCmd.Flags().IntVar(&shiftYear, "shift-year", 0, "Add N to the first four-digit year in names")
	renameCmd.Flags().StringVar(&script, "script", "", "JavaScript expression computing the new name")
	renameCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print the renames without applying them")

	rootCmd.AddCommand(renameCmd)
}
