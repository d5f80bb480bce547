// Package config loads yearbook settings from defaults, an optional YAML file,
// a .env file and the environment, in increasing order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/itsmostafa/yearbook/internal/locate"
	"github.com/itsmostafa/yearbook/internal/pagescan"
	"github.com/itsmostafa/yearbook/internal/render"
	"github.com/itsmostafa/yearbook/internal/tablelist"
	"github.com/itsmostafa/yearbook/internal/textlayer"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no config file is named and it exists.
const DefaultFile = "yearbook.yaml"

// Confirmation modes for documents without a list of tables.
const (
	ConfirmAsk    = "ask"
	ConfirmAlways = "always"
	ConfirmNever  = "never"
)

type Config struct {
	InputDir  string `yaml:"input_dir"`
	OutputDir string `yaml:"output_dir"`
	FilePath  string `yaml:"file_path"`

	// WorkDir stages intermediate PDFs; empty uses a temporary directory
	WorkDir string `yaml:"work_dir"`

	DPI             int      `yaml:"dpi"`
	Languages       []string `yaml:"languages"`
	RegionLanguages []string `yaml:"region_languages"`
	BatchSize       int      `yaml:"batch_size"`

	ProbePages  int             `yaml:"probe_pages"`
	TableList   TableListConfig `yaml:"table_list"`
	Window      int             `yaml:"window"`
	MatchPolicy string          `yaml:"match_policy"`
	Confirm     string          `yaml:"confirm"`
	Jobs        int             `yaml:"jobs"`

	// Policy is MatchPolicy as parsed by Validate
	Policy locate.MatchPolicy `yaml:"-"`
}

type TableListConfig struct {
	ScanPages  int      `yaml:"scan_pages"`
	StartLimit int      `yaml:"start_limit"`
	Markers    []string `yaml:"markers"`
	Sentinel   string   `yaml:"sentinel"`
}

// Default returns the built-in settings.
func Default() *Config {
	tl := tablelist.DefaultConfig()
	lc := locate.DefaultConfig()
	return &Config{
		InputDir:        ".",
		OutputDir:       ".",
		DPI:             render.DefaultDPI,
		Languages:       []string{"eng"},
		RegionLanguages: []string{"kor", "eng"},
		BatchSize:       pagescan.DefaultBatchSize,
		ProbePages:      textlayer.DefaultProbePages,
		TableList: TableListConfig{
			ScanPages:  tl.ScanPages,
			StartLimit: tl.StartLimit,
			Markers:    tl.Markers,
			Sentinel:   tl.Sentinel,
		},
		Window:      lc.Radius,
		MatchPolicy: string(lc.Policy),
		Policy:      lc.Policy,
		Confirm:     ConfirmAsk,
		Jobs:        1,
	}
}

// Load builds the configuration. An empty path reads DefaultFile when it
// exists. envFiles are loaded with godotenv before the environment is applied;
// with none given, .env in the working directory is used if present.
func Load(path string, envFiles ...string) (*Config, error) {
	c := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		if err := c.parseFile(path); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	err := godotenv.Load(envFiles...)
	if err != nil && (len(envFiles) > 0 || !errors.Is(err, fs.ErrNotExist)) {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	if err := c.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) parseFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	data = []byte(os.ExpandEnv(string(data)))

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}
	list := func(key string, dst *[]string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = SplitLanguages(v)
		}
	}

	str("INPUT_DIR", &c.InputDir)
	str("OUTPUT_DIR", &c.OutputDir)
	str("FILE_PATH", &c.FilePath)
	str("YEARBOOK_WORK_DIR", &c.WorkDir)
	str("YEARBOOK_MATCH_POLICY", &c.MatchPolicy)
	str("YEARBOOK_CONFIRM", &c.Confirm)
	list("YEARBOOK_LANGUAGES", &c.Languages)
	list("YEARBOOK_REGION_LANGUAGES", &c.RegionLanguages)

	return errors.Join(
		num("YEARBOOK_DPI", &c.DPI),
		num("YEARBOOK_JOBS", &c.Jobs),
		num("YEARBOOK_WINDOW", &c.Window),
	)
}

// SplitLanguages parses "kor+eng" or "kor,eng" into its language codes.
func SplitLanguages(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '+' || r == ',' || r == ' '
	})
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	var errs []error
	if p, err := locate.ParsePolicy(c.MatchPolicy); err != nil {
		errs = append(errs, err)
	} else {
		c.Policy = p
	}
	switch c.Confirm {
	case ConfirmAsk, ConfirmAlways, ConfirmNever:
	default:
		errs = append(errs, fmt.Errorf("unknown confirm mode %q (want %s, %s or %s)", c.Confirm, ConfirmAsk, ConfirmAlways, ConfirmNever))
	}
	positive := map[string]int{
		"dpi":                   c.DPI,
		"jobs":                  c.Jobs,
		"batch_size":            c.BatchSize,
		"probe_pages":           c.ProbePages,
		"table_list.scan_pages": c.TableList.ScanPages,
	}
	for name, v := range positive {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	if c.Window < 0 {
		errs = append(errs, errors.New("window must not be negative"))
	}
	if c.TableList.StartLimit < 0 {
		errs = append(errs, errors.New("table_list.start_limit must not be negative"))
	}
	if c.TableList.Sentinel == "" {
		errs = append(errs, errors.New("table_list.sentinel must not be empty"))
	}
	if len(c.TableList.Markers) == 0 {
		errs = append(errs, errors.New("table_list.markers must not be empty"))
	}
	if len(c.Languages) == 0 || len(c.RegionLanguages) == 0 {
		errs = append(errs, errors.New("languages must not be empty"))
	}
	return errors.Join(errs...)
}

// TableListConfig returns the settings of the table-list search.
func (c *Config) TableListConfig() *tablelist.Config {
	return &tablelist.Config{
		ScanPages:  c.TableList.ScanPages,
		StartLimit: c.TableList.StartLimit,
		Markers:    c.TableList.Markers,
		Sentinel:   c.TableList.Sentinel,
	}
}

// LocateConfig returns the settings of the per-document search. Call it after
// Validate.
func (c *Config) LocateConfig() locate.Config {
	return locate.Config{
		ProbePages: c.ProbePages,
		Radius:     c.Window,
		Policy:     c.Policy,
	}
}
