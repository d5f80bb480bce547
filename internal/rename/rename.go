// Package rename bulk-renames yearbook files, for example to align edition
// names or shift the year in every file name.
package rename

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrConflict    = errors.New("rename conflict")
	ErrInvalidName = errors.New("invalid file name")
)

// Rule maps a file name to its new name.
type Rule func(name string) (string, error)

// Replace substitutes every occurrence of old in the name with repl.
func Replace(old, repl string) Rule {
	return func(name string) (string, error) {
		if old == "" {
			return name, nil
		}
		return strings.ReplaceAll(name, old, repl), nil
	}
}

var yearPattern = regexp.MustCompile(`\d{4}`)

// ShiftYear adds delta to the first four-digit number in the name, replacing
// every occurrence of that number.
func ShiftYear(delta int) Rule {
	return func(name string) (string, error) {
		year := yearPattern.FindString(name)
		if year == "" || delta == 0 {
			return name, nil
		}
		n, _ := strconv.Atoi(year)
		return strings.ReplaceAll(name, year, strconv.Itoa(n+delta)), nil
	}
}

// Rename is one planned move within a directory.
type Rename struct {
	From string
	To   string
}

// Plan applies rules, in order, to the name of every regular file in dir and
// returns the renames that change a name, sorted by source.
func Plan(dir string, rules ...Rule) ([]Rename, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	existing := make(map[string]bool, len(entries))
	for _, e := range entries {
		existing[e.Name()] = true
	}

	var plan []Rename
	sources := map[string]bool{}
	targets := map[string]string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		to := name
		for _, rule := range rules {
			if to, err = rule(to); err != nil {
				return nil, err
			}
		}
		if to == name {
			continue
		}
		if to == "" || to == "." || to == ".." || strings.ContainsAny(to, `/\`) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidName, to)
		}
		if prev, ok := targets[to]; ok {
			return nil, fmt.Errorf("%w: %s and %s both become %s", ErrConflict, prev, name, to)
		}
		targets[to] = name
		sources[name] = true
		plan = append(plan, Rename{From: filepath.Join(dir, name), To: filepath.Join(dir, to)})
	}

	for to, from := range targets {
		if existing[to] && !sources[to] {
			return nil, fmt.Errorf("%w: %s would overwrite existing %s", ErrConflict, from, to)
		}
	}

	slices.SortFunc(plan, func(a, b Rename) int { return strings.Compare(a.From, b.From) })
	return plan, nil
}

// Apply performs the renames. Every file is first moved to a temporary name so
// that chains like 2018->2019->2020 do not collide. On failure every file is
// moved back to its original name.
func Apply(plan []Rename) error {
	staged := make([]string, 0, len(plan))
	done := 0

	rollback := func(cause error) error {
		var errs []error
		for i := done - 1; i >= 0; i-- {
			if err := os.Rename(plan[i].To, plan[i].From); err != nil {
				errs = append(errs, err)
			}
		}
		for i := done; i < len(staged); i++ {
			if err := os.Rename(staged[i], plan[i].From); err != nil {
				errs = append(errs, err)
			}
		}
		if len(errs) > 0 {
			return errors.Join(append([]error{cause, errors.New("restoring original names failed")}, errs...)...)
		}
		return cause
	}

	for _, r := range plan {
		tmp := filepath.Join(filepath.Dir(r.From), ".rename-"+uuid.NewString())
		if err := os.Rename(r.From, tmp); err != nil {
			return rollback(fmt.Errorf("staging %s: %w", r.From, err))
		}
		staged = append(staged, tmp)
	}
	for i, r := range plan {
		if err := os.Rename(staged[i], r.To); err != nil {
			return rollback(fmt.Errorf("renaming %s to %s: %w", r.From, r.To, err))
		}
		done++
	}
	return nil
}
