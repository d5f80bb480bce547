package locate

import (
	"fmt"
	"slices"

	"github.com/itsmostafa/yearbook/internal/document"
	"github.com/itsmostafa/yearbook/internal/tablelist"
)

// Kind classifies the result of locating a query in one document.
type Kind int

const (
	NoMatch Kind = iota
	SingleMatch
	MultiMatch
	// Declined means no table list was found and the full scan was refused.
	Declined
	// Undetermined means a table list was found but gave no page for the query.
	Undetermined
)

func (k Kind) String() string {
	switch k {
	case NoMatch:
		return "no match"
	case SingleMatch:
		return "single match"
	case MultiMatch:
		return "multiple matches"
	case Declined:
		return "declined"
	case Undetermined:
		return "undetermined"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Method names the search path taken for a document.
type Method string

const (
	MethodTextLayer Method = "text-layer"
	MethodTableList Method = "table-list"
	MethodFullScan  Method = "full-scan"
)

// Outcome is the result of locating a query in one document.
type Outcome struct {
	Path string
	Kind Kind
	// Pages are the zero-based pages to extract, ascending.
	Pages []int
	// Matches is the number of matching pages before the match policy applied.
	Matches int
	Method  Method
	// TableList is set when the table list was found.
	TableList *tablelist.Result
	// Window is the page range that was searched.
	Window document.Window
}

// Contributes reports whether the document yields pages for the output.
func (o Outcome) Contributes() bool { return len(o.Pages) > 0 }

// Estimate returns the table-list page estimate, if one was resolved.
func (o Outcome) Estimate() (int, bool) {
	if o.TableList == nil || !o.TableList.Resolved {
		return 0, false
	}
	return o.TableList.Page, true
}

// MatchPolicy decides which pages of a multi-page match are kept.
type MatchPolicy string

const (
	// PolicyAll keeps every matching page.
	PolicyAll MatchPolicy = "all"
	// PolicySkipFirst drops the first of two or more matches, which in
	// yearbooks is usually the contents page naming the topic.
	PolicySkipFirst MatchPolicy = "skip-first"
)

// ParsePolicy validates s as a MatchPolicy. The empty string is PolicyAll.
func ParsePolicy(s string) (MatchPolicy, error) {
	switch p := MatchPolicy(s); p {
	case "":
		return PolicyAll, nil
	case PolicyAll, PolicySkipFirst:
		return p, nil
	default:
		return "", fmt.Errorf("unknown match policy %q (want %q or %q)", s, PolicyAll, PolicySkipFirst)
	}
}

// Apply classifies matches and returns the pages to keep.
func (p MatchPolicy) Apply(matches document.MatchSet) (Kind, []int) {
	switch len(matches) {
	case 0:
		return NoMatch, nil
	case 1:
		return SingleMatch, slices.Clone(matches)
	}
	if p == PolicySkipFirst {
		return MultiMatch, slices.Clone(matches[1:])
	}
	return MultiMatch, slices.Clone(matches)
}
