package rename

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScript(t *testing.T) {
	tests := []struct {
		name string
		expr string
		in   string
		want string
	}{
		{"upper", `name.toUpperCase()`, "book.pdf", "BOOK.PDF"},
		{"stem and ext", `stem.replace("education", "statistical") + ext`, "education-2019.pdf", "statistical-2019.pdf"},
		{"conditional", `ext === ".pdf" ? "kept-" + name : name`, "a.pdf", "kept-a.pdf"},
		{"number coerced", `stem.length`, "abcd.pdf", "4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := Script(tt.expr)
			require.NoError(t, err)

			got, err := rule(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScriptErrors(t *testing.T) {
	t.Run("syntax", func(t *testing.T) {
		_, err := Script(`name.(`)
		assert.Error(t, err)
	})

	tests := []struct {
		name string
		expr string
	}{
		{"reference error", `missing(name)`},
		{"undefined", `undefined`},
		{"empty", `""`},
		{"path separator", `"sub/" + name`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := Script(tt.expr)
			require.NoError(t, err)

			_, err = rule("book.pdf")
			assert.Error(t, err)
		})
	}
}

func TestScriptTimeout(t *testing.T) {
	prev := ScriptTimeout
	ScriptTimeout = 50 * time.Millisecond
	t.Cleanup(func() { ScriptTimeout = prev })

	rule, err := Script(`while (true) {}`)
	require.NoError(t, err)

	_, err = rule("book.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestPlanScriptError(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf")

	rule, err := Script(`missing()`)
	require.NoError(t, err)

	_, err = Plan(dir, rule)
	assert.Error(t, err)
}
