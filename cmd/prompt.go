package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/itsmostafa/yearbook/internal/config"
	"github.com/itsmostafa/yearbook/internal/locate"
)

// confirmFunc returns the full-scan confirmation for mode. In ask mode the
// user is prompted on out and answers on in.
func confirmFunc(mode string, in *bufio.Reader, out io.Writer) locate.ConfirmFunc {
	switch mode {
	case config.ConfirmAlways:
		return locate.AlwaysConfirm
	case config.ConfirmNever:
		return locate.NeverConfirm
	}

	return locate.Serialize(func(ctx context.Context, path string) bool {
		if ctx.Err() != nil {
			return false
		}
		fmt.Fprintf(out, "%s has no visible list of tables. Scan every page? This can take a while. [y/N] ", filepath.Base(path))
		line, _ := in.ReadString('\n')
		return isYes(line)
	})
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// readQuery joins args into the query, prompting for one when none is given.
func readQuery(args []string, in *bufio.Reader, out io.Writer) (string, error) {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query != "" {
		return query, nil
	}

	fmt.Fprint(out, "Enter your query: ")
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	query = strings.TrimSpace(line)
	if query == "" {
		return "", errors.New("a query is required")
	}
	return query, nil
}
