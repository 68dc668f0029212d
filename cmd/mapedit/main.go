// Command mapedit applies one editing operation to a map file.
//
// Usage:
//
//	mapedit -in map.yaml [-out out.yaml] close -station B -lines 1,2
//	mapedit -in map.yaml [-out out.yaml] replace -stations D,E,F -lines 1
//	mapedit -in map.yaml [-out out.yaml] alternative -from A -to C
//
// The file format follows the extension. Without -out the result is written
// to stdout as YAML. The exit status is 2 when the operation changed nothing.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"metromaps/internal/codec"
	"metromaps/internal/domain"
	"metromaps/internal/editor"
)

const (
	exitOK       = 0
	exitError    = 1
	exitNotApply = 2
)

var errNotApplied = errors.New("edit not applicable, map unchanged")

func main() {
	log.SetFlags(0)
	log.SetPrefix("mapedit: ")
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("mapedit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "", "Input map file (.yaml, .yml or .json)")
	out := fs.String("out", "", "Output map file (default: YAML on stdout)")
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if *in == "" || fs.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: mapedit -in FILE [-out FILE] close|replace|alternative [flags]")
		return exitError
	}

	model, err := readMap(*in)
	if err != nil {
		fmt.Fprintf(stderr, "mapedit: %v\n", err)
		return exitError
	}

	summary, err := apply(model, fs.Arg(0), fs.Args()[1:], stderr)
	if errors.Is(err, errNotApplied) {
		fmt.Fprintf(stderr, "mapedit: %v\n", err)
		return exitNotApply
	}
	if err != nil {
		fmt.Fprintf(stderr, "mapedit: %v\n", err)
		return exitError
	}

	if err := writeMap(model, *out, stdout); err != nil {
		fmt.Fprintf(stderr, "mapedit: %v\n", err)
		return exitError
	}
	fmt.Fprintf(stderr, "mapedit: %s\n", summary)
	return exitOK
}

// apply runs the named operation on model and returns a one-line summary
func apply(model *domain.ModelData, op string, args []string, stderr io.Writer) (string, error) {
	fs := flag.NewFlagSet(op, flag.ContinueOnError)
	fs.SetOutput(stderr)

	switch op {
	case "close":
		station := fs.String("station", "", "Station to close")
		lines := fs.String("lines", "", "Comma-separated lines to close it on")
		if err := fs.Parse(args); err != nil {
			return "", err
		}
		st, err := lookupStation(model, *station)
		if err != nil {
			return "", err
		}
		ls, err := lineList(model, *lines)
		if err != nil {
			return "", err
		}
		c := editor.CloseStation(model, st, ls)
		if c == nil {
			return "", errNotApplied
		}
		return fmt.Sprintf("closed %s on %d line(s)", st.Name, len(c.Lines)), nil

	case "replace":
		stations := fs.String("stations", "", "Comma-separated consecutive stations")
		lines := fs.String("lines", "", "Comma-separated lines to replace")
		if err := fs.Parse(args); err != nil {
			return "", err
		}
		var sts []*domain.Station
		for _, name := range splitList(*stations) {
			st, err := lookupStation(model, name)
			if err != nil {
				return "", err
			}
			sts = append(sts, st)
		}
		ls, err := lineList(model, *lines)
		if err != nil {
			return "", err
		}
		r := editor.CreateReplacementService(model, sts, ls)
		if r == nil {
			return "", errNotApplied
		}
		return fmt.Sprintf("created replacement %s with %d residual line(s)", r.Line.Name, len(r.Residuals)), nil

	case "alternative":
		from := fs.String("from", "", "First station")
		to := fs.String("to", "", "Second station")
		if err := fs.Parse(args); err != nil {
			return "", err
		}
		a, err := lookupStation(model, *from)
		if err != nil {
			return "", err
		}
		b, err := lookupStation(model, *to)
		if err != nil {
			return "", err
		}
		alt := editor.CreateAlternativeService(model, a, b)
		if alt == nil {
			return "", errNotApplied
		}
		return fmt.Sprintf("created alternative %s", alt.Line.Name), nil

	default:
		return "", fmt.Errorf("unknown operation %q", op)
	}
}

func lookupStation(model *domain.ModelData, name string) (*domain.Station, error) {
	if name == "" {
		return nil, errors.New("station name required")
	}
	st := model.Station(name)
	if st == nil {
		return nil, fmt.Errorf("station %q not found", name)
	}
	return st, nil
}

func lineList(model *domain.ModelData, list string) ([]*domain.Line, error) {
	var out []*domain.Line
	for _, name := range splitList(list) {
		l := model.Line(name)
		if l == nil {
			return nil, fmt.Errorf("line %q not found", name)
		}
		out = append(out, l)
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func formatOf(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

func readMap(path string) (*domain.ModelData, error) {
	c, err := codec.ForFormat(formatOf(path))
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	model, err := c.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return model, nil
}

func writeMap(model *domain.ModelData, path string, stdout io.Writer) error {
	if path == "" {
		return codec.NewYAMLCodec().Export(model, stdout)
	}

	c, err := codec.ForFormat(formatOf(path))
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Export(model, f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
