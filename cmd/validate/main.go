// Command validate runs the codec against the shared plus code test corpus:
// encoding.csv, decoding.csv, validityTests.csv and shortCodeTests.csv. Each
// file is a phase; the command exits non-zero if any row fails.
//
// Usage:
//
//	go run ./cmd/validate -dir ../open-location-code/test_data
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// corpusFile maps a corpus file to the check that runs it.
type corpusFile struct {
	name  string
	check func([]csvRow) *phase
}

var corpus = []corpusFile{
	{name: "encoding.csv", check: checkEncoding},
	{name: "decoding.csv", check: checkDecoding},
	{name: "validityTests.csv", check: checkValidity},
	{name: "shortCodeTests.csv", check: checkShortCodes},
}

type styles struct {
	title, pass, fail, skip, detail lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{title: plain, pass: plain, fail: plain, skip: plain, detail: plain}
	}
	return styles{
		title:  lipgloss.NewStyle().Bold(true),
		pass:   lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90")).Bold(true),
		fail:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		skip:   lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		detail: lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
	}
}

func main() {
	dir := flag.String("dir", "test_data", "directory containing the corpus CSV files")
	maxErrors := flag.Int("max-errors", 20, "failures to print per phase (0 for all)")
	flag.Parse()

	color := term.IsTerminal(int(os.Stdout.Fd()))
	os.Exit(run(os.Stdout, *dir, *maxErrors, newStyles(color)))
}

func run(w io.Writer, dir string, maxErrors int, st styles) int {
	fmt.Fprintln(w, st.title.Render("=== Plus Code Corpus Validation ==="))
	fmt.Fprintln(w)

	var phases []*phase
	for _, cf := range corpus {
		rows, err := loadCSV(filepath.Join(dir, cf.name))
		if errors.Is(err, fs.ErrNotExist) {
			phases = append(phases, &phase{name: cf.check(nil).name, skipped: true})
			continue
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load %s: %v\n", cf.name, err)
			return 1
		}
		phases = append(phases, cf.check(rows))
	}

	ran, allPassed := 0, true
	for _, p := range phases {
		var status string
		switch {
		case p.skipped:
			status = st.skip.Render("SKIP (file not found)")
		case p.passed():
			status = st.pass.Render("PASS")
			ran++
		default:
			status = st.fail.Render(fmt.Sprintf("FAIL (%d errors)", len(p.errors)))
			allPassed = false
			ran++
		}
		fmt.Fprintf(w, "  %-14s %5d rows  %s\n", p.name, p.rows, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if maxErrors > 0 && i == maxErrors {
				fmt.Fprintf(w, "  ... %d more\n", len(p.errors)-maxErrors)
				break
			}
			fmt.Fprintf(w, "  [%d] %s\n", i+1, st.detail.Render(e))
		}
	}

	switch {
	case ran == 0:
		fmt.Fprintln(w, "\nNo corpus files found in", dir)
		return 1
	case allPassed:
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	default:
		fmt.Fprintln(w, "\nValidation FAILED.")
		return 1
	}
}
