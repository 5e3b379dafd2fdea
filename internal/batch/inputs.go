package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ErrNoInput is returned when the inputs of a run contain no PDF files.
var ErrNoInput = errors.New("no PDF files found")

var numberSuffix = regexp.MustCompile(`-(\d+)\.[pP][dD][fF]$`)

// IsPDF reports whether path has a .pdf extension, in any case.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// CollectInputs expands inputs into the PDF files to process. Directories
// contribute their immediate *.pdf children; files are taken as given.
// Duplicates are removed and the result is ordered by sortPDFsByNumber.
func CollectInputs(inputs []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("input not found: %s", in)
		}
		if !info.IsDir() {
			add(filepath.Clean(in))
			continue
		}
		entries, err := os.ReadDir(in)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", in, err)
		}
		for _, e := range entries {
			if e.Type().IsRegular() && IsPDF(e.Name()) {
				add(filepath.Join(in, e.Name()))
			}
		}
	}

	if len(files) == 0 {
		return nil, ErrNoInput
	}
	return sortPDFsByNumber(files), nil
}

// sortPDFsByNumber sorts PDF paths by name, ordering numbered parts of the
// same name by their numeric suffix. Unnumbered files come first.
// e.g., ["report-2.pdf", "report-1.pdf", "report-10.pdf"] -> ["report-1.pdf", "report-2.pdf", "report-10.pdf"]
func sortPDFsByNumber(paths []string) []string {
	type key struct {
		prefix string
		num    int
	}
	keyOf := func(p string) key {
		if m := numberSuffix.FindStringSubmatch(p); len(m) > 1 {
			n, _ := strconv.Atoi(m[1])
			return key{prefix: strings.TrimSuffix(p, m[0]), num: n}
		}
		return key{prefix: strings.TrimSuffix(p, filepath.Ext(p)), num: -1}
	}

	sorted := make([]string, len(paths))
	copy(sorted, paths)

	sort.SliceStable(sorted, func(i, j int) bool {
		ki, kj := keyOf(sorted[i]), keyOf(sorted[j])
		if ki.prefix != kj.prefix {
			return ki.prefix < kj.prefix
		}
		if ki.num != kj.num {
			return ki.num < kj.num
		}
		return sorted[i] < sorted[j]
	})

	return sorted
}

// outputName returns the file name of the outline written for pdfPath.
// e.g., "/scans/Annual Report.PDF" -> "Annual Report.json"
func outputName(pdfPath, format string) string {
	base := filepath.Base(pdfPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "." + format
}
