package colony

import (
	"cmp"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
)

// colonyMarkers are the site codes that identify colony folders.
var colonyMarkers = []string{"CC", "DD", "SH"}

// DiscoverDates lists the date folders of a colony folder: subdirectories
// whose name is a number, sorted numerically.
func DiscoverDates(colonyDir string) ([]string, error) {
	entries, err := os.ReadDir(colonyDir)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", colonyDir, err)
	}
	var dates []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := strconv.ParseUint(e.Name(), 10, 64); err == nil {
			dates = append(dates, e.Name())
		}
	}
	sortDates(dates)
	return dates, nil
}

// DiscoverColonies lists the colony folders under root, sorted by name.
func DiscoverColonies(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", root, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && isColonyName(e.Name()) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

func isColonyName(name string) bool {
	for _, m := range colonyMarkers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// sortDates orders numeric dates by value and puts anything else after
// them in lexical order.
func sortDates(dates []string) {
	slices.SortFunc(dates, func(a, b string) int {
		na, errA := strconv.ParseUint(a, 10, 64)
		nb, errB := strconv.ParseUint(b, 10, 64)
		switch {
		case errA == nil && errB == nil:
			if c := cmp.Compare(na, nb); c != 0 {
				return c
			}
			return strings.Compare(a, b)
		case errA == nil:
			return -1
		case errB == nil:
			return 1
		}
		return strings.Compare(a, b)
	})
}
