package app

import (
	"fmt"
	"io"
	"slices"
)

// WriteReport prints a summary line followed by the ids sorted lexicographically.
func WriteReport(w io.Writer, path string, ids []string) error {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)

	if _, err := fmt.Fprintf(w, "Generated %s with the following room IDs:\n", path); err != nil {
		return err
	}
	for _, id := range sorted {
		if _, err := fmt.Fprintf(w, "- %s\n", id); err != nil {
			return err
		}
	}
	return nil
}
