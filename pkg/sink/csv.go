// Package sink persists correspondence and supernode results: a CSV table of
// correspondences, a SQLite result store and a compressed supernode archive.
package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dd0wney/cluso-supernode/pkg/tracking"
)

// CorrespondenceHeader is the column order of the correspondence CSV
var CorrespondenceHeader = []string{"prev_date", "prev_community", "current_date", "current_community", "similarity"}

// WriteCorrespondences writes a header and one row per record, in order
func WriteCorrespondences(w io.Writer, records []tracking.Correspondence) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CorrespondenceHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(CorrespondenceHeader))
	for _, r := range records {
		row[0] = r.PrevDate
		row[1] = string(r.PrevCommunity)
		row[2] = r.CurrDate
		row[3] = string(r.CurrCommunity)
		row[4] = strconv.FormatFloat(r.Similarity, 'g', -1, 64)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write correspondence: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCorrespondencesFile writes the table to path, replacing any existing
// file only once the new content is complete
func WriteCorrespondencesFile(path string, records []tracking.Correspondence) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".correspondences-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCorrespondences(tmp, records); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
