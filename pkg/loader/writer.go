package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dd0wney/cluso-supernode/pkg/community"
	"github.com/dd0wney/cluso-supernode/pkg/logging"
)

// WritePartition writes p as an id,community CSV in community order, members
// ascending. ReadPartition reads it back unchanged.
func WritePartition(w io.Writer, p *community.Partition) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColumnID, ColumnCommunity}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, 2)
	for _, id := range p.Communities() {
		row[1] = string(id)
		for _, node := range p.SortedMembers(id) {
			row[0] = strconv.FormatUint(uint64(node), 10)
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write member: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// SavePartition writes p to the partition path for date, creating parent
// directories. An existing file is replaced only once the new one is complete.
func (l *CSVLoader) SavePartition(date string, p *community.Partition) (string, error) {
	path := l.layout.PartitionPath(date)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".partition-*.csv")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WritePartition(tmp, p); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename to %s: %w", path, err)
	}

	if l.cache != nil {
		l.cache.Remove(date)
	}

	l.logger.Debug("partition written",
		logging.Date(date),
		logging.Path(path),
		logging.Int("communities", p.Len()))
	return path, nil
}
