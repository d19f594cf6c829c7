package sink

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"math"
	"os"
	"path/filepath"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-supernode/pkg/community"
	"github.com/dd0wney/cluso-supernode/pkg/supernode"
)

// ArchiveExt is the file extension of archived snapshots
const ArchiveExt = ".supernodes.sz"

// ErrCorruptArchive is returned when an archive file fails its checksum
var ErrCorruptArchive = errors.New("corrupt supernode archive")

// Archive stores each snapshot's supernode table as snappy-compressed JSON,
// one file per date. File format: [Checksum:4][snappy block:N], the checksum
// being CRC-32 (IEEE) of the compressed block.
type Archive struct {
	dir string

	bytesUncompressed uint64
	bytesCompressed   uint64
}

// archivedRecord is the JSON form of supernode.Record; NaN becomes null
type archivedRecord struct {
	Community         string   `json:"community"`
	Size              int      `json:"size"`
	Influence         *float64 `json:"influence"`
	PageRankWeight    *float64 `json:"pagerank_weight"`
	ConeWeight        *float64 `json:"cone_weight"`
	Radius            *float64 `json:"radius"`
	RichClub          *float64 `json:"rich_club"`
	KCore             *float64 `json:"k_core"`
	Clustering        *float64 `json:"clustering"`
	Betweenness       *float64 `json:"betweenness"`
	StructuralEntropy *float64 `json:"structural_entropy"`
}

type archivedSnapshot struct {
	Date    string           `json:"date"`
	RunID   string           `json:"run_id,omitempty"`
	Records []archivedRecord `json:"records"`
}

// NewArchive creates dir if needed
func NewArchive(dir string) (*Archive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &Archive{dir: dir}, nil
}

// Path returns the archive file of date
func (a *Archive) Path(date string) string {
	return filepath.Join(a.dir, date+ArchiveExt)
}

// Write archives one snapshot's records, replacing any previous file
func (a *Archive) Write(runID, date string, records []supernode.Record) error {
	snap := archivedSnapshot{Date: date, RunID: runID, Records: make([]archivedRecord, len(records))}
	for i, r := range records {
		snap.Records[i] = archivedRecord{
			Community:         string(r.Community),
			Size:              r.Size,
			Influence:         finite(r.Influence),
			PageRankWeight:    finite(r.PageRankWeight),
			ConeWeight:        finite(r.ConeWeight),
			Radius:            finite(r.Radius),
			RichClub:          finite(r.RichClub),
			KCore:             finite(r.KCore),
			Clustering:        finite(r.Clustering),
			Betweenness:       finite(r.Betweenness),
			StructuralEntropy: finite(r.StructuralEntropy),
		}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", date, err)
	}
	compressed := snappy.Encode(nil, data)

	buf := make([]byte, 4+len(compressed))
	binary.BigEndian.PutUint32(buf, crc32.ChecksumIEEE(compressed))
	copy(buf[4:], compressed)

	path := a.Path(date)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf, 0o644); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace archive: %w", err)
	}

	a.bytesUncompressed += uint64(len(data))
	a.bytesCompressed += uint64(len(compressed))
	return nil
}

// Read loads one snapshot's records. Null features come back as NaN. A
// missing file yields an error wrapping community.ErrSnapshotNotFound.
func (a *Archive) Read(date string) ([]supernode.Record, error) {
	buf, err := os.ReadFile(a.Path(date))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("archive %s: %w", date, community.ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	if len(buf) < 4 {
		return nil, fmt.Errorf("%w: %s is truncated", ErrCorruptArchive, date)
	}

	compressed := buf[4:]
	if binary.BigEndian.Uint32(buf) != crc32.ChecksumIEEE(compressed) {
		return nil, fmt.Errorf("%w: %s checksum mismatch", ErrCorruptArchive, date)
	}

	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptArchive, date, err)
	}

	var snap archivedSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptArchive, date, err)
	}

	out := make([]supernode.Record, len(snap.Records))
	for i, r := range snap.Records {
		out[i] = supernode.Record{
			Date:              snap.Date,
			Community:         community.ID(r.Community),
			Size:              r.Size,
			Influence:         valueOrNaN(r.Influence),
			PageRankWeight:    valueOrNaN(r.PageRankWeight),
			ConeWeight:        valueOrNaN(r.ConeWeight),
			Radius:            valueOrNaN(r.Radius),
			RichClub:          valueOrNaN(r.RichClub),
			KCore:             valueOrNaN(r.KCore),
			Clustering:        valueOrNaN(r.Clustering),
			Betweenness:       valueOrNaN(r.Betweenness),
			StructuralEntropy: valueOrNaN(r.StructuralEntropy),
		}
	}
	return out, nil
}

// CompressionRatio returns compressed/uncompressed bytes written so far, or 0
// before the first write
func (a *Archive) CompressionRatio() float64 {
	if a.bytesUncompressed == 0 {
		return 0
	}
	return float64(a.bytesCompressed) / float64(a.bytesUncompressed)
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
