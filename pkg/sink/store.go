package sink

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dd0wney/cluso-supernode/pkg/community"
	"github.com/dd0wney/cluso-supernode/pkg/supernode"
	"github.com/dd0wney/cluso-supernode/pkg/tracking"
)

// Store keeps correspondence and supernode results in SQLite, grouped by run
type Store struct {
	db *sql.DB
}

// RunInfo describes one stored run
type RunInfo struct {
	ID        string
	Kind      string
	CreatedAt time.Time
}

// Run kinds
const (
	RunKindTrack    = "track"
	RunKindDescribe = "describe"
)

// OpenStore opens or creates the database at path. Use ":memory:" for a
// throwaway store.
func OpenStore(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps :memory: databases alive and serialises writers
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS correspondences (
		run_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		prev_date TEXT NOT NULL,
		prev_community TEXT NOT NULL,
		curr_date TEXT NOT NULL,
		curr_community TEXT NOT NULL,
		similarity REAL NOT NULL,
		PRIMARY KEY (run_id, seq),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS supernodes (
		run_id TEXT NOT NULL,
		date TEXT NOT NULL,
		seq INTEGER NOT NULL,
		community TEXT NOT NULL,
		size INTEGER NOT NULL,
		influence REAL,
		pagerank_weight REAL,
		cone_weight REAL,
		radius REAL,
		rich_club REAL,
		k_core REAL,
		clustering REAL,
		betweenness REAL,
		structural_entropy REAL,
		PRIMARY KEY (run_id, date, seq),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_correspondences_prev ON correspondences(run_id, prev_date, prev_community);
	CREATE INDEX IF NOT EXISTS idx_supernodes_community ON supernodes(run_id, community);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveCorrespondences stores records under runID in one transaction.
// Record order is preserved.
func (s *Store) SaveCorrespondences(ctx context.Context, runID string, records []tracking.Correspondence) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := ensureRun(ctx, tx, runID, RunKindTrack); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO correspondences (run_id, seq, prev_date, prev_community, curr_date, curr_community, similarity)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, runID, i, r.PrevDate, string(r.PrevCommunity), r.CurrDate, string(r.CurrCommunity), r.Similarity); err != nil {
			return fmt.Errorf("failed to insert correspondence %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Correspondences returns the records of runID in their original order
func (s *Store) Correspondences(ctx context.Context, runID string) ([]tracking.Correspondence, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT prev_date, prev_community, curr_date, curr_community, similarity
		FROM correspondences
		WHERE run_id = ?
		ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query correspondences: %w", err)
	}
	defer rows.Close()

	var out []tracking.Correspondence
	for rows.Next() {
		var (
			r          tracking.Correspondence
			prev, curr string
		)
		if err := rows.Scan(&r.PrevDate, &prev, &r.CurrDate, &curr, &r.Similarity); err != nil {
			return nil, fmt.Errorf("failed to scan correspondence: %w", err)
		}
		r.PrevCommunity = community.ID(prev)
		r.CurrCommunity = community.ID(curr)
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveSupernodes stores one snapshot's records under runID, replacing any
// earlier records for the same date. NaN features are stored as NULL.
func (s *Store) SaveSupernodes(ctx context.Context, runID, date string, records []supernode.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := ensureRun(ctx, tx, runID, RunKindDescribe); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM supernodes WHERE run_id = ? AND date = ?`, runID, date); err != nil {
		return fmt.Errorf("failed to clear supernodes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO supernodes (run_id, date, seq, community, size, influence, pagerank_weight, cone_weight,
			radius, rich_club, k_core, clustering, betweenness, structural_entropy)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		_, err := stmt.ExecContext(ctx, runID, date, i, string(r.Community), r.Size,
			nullable(r.Influence), nullable(r.PageRankWeight), nullable(r.ConeWeight), nullable(r.Radius),
			nullable(r.RichClub), nullable(r.KCore), nullable(r.Clustering), nullable(r.Betweenness),
			nullable(r.StructuralEntropy))
		if err != nil {
			return fmt.Errorf("failed to insert supernode %s: %w", r.Community, err)
		}
	}

	return tx.Commit()
}

// Supernodes returns the records of one snapshot in partition order. NULL
// features come back as NaN.
func (s *Store) Supernodes(ctx context.Context, runID, date string) ([]supernode.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT community, size, influence, pagerank_weight, cone_weight, radius,
			rich_club, k_core, clustering, betweenness, structural_entropy
		FROM supernodes
		WHERE run_id = ? AND date = ?
		ORDER BY seq
	`, runID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query supernodes: %w", err)
	}
	defer rows.Close()

	var out []supernode.Record
	for rows.Next() {
		var (
			comm string
			size int
			vals [9]sql.NullFloat64
		)
		dest := []any{&comm, &size}
		for i := range vals {
			dest = append(dest, &vals[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan supernode: %w", err)
		}

		out = append(out, supernode.Record{
			Date:              date,
			Community:         community.ID(comm),
			Size:              size,
			Influence:         orNaN(vals[0]),
			PageRankWeight:    orNaN(vals[1]),
			ConeWeight:        orNaN(vals[2]),
			Radius:            orNaN(vals[3]),
			RichClub:          orNaN(vals[4]),
			KCore:             orNaN(vals[5]),
			Clustering:        orNaN(vals[6]),
			Betweenness:       orNaN(vals[7]),
			StructuralEntropy: orNaN(vals[8]),
		})
	}
	return out, rows.Err()
}

// Runs lists stored runs, oldest first
func (s *Store) Runs(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, kind, created_at FROM runs ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []RunInfo
	for rows.Next() {
		var r RunInfo
		if err := rows.Scan(&r.ID, &r.Kind, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func ensureRun(ctx context.Context, tx *sql.Tx, runID, kind string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO runs (id, kind) VALUES (?, ?) ON CONFLICT(id) DO NOTHING`, runID, kind)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
