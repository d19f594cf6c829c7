package sink

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-supernode/pkg/community"
	"github.com/dd0wney/cluso-supernode/pkg/supernode"
	"github.com/dd0wney/cluso-supernode/pkg/tracking"
)

func sampleCorrespondences() []tracking.Correspondence {
	return []tracking.Correspondence{
		{PrevDate: "202401", PrevCommunity: "7", CurrDate: "202402", CurrCommunity: "3", Similarity: 0.5},
		{PrevDate: "202401", PrevCommunity: "7", CurrDate: "202402", CurrCommunity: "1", Similarity: 0},
		{PrevDate: "202401", PrevCommunity: "2", CurrDate: "202402", CurrCommunity: "3", Similarity: 1.0 / 6},
	}
}

func sampleSupernodes() []supernode.Record {
	return []supernode.Record{
		{
			Date: "202401", Community: "a", Size: 3,
			Influence: 1.98, PageRankWeight: 0.5, ConeWeight: 0.5, Radius: 0,
			RichClub: 0, KCore: 4, Clustering: 1, Betweenness: 0, StructuralEntropy: 1,
		},
		{
			Date: "202401", Community: "b", Size: 1,
			Influence: 0.01875, PageRankWeight: 0.5, ConeWeight: 0.5, Radius: 150,
			RichClub: math.NaN(), KCore: 0, Clustering: 0, Betweenness: 0, StructuralEntropy: 0,
		},
	}
}

// assertRecordsEqual compares records treating NaN as equal to NaN
func assertRecordsEqual(t *testing.T, want, got []supernode.Record) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		w, g := want[i], got[i]
		assert.Equal(t, w.Date, g.Date)
		assert.Equal(t, w.Community, g.Community)
		assert.Equal(t, w.Size, g.Size)
		for _, pair := range [][2]float64{
			{w.Influence, g.Influence},
			{w.PageRankWeight, g.PageRankWeight},
			{w.ConeWeight, g.ConeWeight},
			{w.Radius, g.Radius},
			{w.RichClub, g.RichClub},
			{w.KCore, g.KCore},
			{w.Clustering, g.Clustering},
			{w.Betweenness, g.Betweenness},
			{w.StructuralEntropy, g.StructuralEntropy},
		} {
			if math.IsNaN(pair[0]) {
				assert.True(t, math.IsNaN(pair[1]), "record %d: want NaN, got %v", i, pair[1])
				continue
			}
			assert.Equal(t, pair[0], pair[1], "record %d", i)
		}
	}
}

func TestWriteCorrespondences(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCorrespondences(&buf, sampleCorrespondences()))

	want := "prev_date,prev_community,current_date,current_community,similarity\n" +
		"202401,7,202402,3,0.5\n" +
		"202401,7,202402,1,0\n" +
		"202401,2,202402,3,0.16666666666666666\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCorrespondences_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCorrespondences(&buf, nil))
	assert.Equal(t, "prev_date,prev_community,current_date,current_community,similarity\n", buf.String())
}

func TestWriteCorrespondencesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "community_changes.csv")
	require.NoError(t, WriteCorrespondencesFile(path, sampleCorrespondences()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, bytes.Count(data, []byte("\n")))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_Correspondences(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	want := sampleCorrespondences()
	require.NoError(t, s.SaveCorrespondences(ctx, "run-1", want))

	got, err := s.Correspondences(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	other, err := s.Correspondences(ctx, "run-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestStore_Supernodes(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	want := sampleSupernodes()
	require.NoError(t, s.SaveSupernodes(ctx, "run-1", "202401", want))

	got, err := s.Supernodes(ctx, "run-1", "202401")
	require.NoError(t, err)
	assertRecordsEqual(t, want, got)

	// saving the same date again replaces it
	require.NoError(t, s.SaveSupernodes(ctx, "run-1", "202401", want[:1]))
	got, err = s.Supernodes(ctx, "run-1", "202401")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestStore_Runs(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveCorrespondences(ctx, "run-1", sampleCorrespondences()))
	require.NoError(t, s.SaveSupernodes(ctx, "run-2", "202401", sampleSupernodes()))
	require.NoError(t, s.SaveSupernodes(ctx, "run-2", "202402", sampleSupernodes()))

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	kinds := map[string]string{}
	for _, r := range runs {
		kinds[r.ID] = r.Kind
	}
	assert.Equal(t, map[string]string{"run-1": RunKindTrack, "run-2": RunKindDescribe}, kinds)
}

func TestStore_FileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	ctx := context.Background()

	s, err := OpenStore(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveCorrespondences(ctx, "run-1", sampleCorrespondences()))
	require.NoError(t, s.Close())

	s, err = OpenStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Correspondences(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestArchive_RoundTrip(t *testing.T) {
	a, err := NewArchive(filepath.Join(t.TempDir(), "archive"))
	require.NoError(t, err)

	want := sampleSupernodes()
	require.NoError(t, a.Write("run-1", "202401", want))

	got, err := a.Read("202401")
	require.NoError(t, err)
	assertRecordsEqual(t, want, got)

	assert.Greater(t, a.CompressionRatio(), 0.0)
}

func TestArchive_Missing(t *testing.T) {
	a, err := NewArchive(t.TempDir())
	require.NoError(t, err)

	_, err = a.Read("202401")
	assert.ErrorIs(t, err, community.ErrSnapshotNotFound)
}

func TestArchive_Corrupt(t *testing.T) {
	a, err := NewArchive(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, a.Write("run-1", "202401", sampleSupernodes()))

	data, err := os.ReadFile(a.Path("202401"))
	require.NoError(t, err)
	data[len(data)-1] ^= 0xff
	require.NoError(t, os.WriteFile(a.Path("202401"), data, 0o644))

	_, err = a.Read("202401")
	assert.ErrorIs(t, err, ErrCorruptArchive)

	require.NoError(t, os.WriteFile(a.Path("202402"), []byte{1, 2}, 0o644))
	_, err = a.Read("202402")
	assert.ErrorIs(t, err, ErrCorruptArchive)
}

func TestArchive_NullForNaN(t *testing.T) {
	a, err := NewArchive(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, a.Write("", "202401", sampleSupernodes()[1:]))

	got, err := a.Read("202401")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, math.IsNaN(got[0].RichClub))
	assert.Equal(t, 150.0, got[0].Radius)
}
