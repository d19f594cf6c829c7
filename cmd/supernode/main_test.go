package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestRunCommand(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	writeFile(t, filepath.Join(root, "202401", "handle", "rank202401.csv"), "id,community,cone\n1,A,3\n2,A,1\n3,B,0\n")
	writeFile(t, filepath.Join(root, "202401", "handle", "edges202401.csv"), "source,target\n1,2\n2,1\n3,1\n")
	writeFile(t, filepath.Join(root, "202402", "handle", "rank202402.csv"), "id,community,cone\n1,X,3\n2,X,1\n3,Y,0\n")

	cfgPath := filepath.Join(out, "supernode.yaml")
	writeFile(t, cfgPath, "tracking:\n  threshold: 0.9\nlogging:\n  level: error\n")

	csvPath := filepath.Join(out, "changes.csv")
	metricsPath := filepath.Join(out, "supernode.prom")

	rootCmd.SetArgs([]string{
		"run",
		"--config", cfgPath,
		"--root", root,
		"--threshold", "0",
		"--output", csvPath,
		"--archive", filepath.Join(out, "archive"),
		"--metrics-textfile", metricsPath,
		"--cache-size", "8",
	})
	require.NoError(t, Execute())

	// the flag overrides the file's threshold
	assert.Equal(t, 0.0, app.cfg.Tracking.Threshold)
	assert.Equal(t, "error", app.cfg.Logging.Level)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 5)

	_, err = os.Stat(filepath.Join(out, "archive", "202402.supernodes.sz"))
	assert.NoError(t, err)

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "supernode_")
}

func TestInvalidConfigRejected(t *testing.T) {
	rootCmd.SetArgs([]string{"track", "--config=", "--root", t.TempDir(), "--policy", "fixed"})
	err := Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UniverseSize")
}

func TestDetectCommand(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "202401", "handle", "edges202401.csv"), "source,target\n1,2\n3,4\n")

	rootCmd.SetArgs([]string{"detect", "--config=", "--root", root, "--method", "components", "--log-level", "error"})
	require.NoError(t, Execute())

	data, err := os.ReadFile(filepath.Join(root, "202401", "handle", "rank202401.csv"))
	require.NoError(t, err)
	assert.Equal(t, "id,community\n1,0\n2,0\n3,1\n4,1\n", string(data))
}
