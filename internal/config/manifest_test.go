package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadManifest(t *testing.T) {
	content := `datasets:
  - name: sp500-futures
    symbol: ES
    path: testdata/es.csv
    tick_size: 0.25
  - name: bund
    symbol: FGBL
    tick_size: 0.01
`
	path := writeTempManifest(t, content)

	m, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Datasets, 2)

	assert.Equal(t, "ES", m.Datasets[0].Symbol)
	assert.Equal(t, "testdata/es.csv", m.Datasets[0].Path)
	assert.Equal(t, 0.25, m.Datasets[0].TickSize)

	// Second dataset has no path, meaning it is fetched over HTTP
	assert.Empty(t, m.Datasets[1].Path)
}

func TestLoadManifestErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"No datasets", "datasets: []\n", "no datasets"},
		{"Missing symbol", "datasets:\n  - path: a.csv\n    tick_size: 0.25\n", "symbol is required"},
		{"Bad tick size", "datasets:\n  - symbol: ES\n    tick_size: 0\n", "tick_size must be positive"},
		{"Invalid YAML", "datasets: [", "cannot parse YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempManifest(t, tt.content)
			_, err := LoadManifest(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}

	t.Run("Missing file", func(t *testing.T) {
		_, err := LoadManifest("does-not-exist.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot read manifest")
	})
}

func writeTempManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "datasets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
