package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, ".", cfg.DataDir)
	assert.Empty(t, cfg.Manifest)
	assert.False(t, cfg.LenientKinds)
	assert.Equal(t, 1400, cfg.FigureWidth)
	assert.Equal(t, 450, cfg.PanelHeight)
	assert.Equal(t, 16, cfg.RenderCacheSize)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("COOPS_LOG_LEVEL", "debug")
	t.Setenv("COOPS_LOG_FORMAT", "text")
	t.Setenv("COOPS_HTTP_ADDR", ":9090")
	t.Setenv("COOPS_SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("COOPS_DATA_DIR", "/data/coops")
	t.Setenv("COOPS_MANIFEST", "/data/coops/manifest.yaml")
	t.Setenv("COOPS_LENIENT_KINDS", "true")
	t.Setenv("COOPS_FIGURE_WIDTH", "1000")
	t.Setenv("COOPS_PANEL_HEIGHT", "300")
	t.Setenv("COOPS_RENDER_CACHE_SIZE", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/data/coops", cfg.DataDir)
	assert.Equal(t, "/data/coops/manifest.yaml", cfg.Manifest)
	assert.True(t, cfg.LenientKinds)
	assert.Equal(t, 1000, cfg.FigureWidth)
	assert.Equal(t, 300, cfg.PanelHeight)
	assert.Equal(t, 4, cfg.RenderCacheSize)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantMsg string
	}{
		{name: "unparseable shutdown timeout", key: "COOPS_SHUTDOWN_TIMEOUT", value: "not-a-duration", wantMsg: "SHUTDOWN_TIMEOUT"},
		{name: "negative shutdown timeout", key: "COOPS_SHUTDOWN_TIMEOUT", value: "-1s", wantMsg: "SHUTDOWN_TIMEOUT"},
		{name: "unknown log level", key: "COOPS_LOG_LEVEL", value: "verbose", wantMsg: "LOG_LEVEL"},
		{name: "unknown log format", key: "COOPS_LOG_FORMAT", value: "xml", wantMsg: "LOG_FORMAT"},
		{name: "width too small", key: "COOPS_FIGURE_WIDTH", value: "50", wantMsg: "FIGURE_WIDTH"},
		{name: "panel height too large", key: "COOPS_PANEL_HEIGHT", value: "9999", wantMsg: "PANEL_HEIGHT"},
		{name: "negative cache size", key: "COOPS_RENDER_CACHE_SIZE", value: "-1", wantMsg: "RENDER_CACHE_SIZE"},
		{name: "lenient not a bool", key: "COOPS_LENIENT_KINDS", value: "maybe", wantMsg: "LENIENT_KINDS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestCheckDimension(t *testing.T) {
	require.NoError(t, CheckDimension("width", MinDimension))
	require.NoError(t, CheckDimension("width", MaxDimension))
	require.Error(t, CheckDimension("width", MinDimension-1))
	require.Error(t, CheckDimension("width", MaxDimension+1))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "manifest.yaml", `
sources:
  - path: CO-OPS__CFR1624__cu.csv
    kind: current
  - path: winds.csv
    kind: ws
    station: "8724580"
  - path: /abs/CO-OPS__8540433__ml.csv
    kind: monthly_level
  - path: CO-OPS__8453662__vs.csv
    kind: visibility
`)

	m, err := LoadManifest(path)
	require.NoError(t, err)

	srcs, err := m.Descriptors()
	require.NoError(t, err)
	require.Len(t, srcs, 4)

	assert.Equal(t, domain.SourceDescriptor{
		ID:        "CO-OPS__CFR1624__cu.csv",
		Path:      filepath.Join(dir, "CO-OPS__CFR1624__cu.csv"),
		Kind:      domain.KindCurrent,
		StationID: "CFR1624",
	}, srcs[0])
	assert.Equal(t, domain.KindWind, srcs[1].Kind)
	assert.Equal(t, "8724580", srcs[1].StationID)
	assert.Equal(t, "/abs/CO-OPS__8540433__ml.csv", srcs[2].Path)
	assert.Equal(t, domain.KindVisibility, srcs[3].Kind)
}

func TestParseManifest_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantMsg string
	}{
		{name: "no sources", yaml: "sources: []\n", wantMsg: "sources"},
		{name: "unknown kind", yaml: "sources:\n  - path: a.csv\n    kind: tide\n", wantMsg: "kind"},
		{name: "missing path", yaml: "sources:\n  - kind: cu\n", wantMsg: "path is required"},
		{name: "bad station", yaml: "sources:\n  - path: a.csv\n    kind: cu\n    station: \"a b\"\n", wantMsg: "station"},
		{name: "not yaml", yaml: "sources: [", wantMsg: "decode manifest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestManifest_DescriptorNeedsStation(t *testing.T) {
	m, err := ParseManifest([]byte("sources:\n  - path: currents.csv\n    kind: current\n"))
	require.NoError(t, err)

	_, err = m.Descriptors()
	var schemaErr *domain.SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestResolveSources(t *testing.T) {
	t.Run("defaults under data dir", func(t *testing.T) {
		srcs, err := ResolveSources(nil, "", "data", false)
		require.NoError(t, err)
		require.Len(t, srcs, 4)
		for i, k := range domain.PanelOrder {
			assert.Equal(t, k, srcs[i].Kind)
			assert.Equal(t, filepath.Join("data", DefaultSources[i]), srcs[i].Path)
		}
	})

	t.Run("explicit paths win over manifest", func(t *testing.T) {
		srcs, err := ResolveSources([]string{"x/CO-OPS__8453662__vs.csv"}, "missing.yaml", "data", false)
		require.NoError(t, err)
		require.Len(t, srcs, 1)
		assert.Equal(t, domain.KindVisibility, srcs[0].Kind)
	})

	t.Run("strict rejects unknown suffix", func(t *testing.T) {
		_, err := ResolveSources([]string{"CO-OPS__1__xx.csv"}, "", ".", false)
		require.Error(t, err)
	})

	t.Run("lenient falls back to visibility", func(t *testing.T) {
		srcs, err := ResolveSources([]string{"CO-OPS__1__xx.csv"}, "", ".", true)
		require.NoError(t, err)
		assert.Equal(t, domain.KindVisibility, srcs[0].Kind)
	})

	t.Run("manifest", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "m.yaml", "sources:\n  - path: CO-OPS__CFR1624__cu.csv\n    kind: cu\n")
		srcs, err := ResolveSources(nil, path, "ignored", false)
		require.NoError(t, err)
		require.Len(t, srcs, 1)
		assert.Equal(t, filepath.Join(dir, "CO-OPS__CFR1624__cu.csv"), srcs[0].Path)
	})
}

func TestResolveEach_ReportsUnclassifiablePerSource(t *testing.T) {
	paths := []string{"data/CO-OPS__CFR1624__cu.csv", "data/station_notes.csv", "data/CO-OPS__8724580__ws.csv"}

	res, err := ResolveEach(paths, "", ".", false)
	require.NoError(t, err)
	require.Len(t, res, 3)

	assert.NoError(t, res[0].Err)
	assert.Equal(t, domain.KindCurrent, res[0].Source.Kind)

	var schemaErr *domain.SchemaError
	require.ErrorAs(t, res[1].Err, &schemaErr)
	assert.Equal(t, "station_notes.csv", res[1].Source.ID)
	assert.Equal(t, "data/station_notes.csv", res[1].Source.Path)

	assert.NoError(t, res[2].Err)
	assert.Equal(t, domain.KindWind, res[2].Source.Kind)

	_, err = ResolveSources(paths, "", ".", false)
	require.ErrorAs(t, err, &schemaErr)
}

func TestResolveEach_ManifestEntries(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "m.yaml", `
sources:
  - path: CO-OPS__CFR1624__cu.csv
    kind: cu
  - path: currents.csv
    kind: current
`)

	res, err := ResolveEach(nil, path, "ignored", false)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.NoError(t, res[0].Err)
	assert.Error(t, res[1].Err, "no station in name or manifest")
	assert.Equal(t, filepath.Join(dir, "currents.csv"), res[1].Source.Path)

	_, err = ResolveEach(nil, filepath.Join(dir, "missing.yaml"), "", false)
	require.Error(t, err)
}
