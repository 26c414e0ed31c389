package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[geometry]
node_width = 200
rank_sep = 120

[cache]
backend = "redis"
redis_url = "redis://localhost:6379/0"

[store]
backend = "mongo"
mongo_uri = "mongodb://localhost:27017"

[server]
addr = ":9090"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 200.0, cfg.Geometry.NodeWidth)
	assert.Equal(t, 120.0, cfg.Geometry.RankSep)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "mongo", cfg.Store.Backend)
	assert.Equal(t, ":9090", cfg.Server.addr())
}

func TestLoadConfigMissingExplicitPath(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := writeConfig(t, "[geometry\nnode_width = ")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestGeometryConfigApply(t *testing.T) {
	g := GeometryConfig{NodeWidth: 300, AxisBiasRatio: 0.5}
	geo := g.apply()
	assert.Equal(t, 300.0, geo.NodeWidth)
	assert.Equal(t, 0.5, geo.AxisBiasRatio)
	// Unset fields keep the defaults.
	assert.Equal(t, 70.0, geo.NodeHeight)
	assert.Equal(t, 90.0, geo.RankSep)
}

func TestServerConfigAddrDefault(t *testing.T) {
	assert.Equal(t, DefaultServerAddr, ServerConfig{}.addr())
	assert.Equal(t, ":7000", ServerConfig{Addr: ":7000"}.addr())
}
