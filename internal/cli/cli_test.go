package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormats(t *testing.T) {
	assert.Equal(t, []string{"svg"}, parseFormats(""))
	assert.Equal(t, []string{"svg", "dot"}, parseFormats("svg,dot"))
}

func TestBasePath(t *testing.T) {
	assert.Equal(t, "family", basePath("", "family.json"))
	assert.Equal(t, "out", basePath("out.svg", "family.json"))
	assert.Equal(t, "out/tree", basePath("out/tree", "family.json"))
}

func TestCacheDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir, err := cacheDir()
	require.NoError(t, err)
	assert.Equal(t, appName, filepath.Base(dir))
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)
	logger.Debug("hidden")
	assert.Zero(t, buf.Len())
	logger.Info("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewKeyerScopesRedisBackend(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	c.config = &Config{}

	assert.Nil(t, c.newKeyer(false), "file backend uses the default key scheme")

	c.config.Cache.Backend = "redis"
	k := c.newKeyer(false)
	require.NotNil(t, k)
	assert.Equal(t, "kintree:tree:abc", k.TreeKey("abc"))

	assert.Nil(t, c.newKeyer(true), "disabled cache needs no key scope")
}

func TestSpinnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	spin := newSpinnerWithContext(ctx, "working")
	spin.Start()
	spin.Stop()
	assert.False(t, spin.Cancelled(), "plain Stop is not a cancellation")

	spin = newSpinnerWithContext(ctx, "working")
	spin.Start()
	cancel()
	spin.Stop()
	assert.True(t, spin.Cancelled())
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()

	want := []string{"layout", "render", "trees", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		assert.True(t, found, "missing subcommand %s", name)
	}
}
