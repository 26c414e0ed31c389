package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/kintree/kintree/pkg/layout"
)

// Config is the TOML configuration file format.
//
//	[geometry]
//	node_width = 170
//	rank_sep = 90
//
//	[cache]
//	backend = "file"       # file (default), redis, none
//	redis_url = "redis://localhost:6379/0"
//
//	[store]
//	backend = "mongo"      # memory, mongo; unset disables tree storage
//	mongo_uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
type Config struct {
	Geometry GeometryConfig `toml:"geometry"`
	Cache    CacheConfig    `toml:"cache"`
	Store    StoreConfig    `toml:"store"`
	Server   ServerConfig   `toml:"server"`
}

// GeometryConfig overrides layout geometry. Zero values keep the defaults.
type GeometryConfig struct {
	NodeWidth        float64 `toml:"node_width"`
	NodeHeight       float64 `toml:"node_height"`
	NodeMargin       float64 `toml:"node_margin"`
	RankSep          float64 `toml:"rank_sep"`
	RankGapTolerance float64 `toml:"rank_gap_tolerance"`
	FriendOffset     float64 `toml:"friend_offset"`
	FriendGap        float64 `toml:"friend_gap"`
	SpreadSpacing    float64 `toml:"spread_spacing"`
	AxisBiasRatio    float64 `toml:"axis_bias_ratio"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
}

// StoreConfig selects the tree store backend.
type StoreConfig struct {
	Backend         string `toml:"backend"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// DefaultServerAddr is used when the config sets no listen address.
const DefaultServerAddr = ":8080"

// LoadConfig reads a TOML config file. An empty path falls back to the
// default location; a missing file at the default location is not an error.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}

	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// defaultConfigPath returns ~/.config/kintree/config.toml, honoring
// XDG_CONFIG_HOME.
func defaultConfigPath() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// apply merges the overrides onto the default geometry.
func (g GeometryConfig) apply() layout.Geometry {
	geo := layout.DefaultGeometry()
	if g.NodeWidth > 0 {
		geo.NodeWidth = g.NodeWidth
	}
	if g.NodeHeight > 0 {
		geo.NodeHeight = g.NodeHeight
	}
	if g.NodeMargin > 0 {
		geo.NodeMargin = g.NodeMargin
	}
	if g.RankSep > 0 {
		geo.RankSep = g.RankSep
	}
	if g.RankGapTolerance > 0 {
		geo.RankGapTolerance = g.RankGapTolerance
	}
	if g.FriendOffset > 0 {
		geo.FriendOffset = g.FriendOffset
	}
	if g.FriendGap > 0 {
		geo.FriendGap = g.FriendGap
	}
	if g.SpreadSpacing > 0 {
		geo.SpreadSpacing = g.SpreadSpacing
	}
	if g.AxisBiasRatio > 0 {
		geo.AxisBiasRatio = g.AxisBiasRatio
	}
	return geo
}

// addr returns the configured listen address or the default.
func (s ServerConfig) addr() string {
	if s.Addr != "" {
		return s.Addr
	}
	return DefaultServerAddr
}
