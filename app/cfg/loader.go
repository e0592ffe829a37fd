package cfg

import (
	"cmp"
	"fmt"
	"log/slog"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Sync configuration
	DataFile    string `long:"data-file" env:"DATA_FILE" default:"intel-data.json" description:"JSON file holding the intel records (read and rewritten on every sync)"`
	ProfilesDir string `long:"profiles-dir" env:"PROFILES_DIR" default:"./profiles" description:"Directory containing feed profile files"`
	Profile     string `long:"profile" env:"PROFILE" default:"arc-raiders" description:"Name of the feed profile to sync (file name without .yml)"`
	HistoryDB   string `long:"history-db" env:"HISTORY_DB" description:"SQLite file recording sync runs (optional)"`

	// Serve mode
	Serve        bool   `long:"serve" env:"SERVE" description:"Serve the intel file over HTTP instead of running a single sync"`
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key guarding the sync trigger (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Intel Sync/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	return parse(nil)
}

func parse(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DataFile:     raw.DataFile,
		ProfilesDir:  raw.ProfilesDir,
		Profile:      raw.Profile,
		HistoryDB:    raw.HistoryDB,
		Serve:        raw.Serve,
		Port:         raw.Port,
		APIAccessKey: raw.APIAccessKey,
		UserAgent:    raw.UserAgent,
		Debug:        raw.Debug,
		Version:      GetVersion(),
	}

	return cfg, nil
}

func (c *Cfg) LogLevel() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
