package feed

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

var ErrProfileNotFound = errors.New("profile not found")

const (
	DefaultEndpoint     = "https://api.steampowered.com/ISteamNews/GetNewsForApp/v2/"
	DefaultStoreURL     = "https://store.steampowered.com"
	DefaultIDPrefix     = "steam-"
	DefaultSourceLabel  = "Steam News"
	DefaultCount        = 25
	DefaultMaxLength    = 1000
	DefaultSlugLimit    = 50
	DefaultTeaserLimit  = 150
	DefaultSummaryLimit = 600
	DefaultTimeout      = 30
)

var (
	DefaultHowItWorks = []string{
		"Details sourced from official Steam news feed",
		"Check the source link for full information",
	}
	DefaultRewards      = []string{"See official announcement for details"}
	DefaultRaiderImpact = []string{
		"Solo: Check source for gameplay impact",
		"Duo: Check source for gameplay impact",
		"Trio: Check source for gameplay impact",
	}
)

type ConfigCache struct {
	profilesDir string
	cache       map[string]*Config
	mu          sync.RWMutex
}

func NewConfigCache(profilesDir string) *ConfigCache {
	return &ConfigCache{
		profilesDir: profilesDir,
		cache:       make(map[string]*Config),
	}
}

func (cc *ConfigCache) Run() error {
	if _, err := os.Stat(cc.profilesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(cc.profilesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		profileName := strings.TrimSuffix(filepath.Base(file), ".yml")

		config, err := cc.LoadConfig(profileName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Profile loaded", "profile", profileName, "source", config.Source.Type, "app_id", config.Source.AppID, "relevance", config.Relevance.IsEnabled())
	}

	return nil
}

func (cc *ConfigCache) LoadConfig(profileName string) (*Config, error) {
	configFile := cc.getConfigFilePath(profileName)
	config, err := cc.parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	config.Name = profileName

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", configFile, err)
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache[config.Name] = config

	return config, nil
}

func (cc *ConfigCache) GetConfig(profileName string) (*Config, error) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	config, ok := cc.cache[profileName]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrProfileNotFound, profileName)
	}
	return config, nil
}

func (cc *ConfigCache) GetConfigCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}

func (cc *ConfigCache) parseConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	SetDefaults(&config)

	return &config, nil
}

func (cc *ConfigCache) getConfigFilePath(profileName string) string {
	return filepath.Join(cc.profilesDir, profileName+".yml")
}

// SetDefaults fills every omitted setting with the values of the current
// (filtered, 600-char summary) behaviour.
func SetDefaults(config *Config) {
	src := &config.Source
	if src.Type == "" {
		src.Type = SourceTypeSteamAPI
	}
	if src.StoreURL == "" {
		src.StoreURL = DefaultStoreURL
	}
	if src.Endpoint == "" {
		switch src.Type {
		case SourceTypeSteamAPI:
			src.Endpoint = DefaultEndpoint
		case SourceTypeRSS:
			src.Endpoint = fmt.Sprintf("%s/feeds/news/app/%d/", strings.TrimSuffix(src.StoreURL, "/"), src.AppID)
		}
	}
	if src.Count == 0 {
		src.Count = DefaultCount
	}
	if src.MaxLength == 0 {
		src.MaxLength = DefaultMaxLength
	}

	s := &config.Settings
	if s.IDPrefix == "" {
		s.IDPrefix = DefaultIDPrefix
	}
	if s.SlugLimit == 0 {
		s.SlugLimit = DefaultSlugLimit
	}
	if s.TeaserLimit == 0 {
		s.TeaserLimit = DefaultTeaserLimit
	}
	if s.SummaryLimit == 0 {
		s.SummaryLimit = DefaultSummaryLimit
	}
	if s.Timeout == 0 {
		s.Timeout = DefaultTimeout
	}

	if config.Attribution.Label == "" {
		config.Attribution.Label = DefaultSourceLabel
	}

	t := &config.Templates
	if t.HowItWorks == nil {
		t.HowItWorks = DefaultHowItWorks
	}
	if t.Rewards == nil {
		t.Rewards = DefaultRewards
	}
	if t.RaiderImpact == nil {
		t.RaiderImpact = DefaultRaiderImpact
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required),
	); err != nil {
		return err
	}
	if err := c.Source.Validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if err := c.Settings.Validate(); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	if err := c.Relevance.Validate(); err != nil {
		return fmt.Errorf("relevance: %w", err)
	}
	return nil
}

func (s *ConfigSource) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Type, validation.Required, validation.In(SourceTypeSteamAPI, SourceTypeRSS)),
		validation.Field(&s.AppID, validation.Required, validation.Min(1)),
		validation.Field(&s.Endpoint, validation.Required),
		validation.Field(&s.StoreURL, validation.Required),
		validation.Field(&s.Count, validation.Min(1)),
		validation.Field(&s.MaxLength, validation.Min(1)),
	)
}

// Truncated text keeps limit-3 characters plus "...", so limits below 4
// cannot hold any text.
func (s *ConfigSettings) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.IDPrefix, validation.Required),
		validation.Field(&s.SlugLimit, validation.Min(1)),
		validation.Field(&s.TeaserLimit, validation.Min(4)),
		validation.Field(&s.SummaryLimit, validation.Min(4)),
		validation.Field(&s.Timeout, validation.Min(1)),
	)
}

func (r *ConfigRelevance) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Subjects, validation.When(r.IsEnabled(), validation.Required)),
	)
}
