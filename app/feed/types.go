package feed

import (
	"fmt"
	"strings"
)

// Feed processing types

type Item struct {
	GID           string
	Title         string
	Contents      string
	Date          int64 // Unix seconds
	URL           string
	FeedLabel     string
	FeedName      string
	AppID         int
	IsExternalURL bool

	IsFiltered   bool
	FilterReason string
}

// Source types

const (
	SourceTypeSteamAPI = "steam_api"
	SourceTypeRSS      = "rss"
)

// Configuration types

type Config struct {
	Name        string            // Derived from filename (without .yml extension)
	Source      ConfigSource      `yaml:"source"`
	Settings    ConfigSettings    `yaml:"settings"`
	Relevance   ConfigRelevance   `yaml:"relevance"`
	Attribution ConfigAttribution `yaml:"attribution"`
	Templates   ConfigTemplates   `yaml:"templates"`
}

type ConfigSource struct {
	Type      string `yaml:"type"` // steam_api or rss
	AppID     int    `yaml:"app_id"`
	Endpoint  string `yaml:"endpoint"`
	StoreURL  string `yaml:"store_url"`
	Count     int    `yaml:"count"`
	MaxLength int    `yaml:"max_length"`
}

type ConfigSettings struct {
	IDPrefix          string `yaml:"id_prefix"`
	PrefixInSlugLimit bool   `yaml:"prefix_in_slug_limit"`
	SlugLimit         int    `yaml:"slug_limit"`
	TeaserLimit       int    `yaml:"teaser_limit"`
	SummaryLimit      int    `yaml:"summary_limit"`
	Timeout           int    `yaml:"timeout"` // seconds
}

type ConfigRelevance struct {
	Enabled          *bool    `yaml:"enabled"` // nil means enabled
	Subjects         []string `yaml:"subjects"`
	AggregatePhrases []string `yaml:"aggregate_phrases"`
}

type ConfigAttribution struct {
	Label        string `yaml:"label"`
	UseFeedLabel bool   `yaml:"use_feed_label"`
}

// Template strings may contain {source}, replaced by the attribution label.
type ConfigTemplates struct {
	HowItWorks   []string `yaml:"how_it_works"`
	Rewards      []string `yaml:"rewards"`
	RaiderImpact []string `yaml:"raider_impact"`
}

// NewsURL is the store's news page for the tracked app.
func (s ConfigSource) NewsURL() string {
	return fmt.Sprintf("%s/news/app/%d", strings.TrimSuffix(s.StoreURL, "/"), s.AppID)
}

func (r ConfigRelevance) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}
