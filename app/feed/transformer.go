package feed

import (
	"cmp"
	"strings"

	"github.com/lysyi3m/intel-sync/app/intel"
)

type Transformer struct{}

func NewTransformer() *Transformer {
	return &Transformer{}
}

func (t *Transformer) Run(items []Item, config *Config) []intel.Record {
	records := make([]intel.Record, 0, len(items))
	for _, item := range items {
		if item.IsFiltered {
			continue
		}
		records = append(records, t.transform(item, config))
	}
	return records
}

func (t *Transformer) transform(item Item, config *Config) intel.Record {
	clean := StripMarkup(item.Contents)
	date := FormatDate(item.Date)
	label := t.sourceLabel(item, config)

	return intel.Record{
		ID:           t.recordID(item.Title, config.Settings),
		Title:        item.Title,
		Status:       intel.StatusConfirmed,
		StartDate:    &date,
		EndDate:      nil,
		Teaser:       Truncate(clean, config.Settings.TeaserLimit),
		Summary:      Truncate(clean, config.Settings.SummaryLimit),
		HowItWorks:   t.expand(config.Templates.HowItWorks, label),
		Rewards:      t.expand(config.Templates.Rewards, label),
		RaiderImpact: t.expand(config.Templates.RaiderImpact, label),
		Sources: []intel.Source{{
			Label: label,
			URL:   cmp.Or(item.URL, config.Source.NewsURL()),
		}},
		LastUpdated: date,
	}
}

func (t *Transformer) recordID(title string, settings ConfigSettings) string {
	if settings.PrefixInSlugLimit {
		return cut(settings.IDPrefix+Slug(title, -1), settings.SlugLimit)
	}
	return settings.IDPrefix + Slug(title, settings.SlugLimit)
}

func (t *Transformer) sourceLabel(item Item, config *Config) string {
	if config.Attribution.UseFeedLabel && item.FeedLabel != "" {
		return item.FeedLabel
	}
	return config.Attribution.Label
}

func (t *Transformer) expand(templates []string, label string) []string {
	out := make([]string, len(templates))
	for i, tmpl := range templates {
		out[i] = strings.ReplaceAll(tmpl, "{source}", label)
	}
	return out
}
