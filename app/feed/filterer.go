package feed

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run marks every item that is not about the tracked subject. Items are
// never dropped here; callers skip the ones with IsFiltered set.
func (f *Filterer) Run(items []Item, config *Config) []Item {
	if !config.Relevance.IsEnabled() {
		return items
	}

	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		isFiltered, filterReason := f.applyFilters(item, config)
		item.IsFiltered = isFiltered
		item.FilterReason = filterReason
		filtered = append(filtered, item)
	}

	return filtered
}

func (f *Filterer) applyFilters(item Item, config *Config) (bool, string) {
	subjects := config.Relevance.Subjects

	// A direct title match outranks the aggregate-list rejection.
	if f.containsAny(item.Title, subjects) {
		return false, ""
	}

	for _, phrase := range config.Relevance.AggregatePhrases {
		if f.matchesFilter(item.Title, phrase) {
			return true, fmt.Sprintf("Excluded by title filter: aggregate list '%s'", phrase)
		}
	}

	if item.AppID == config.Source.AppID && !item.IsExternalURL {
		return false, ""
	}

	if f.containsAny(item.FeedLabel, subjects) {
		return false, ""
	}

	return true, fmt.Sprintf("Excluded by relevance filter: does not mention any of %v", subjects)
}

func (f *Filterer) containsAny(value string, patterns []string) bool {
	for _, pattern := range patterns {
		if f.matchesFilter(value, pattern) {
			return true
		}
	}
	return false
}

func (f *Filterer) matchesFilter(value, pattern string) bool {
	if pattern == "" {
		return false
	}
	caser := cases.Fold()
	return strings.Contains(caser.String(value), caser.String(pattern))
}
