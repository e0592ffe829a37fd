package feed

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const ellipsis = "..."

var (
	lineBreakRe   = regexp.MustCompile(`(?i)<br\s*/?>`)
	tagRe         = regexp.MustCompile(`<[^>]+>`)
	clanImageRe   = regexp.MustCompile(`\{STEAM_CLAN_IMAGE\}\S*`)
	bbcodeRe      = regexp.MustCompile(`\[/?[^\]]*\]`)
	whitespaceRe  = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)
	nonSlugCharRe = regexp.MustCompile(`[^a-z0-9]+`)
)

// Decoded in order, so "&amp;lt;" ends up as "<".
var entities = [][2]string{
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&quot;", `"`},
	{"&#039;", "'"},
}

// StripMarkup reduces a Steam news body (HTML mixed with BBCode) to plain
// single-spaced text.
func StripMarkup(s string) string {
	s = lineBreakRe.ReplaceAllString(s, " ")
	s = tagRe.ReplaceAllString(s, "")
	s = clanImageRe.ReplaceAllString(s, "")
	s = bbcodeRe.ReplaceAllString(s, "")
	for _, e := range entities {
		s = strings.ReplaceAll(s, e[0], e[1])
	}
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Slug lower-cases title, joins alphanumeric runs with single hyphens and
// cuts the result at limit bytes. A hyphen exposed by the cut is kept.
func Slug(title string, limit int) string {
	s := cases.Lower(language.Und).String(title)
	s = nonSlugCharRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return cut(s, limit)
}

// Truncate shortens s to limit characters, ending in an ellipsis, when s is
// longer than limit.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	keep := max(limit-len(ellipsis), 0)
	return string(runes[:keep]) + ellipsis
}

// FormatDate renders a Unix timestamp (seconds) as a UTC calendar date.
func FormatDate(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(time.DateOnly)
}

func cut(s string, limit int) string {
	if limit >= 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
