package feed

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"

	"github.com/mmcdole/gofeed"
)

// steamNewsResponse mirrors the ISteamNews/GetNewsForApp/v2 payload. Only
// the fields the pipeline reads are declared.
type steamNewsResponse struct {
	AppNews *struct {
		AppID     int             `json:"appid"`
		NewsItems []steamNewsItem `json:"newsitems"`
	} `json:"appnews"`
}

type steamNewsItem struct {
	GID           string `json:"gid"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	IsExternalURL bool   `json:"is_external_url"`
	Contents      string `json:"contents"`
	FeedLabel     string `json:"feedlabel"`
	Date          int64  `json:"date"`
	FeedName      string `json:"feedname"`
	AppID         int    `json:"appid"`
}

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *Parser) Run(data []byte, source ConfigSource) ([]Item, error) {
	switch source.Type {
	case SourceTypeRSS:
		return p.parseRSS(data, source)
	case SourceTypeSteamAPI, "":
		return p.parseSteamNews(data)
	default:
		return nil, fmt.Errorf("unsupported source type: %s", source.Type)
	}
}

func (p *Parser) parseSteamNews(data []byte) ([]Item, error) {
	var resp steamNewsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse news response: %w", err)
	}

	if resp.AppNews == nil || len(resp.AppNews.NewsItems) == 0 {
		return nil, nil
	}

	items := make([]Item, 0, len(resp.AppNews.NewsItems))
	for _, n := range resp.AppNews.NewsItems {
		items = append(items, Item{
			GID:           n.GID,
			Title:         n.Title,
			Contents:      n.Contents,
			Date:          n.Date,
			URL:           n.URL,
			FeedLabel:     n.FeedLabel,
			FeedName:      n.FeedName,
			AppID:         n.AppID,
			IsExternalURL: n.IsExternalURL,
		})
	}

	return items, nil
}

func (p *Parser) parseRSS(data []byte, source ConfigSource) ([]Item, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, item := range feed.Items {
		// The store feed carries no per-item app id, so every entry is
		// attributed to the tracked app.
		normalized := Item{
			GID:       cmp.Or(item.GUID, item.Link),
			Title:     item.Title,
			Contents:  cmp.Or(item.Content, item.Description),
			URL:       item.Link,
			FeedLabel: feed.Title,
			AppID:     source.AppID,
		}

		if item.PublishedParsed != nil {
			normalized.Date = item.PublishedParsed.Unix()
		} else if item.UpdatedParsed != nil {
			normalized.Date = item.UpdatedParsed.Unix()
		}

		items = append(items, normalized)
	}

	return items, nil
}
