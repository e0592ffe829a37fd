package intel

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"time"
)

// Channel describes the RSS channel wrapped around the records.
type Channel struct {
	Title       string
	Link        string
	Description string
	SelfLink    string
	Generator   string
}

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Run renders records as an RSS 2.0 document, in the order given.
func (g *Generator) Run(channel Channel, records []Record) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", channel.Title, 4)
	g.writeElement(&buf, "link", channel.Link, 4)
	g.writeElement(&buf, "description", cmp.Or(channel.Description, channel.Title), 4)

	if channel.SelfLink != "" {
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(channel.SelfLink)))
	}

	lastBuildDate := time.Now().UTC()
	for _, r := range records {
		if t, ok := startTime(r); ok {
			lastBuildDate = t
			break
		}
	}
	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", channel.Generator, 4)

	for _, r := range records {
		g.writeItem(&buf, r)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, r Record) {
	buf.WriteString("    <item>\n")

	if r.ID != "" {
		buf.WriteString("      <guid isPermaLink=\"false\">")
		xml.EscapeText(buf, []byte(r.ID))
		buf.WriteString("</guid>\n")
	}

	g.writeElement(buf, "title", r.Title, 6)

	if len(r.Sources) > 0 {
		g.writeElement(buf, "link", r.Sources[0].URL, 6)
	}

	g.writeElement(buf, "description", cmp.Or(r.Summary, r.Teaser, "No description available"), 6)

	if t, ok := startTime(r); ok {
		g.writeElement(buf, "pubDate", t.Format(time.RFC1123Z), 6)
	}

	g.writeElement(buf, "category", r.Status, 6)

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
