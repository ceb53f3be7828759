// Package sitemap builds sitemap.xml and robots.txt documents.
package sitemap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

const namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq hints how often a page changes
type ChangeFreq string

const (
	Daily   ChangeFreq = "daily"
	Weekly  ChangeFreq = "weekly"
	Monthly ChangeFreq = "monthly"
)

// Entry is one page in the sitemap. Loc is a path relative to the site root.
type Entry struct {
	Loc        string
	LastMod    time.Time
	ChangeFreq ChangeFreq
	Priority   float64
}

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []url    `xml:"url"`
}

type url struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Build renders entries as a sitemap. Duplicate locations keep the first entry.
func Build(siteURL string, entries []Entry) ([]byte, error) {
	base := strings.TrimRight(siteURL, "/")
	set := urlset{Xmlns: namespace, URLs: make([]url, 0, len(entries))}
	seen := make(map[string]struct{}, len(entries))

	for _, e := range entries {
		loc := base + "/" + strings.TrimLeft(e.Loc, "/")
		if e.Loc == "" || e.Loc == "/" {
			loc = base + "/"
		}
		if _, dup := seen[loc]; dup {
			continue
		}
		seen[loc] = struct{}{}

		u := url{Loc: loc, ChangeFreq: string(e.ChangeFreq)}
		if !e.LastMod.IsZero() {
			u.LastMod = e.LastMod.UTC().Format("2006-01-02")
		}
		if e.Priority > 0 {
			u.Priority = fmt.Sprintf("%.1f", e.Priority)
		}
		set.URLs = append(set.URLs, u)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, fmt.Errorf("failed to encode sitemap: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Robots renders robots.txt allowing everything except the given path prefixes
func Robots(siteURL string, disallow []string) string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	for _, p := range disallow {
		fmt.Fprintf(&b, "Disallow: %s\n", p)
	}
	fmt.Fprintf(&b, "\nSitemap: %s/sitemap.xml\n", strings.TrimRight(siteURL, "/"))
	return b.String()
}
