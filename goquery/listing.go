// Package goquery parses directory listings served by static file servers.
package goquery

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/schemadex"
)

// ParseListing returns the names of the .json files linked from a directory
// listing page, relative to baseURL and in document order. Links to other
// hosts, to parent or nested directories, and duplicates are skipped.
func ParseListing(html string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, schemadex.Errorf(schemadex.EINVALID, "invalid base URL: %v", err)
	}
	base = dirURL(base)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, schemadex.Errorf(schemadex.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	names := make([]string, 0)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}
		name, ok := relativeName(base, href)
		if !ok || seen[name] || !strings.EqualFold(path.Ext(name), ".json") {
			return
		}
		seen[name] = true
		names = append(names, name)
	})

	return names, nil
}

// dirURL returns u with a trailing slash so relative links resolve inside it.
func dirURL(u *url.URL) *url.URL {
	d := *u
	d.RawQuery = ""
	d.Fragment = ""
	if !strings.HasSuffix(d.Path, "/") {
		d.Path += "/"
		d.RawPath = ""
	}
	return &d
}

// relativeName resolves href against base and returns the file name if it
// points directly inside base on the same host.
func relativeName(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(ref)
	if resolved.Host != base.Host {
		return "", false
	}
	name, ok := strings.CutPrefix(resolved.Path, base.Path)
	if !ok || name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
