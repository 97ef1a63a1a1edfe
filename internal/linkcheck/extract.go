package linkcheck

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractLinks extracts all same-host anchor links from HTML content.
// Links are resolved against baseURL, stripped of fragments and de-duplicated
// in document order.
func ExtractLinks(htmlContent string, baseURL string) ([]string, error) {
	return extract(htmlContent, baseURL, "a[href]", "href")
}

// ExtractAssets extracts same-host image, stylesheet and script references
func ExtractAssets(htmlContent string, baseURL string) ([]string, error) {
	imgs, err := extract(htmlContent, baseURL, "img[src]", "src")
	if err != nil {
		return nil, err
	}
	styles, _ := extract(htmlContent, baseURL, `link[rel="stylesheet"][href]`, "href")
	scripts, _ := extract(htmlContent, baseURL, "script[src]", "src")

	seen := make(map[string]bool)
	var out []string
	for _, group := range [][]string{imgs, styles, scripts} {
		for _, u := range group {
			if !seen[u] {
				seen[u] = true
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func extract(htmlContent, baseURL, selector, attr string) ([]string, error) {
	base, err := parseBase(baseURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, &ExtractionError{
			Message: "failed to parse HTML",
			Cause:   err,
		}
	}

	linkSet := make(map[string]bool)
	links := make([]string, 0)

	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		raw, exists := s.Attr(attr)
		if !exists || raw == "" {
			return
		}

		ref, err := url.Parse(raw)
		if err != nil {
			// Skip malformed URLs
			return
		}

		abs := base.ResolveReference(ref)
		if abs.Host != base.Host || (abs.Scheme != "http" && abs.Scheme != "https") {
			return
		}

		link := Normalize(abs)
		if !linkSet[link] {
			linkSet[link] = true
			links = append(links, link)
		}
	})

	return links, nil
}

func parseBase(baseURL string) (*url.URL, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, &ExtractionError{
			Message: "failed to parse base URL",
			Cause:   err,
		}
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, &ExtractionError{
			Message: fmt.Sprintf("invalid base URL: %s (must have scheme and host)", baseURL),
		}
	}
	return base, nil
}

// Normalize drops the fragment and any trailing slash except the root one
func Normalize(u *url.URL) string {
	c := *u
	c.Fragment = ""
	c.RawFragment = ""
	if c.Path == "" {
		c.Path = "/"
	} else if c.Path != "/" {
		c.Path = strings.TrimSuffix(c.Path, "/")
		c.RawPath = ""
	}
	return c.String()
}
