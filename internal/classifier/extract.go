package classifier

import (
	"net/url"
	"regexp"
	"strings"

	"adscope/internal/lookup"
	"adscope/internal/models"
)

// urlPattern recognizes scheme://... runs inside free text. Quotes and
// angle brackets end a match so URLs embedded in markup stay clean.
var urlPattern = regexp.MustCompile(`https?://[^\s<>"]+`)

// trailingPunct is trimmed off every extracted URL; ad copy routinely
// ends a link with "!" or wraps it in parentheses.
const trailingPunct = ".,;:!?)"

// ExtractURLs pulls every candidate destination URL out of one raw ad,
// in discovery order: primary link, carousel cards, caption text, body
// text. Duplicates keep their first position. Absent fields — including
// a wholly missing snapshot — contribute zero URLs; the upstream data is
// third-party and frequently incomplete.
func ExtractURLs(ad models.AdRecord) []string {
	var found []string

	if snap := ad.Snapshot; snap != nil {
		if snap.LinkURL != "" {
			found = append(found, snap.LinkURL)
		}
		for _, card := range snap.Cards {
			if card.LinkURL != "" {
				found = append(found, card.LinkURL)
			}
		}
		if snap.Caption != "" {
			found = append(found, urlPattern.FindAllString(snap.Caption, -1)...)
		}
		if snap.Body.Text != "" {
			found = append(found, urlPattern.FindAllString(snap.Body.Text, -1)...)
		}
	}

	seen := make(map[string]struct{}, len(found))
	var unique []string
	for _, u := range found {
		u = strings.TrimRight(strings.TrimSpace(u), trailingPunct)
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		unique = append(unique, u)
	}
	return unique
}

// ExtractDomain returns the normalized host of a URL, or "" when the URL
// cannot be parsed. A malformed URL is a skip, never an abort.
func ExtractDomain(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "http://" + rawURL
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return lookup.NormalizeDomain(parsed.Host)
}
