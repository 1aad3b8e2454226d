package classifier

import (
	"context"
	"fmt"
	"strings"

	"adscope/internal/lookup"
	"adscope/internal/models"
)

// DefaultDenylist lists domains that never identify a storefront: the ad
// network's own properties and the link shorteners its redirects ride
// through. Matching is by substring, so l.facebook.com is covered by
// facebook.com but kept explicit for readability.
var DefaultDenylist = []string{
	"facebook.com",
	"instagram.com",
	"fb.com",
	"fb.me",
	"bit.ly",
	"tinyurl.com",
	"l.facebook.com",
	"l.instagram.com",
}

// Classifier decides HOME / COMPETITOR / UNKNOWN for single ads. It owns
// no state of its own; all caching lives behind the identifier.
type Classifier struct {
	identifier *lookup.Identifier
	denylist   []string
}

func New(identifier *lookup.Identifier, denylist []string) *Classifier {
	if denylist == nil {
		denylist = DefaultDenylist
	}
	return &Classifier{identifier: identifier, denylist: denylist}
}

// ClassifyAd walks the ad's extracted URLs in discovery order and stops
// at the first one that maps to a non-denylisted domain. Ads typically
// carry one true destination link plus decorative and tracking links;
// settling on the first commercial domain keeps an ad out of two
// competitor buckets at once.
//
// Per candidate URL:
//
//	unparseable or denylisted domain  -> skip, try the next URL
//	DNS says home                     -> HOME (identifier's confidence)
//	DNS names a competitor platform   -> COMPETITOR (identifier's confidence)
//	URL contains the home domain      -> HOME, medium (DNS was inconclusive
//	                                     but the URL names the storefront)
//	anything else                     -> COMPETITOR, low, platform "unknown"
//
// Data-quality problems never surface as errors: every "don't know"
// terminates in an UNKNOWN verdict.
func (c *Classifier) ClassifyAd(ctx context.Context, ad models.AdRecord, homeDomain string) models.AdClassification {
	urls := ExtractURLs(ad)
	if len(urls) == 0 {
		return models.AdClassification{
			Classification: models.ClassUnknown,
			Confidence:     models.ConfidenceLow,
			Reason:         "no URL found in ad",
		}
	}

	homeLower := strings.ToLower(homeDomain)

	for _, u := range urls {
		domain := ExtractDomain(u)
		if domain == "" || c.isDenylisted(domain) {
			continue
		}

		res := c.identifier.Identify(ctx, domain)

		if res.IsHome {
			reason := "home platform confirmed by DNS"
			switch res.Signal {
			case string(lookup.SignalIP):
				reason = fmt.Sprintf("home platform confirmed by DNS - IP: %s", res.ResolvedIP)
			case string(lookup.SignalCNAME):
				reason = fmt.Sprintf("home platform confirmed by DNS - CNAME: %s", res.CNAMETarget)
			}
			return models.AdClassification{
				Classification: models.ClassHome,
				Confidence:     res.Confidence,
				Reason:         reason,
				DestinationURL: u,
			}
		}

		if res.Platform != models.PlatformUnknown {
			return models.AdClassification{
				Classification:     models.ClassCompetitor,
				Confidence:         res.Confidence,
				Reason:             fmt.Sprintf("competitor detected: %s (platform: %s)", domain, res.Platform),
				DestinationURL:     u,
				CompetitorDomain:   domain,
				CompetitorPlatform: res.Platform,
			}
		}

		if homeLower != "" && strings.Contains(strings.ToLower(u), homeLower) {
			return models.AdClassification{
				Classification: models.ClassHome,
				Confidence:     models.ConfidenceMedium,
				Reason:         fmt.Sprintf("URL contains the storefront domain: %s", homeDomain),
				DestinationURL: u,
			}
		}

		// First non-denylisted, non-home, unrecognized domain ends the
		// scan; later URLs in the ad are never examined.
		return models.AdClassification{
			Classification:     models.ClassCompetitor,
			Confidence:         models.ConfidenceLow,
			Reason:             fmt.Sprintf("unidentified external domain: %s", domain),
			DestinationURL:     u,
			CompetitorDomain:   domain,
			CompetitorPlatform: models.PlatformUnknown,
		}
	}

	// Every URL was denylisted or unparseable. Keep the first raw URL
	// for diagnostics.
	return models.AdClassification{
		Classification: models.ClassUnknown,
		Confidence:     models.ConfidenceLow,
		Reason:         "no commercial URL identified",
		DestinationURL: urls[0],
	}
}

func (c *Classifier) isDenylisted(domain string) bool {
	lower := strings.ToLower(domain)
	for _, blocked := range c.denylist {
		if strings.Contains(lower, blocked) {
			return true
		}
	}
	return false
}
