// Package analyzer folds per-ad classification verdicts into page- and
// client-level summaries: counts, ratio percentages and ranked
// competitor lists.
package analyzer

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"adscope/internal/classifier"
	"adscope/internal/models"
)

// TopCompetitorsPersisted caps the competitor list stored in a report.
const TopCompetitorsPersisted = 20

// ErrMissingHomeDomain is the one hard error in the classification pass:
// a payload without a home domain is a violated precondition of the
// whole batch, not a per-ad data-quality issue.
var ErrMissingHomeDomain = errors.New("home domain is required")

// competitorTally tracks one competitor domain while merging; order is
// the first-seen position and breaks ties when counts are equal.
type competitorTally struct {
	domain   string
	count    int
	platform string
	order    int
}

// Aggregator runs the classifier over every ad of a client and builds
// the report. Ads are classified strictly sequentially: DNS lookups
// inside the identifier may block, and the cache dampens repeats.
type Aggregator struct {
	classifier *classifier.Classifier

	now func() time.Time // swapped in tests
}

func New(c *classifier.Classifier) *Aggregator {
	return &Aggregator{classifier: c, now: time.Now}
}

// Summarize classifies every ad on every page and folds the verdicts
// into a ClientReport. A storefront that cannot be classified
// confidently still gets a report with the UNKNOWN bucket populated;
// only a missing home domain is an error.
func (a *Aggregator) Summarize(ctx context.Context, clientID, homeDomain string, pages []models.PageAds) (models.ClientReport, error) {
	if strings.TrimSpace(homeDomain) == "" {
		return models.ClientReport{}, ErrMissingHomeDomain
	}

	report := models.ClientReport{
		ClientID:      clientID,
		AnalyzedAt:    a.now().UTC().Format(time.RFC3339),
		PagesAnalyzed: len(pages),
	}

	global := make(map[string]*competitorTally)
	globalOrder := 0

	for _, page := range pages {
		summary := a.summarizePage(ctx, page, homeDomain)
		report.PageDetails = append(report.PageDetails, summary)

		report.GlobalStats.TotalAds += summary.TotalAds
		report.GlobalStats.HomeAds += summary.HomeAds
		report.GlobalStats.CompetitorAds += summary.CompetitorAds
		report.GlobalStats.UnknownAds += summary.UnknownAds

		for _, comp := range summary.Competitors {
			tally, seen := global[comp.Domain]
			if !seen {
				tally = &competitorTally{domain: comp.Domain, order: globalOrder}
				globalOrder++
				global[comp.Domain] = tally
			}
			tally.count += comp.AdsCount
			// The first non-empty platform label wins; a later page's
			// label for the same domain never overwrites it.
			if tally.platform == "" && comp.Platform != "" {
				tally.platform = comp.Platform
			}
		}
	}

	report.GlobalStats.HomeRatio = ratio(report.GlobalStats.HomeAds, report.GlobalStats.TotalAds)
	report.GlobalStats.CompetitorRatio = ratio(report.GlobalStats.CompetitorAds, report.GlobalStats.TotalAds)

	for _, tally := range sortTallies(global) {
		report.TopCompetitors = append(report.TopCompetitors, models.Competitor{
			Domain:   tally.domain,
			TotalAds: tally.count,
			Platform: tally.platform,
		})
	}
	if len(report.TopCompetitors) > TopCompetitorsPersisted {
		report.TopCompetitors = report.TopCompetitors[:TopCompetitorsPersisted]
	}

	return report, nil
}

// summarizePage classifies every ad belonging to one Facebook page.
func (a *Aggregator) summarizePage(ctx context.Context, page models.PageAds, homeDomain string) models.PageSummary {
	summary := models.PageSummary{
		PageID:     page.PageID,
		PageName:   page.PageName,
		HomeDomain: homeDomain,
		TotalAds:   len(page.Ads),
	}

	competitors := make(map[string]*competitorTally)
	order := 0

	for _, ad := range page.Ads {
		verdict := a.classifier.ClassifyAd(ctx, ad, homeDomain)

		summary.ClassifiedAds = append(summary.ClassifiedAds, models.ClassifiedAd{
			AdID:                ad.AdArchiveID,
			AdClassification:    verdict,
			AdCreationTime:      ad.AdCreationTime,
			AdDeliveryStartTime: ad.AdDeliveryStartTime,
		})

		switch verdict.Classification {
		case models.ClassHome:
			summary.HomeAds++
		case models.ClassCompetitor:
			summary.CompetitorAds++
			if verdict.CompetitorDomain != "" {
				tally, seen := competitors[verdict.CompetitorDomain]
				if !seen {
					tally = &competitorTally{
						domain:   verdict.CompetitorDomain,
						platform: verdict.CompetitorPlatform,
						order:    order,
					}
					order++
					competitors[verdict.CompetitorDomain] = tally
				}
				tally.count++
			}
		default:
			summary.UnknownAds++
		}
	}

	summary.HomeRatio = ratio(summary.HomeAds, summary.TotalAds)
	summary.CompetitorRatio = ratio(summary.CompetitorAds, summary.TotalAds)

	for _, tally := range sortTallies(competitors) {
		summary.Competitors = append(summary.Competitors, models.PageCompetitor{
			Domain:   tally.domain,
			AdsCount: tally.count,
			Platform: tally.platform,
		})
	}

	return summary
}

// ratio is a percentage rounded to two decimals; 0 when total is 0 —
// never a division by zero.
func ratio(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*100*100) / 100
}

// sortTallies ranks descending by count; equal counts keep first-seen
// order.
func sortTallies(m map[string]*competitorTally) []*competitorTally {
	tallies := make([]*competitorTally, 0, len(m))
	for _, t := range m {
		tallies = append(tallies, t)
	}
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].count != tallies[j].count {
			return tallies[i].count > tallies[j].count
		}
		return tallies[i].order < tallies[j].order
	})
	return tallies
}
