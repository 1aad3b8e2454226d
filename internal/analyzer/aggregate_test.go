package analyzer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"adscope/internal/classifier"
	"adscope/internal/dnscache"
	"adscope/internal/lookup"
	"adscope/internal/models"
)

const testHomeIP = "203.0.113.10"

func testAggregator(records map[string]lookup.RawRecords) *Aggregator {
	id := lookup.NewIdentifier(lookup.IdentifierConfig{
		HomeIP: testHomeIP,
		Cache:  dnscache.New(dnscache.DefaultTTL),
		Lookup: func(_ context.Context, domain string) lookup.RawRecords {
			return records[domain]
		},
	})
	return New(classifier.New(id, nil))
}

func adsTo(link string, n int) []models.AdRecord {
	ads := make([]models.AdRecord, n)
	for i := range ads {
		ads[i] = models.AdRecord{
			AdArchiveID: fmt.Sprintf("ad-%s-%d", link, i),
			Snapshot:    &models.Snapshot{LinkURL: link},
		}
	}
	return ads
}

func TestSummarizeRequiresHomeDomain(t *testing.T) {
	a := testAggregator(nil)
	_, err := a.Summarize(context.Background(), "client-1", "  ", nil)
	if !errors.Is(err, ErrMissingHomeDomain) {
		t.Fatalf("expected ErrMissingHomeDomain, got %v", err)
	}
}

func TestSummarizeTwoPages(t *testing.T) {
	// One all-home page (5/5) and one all-competitor page (3/3).
	a := testAggregator(map[string]lookup.RawRecords{
		"shop.example":  {IP: testHomeIP},
		"rival.example": {CNAME: "shops.myshopify.com"},
	})
	pages := []models.PageAds{
		{PageID: "p1", PageName: "Main", Ads: adsTo("https://shop.example/p", 5)},
		{PageID: "p2", PageName: "Side", Ads: adsTo("https://rival.example/x", 3)},
	}

	report, err := a.Summarize(context.Background(), "client-1", "shop.example", pages)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	gs := report.GlobalStats
	if gs.TotalAds != 8 || gs.HomeAds != 5 || gs.CompetitorAds != 3 || gs.UnknownAds != 0 {
		t.Errorf("global counts wrong: %+v", gs)
	}
	if gs.HomeRatio != 62.5 || gs.CompetitorRatio != 37.5 {
		t.Errorf("global ratios wrong: home=%v competitor=%v", gs.HomeRatio, gs.CompetitorRatio)
	}
	if report.PagesAnalyzed != 2 || len(report.PageDetails) != 2 {
		t.Errorf("expected 2 pages, got %d / %d", report.PagesAnalyzed, len(report.PageDetails))
	}
	if len(report.TopCompetitors) != 1 {
		t.Fatalf("expected one competitor, got %v", report.TopCompetitors)
	}
	top := report.TopCompetitors[0]
	if top.Domain != "rival.example" || top.TotalAds != 3 || top.Platform != "shopify" {
		t.Errorf("top competitor wrong: %+v", top)
	}
	if len(report.PageDetails[0].ClassifiedAds) != 5 {
		t.Errorf("audit records missing: %d", len(report.PageDetails[0].ClassifiedAds))
	}
}

func TestSummarizeZeroAdsPage(t *testing.T) {
	a := testAggregator(nil)
	pages := []models.PageAds{{PageID: "p1", PageName: "Empty"}}

	report, err := a.Summarize(context.Background(), "client-1", "shop.example", pages)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	page := report.PageDetails[0]
	if page.HomeRatio != 0 || page.CompetitorRatio != 0 {
		t.Errorf("zero-ads page must have zero ratios, got %+v", page)
	}
	if report.GlobalStats.HomeRatio != 0 {
		t.Errorf("global ratio must be zero, got %v", report.GlobalStats.HomeRatio)
	}
}

func TestCountsAlwaysSumToTotal(t *testing.T) {
	a := testAggregator(map[string]lookup.RawRecords{
		"shop.example": {IP: testHomeIP},
	})
	ads := adsTo("https://shop.example/p", 2)
	ads = append(ads, adsTo("https://rival-a.net/x", 3)...)
	// Denylisted-only links land in the UNKNOWN bucket.
	ads = append(ads, adsTo("https://facebook.com/redirect", 2)...)
	// No URLs at all is UNKNOWN too.
	ads = append(ads, models.AdRecord{AdArchiveID: "bare"})

	report, err := a.Summarize(context.Background(), "client-1", "shop.example",
		[]models.PageAds{{PageID: "p1", Ads: ads}})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	gs := report.GlobalStats
	if gs.HomeAds+gs.CompetitorAds+gs.UnknownAds != gs.TotalAds {
		t.Errorf("buckets do not sum to total: %+v", gs)
	}
	if gs.UnknownAds != 3 {
		t.Errorf("expected 3 unknown ads, got %d", gs.UnknownAds)
	}
}

func TestCompetitorRankingAndTieBreak(t *testing.T) {
	a := testAggregator(nil)
	var ads []models.AdRecord
	ads = append(ads, adsTo("https://first-seen.net/x", 2)...)
	ads = append(ads, adsTo("https://big.net/x", 3)...)
	ads = append(ads, adsTo("https://tied-later.net/x", 2)...)

	report, err := a.Summarize(context.Background(), "client-1", "shop.example",
		[]models.PageAds{{PageID: "p1", Ads: ads}})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	got := report.TopCompetitors
	if len(got) != 3 {
		t.Fatalf("expected 3 competitors, got %v", got)
	}
	if got[0].Domain != "big.net" {
		t.Errorf("highest count first, got %q", got[0].Domain)
	}
	// Equal counts: first-seen domain ranks higher.
	if got[1].Domain != "first-seen.net" || got[2].Domain != "tied-later.net" {
		t.Errorf("tie-break by discovery order broken: %v", got)
	}
}

func TestCrossPageMergeKeepsFirstPlatform(t *testing.T) {
	a := testAggregator(map[string]lookup.RawRecords{
		"rival.example": {CNAME: "shops.myshopify.com"},
	})
	pages := []models.PageAds{
		{PageID: "p1", Ads: adsTo("https://rival.example/a", 1)},
		{PageID: "p2", Ads: adsTo("https://rival.example/b", 4)},
	}

	report, err := a.Summarize(context.Background(), "client-1", "shop.example", pages)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if len(report.TopCompetitors) != 1 {
		t.Fatalf("expected one merged competitor, got %v", report.TopCompetitors)
	}
	top := report.TopCompetitors[0]
	if top.TotalAds != 5 {
		t.Errorf("counts must sum across pages, got %d", top.TotalAds)
	}
	if top.Platform != "shopify" {
		t.Errorf("platform label lost in merge: %q", top.Platform)
	}
}

func TestTopCompetitorTruncation(t *testing.T) {
	a := testAggregator(nil)
	var ads []models.AdRecord
	for i := 0; i < 25; i++ {
		ads = append(ads, models.AdRecord{
			AdArchiveID: fmt.Sprintf("ad-%d", i),
			Snapshot:    &models.Snapshot{LinkURL: fmt.Sprintf("https://rival-%02d.net/x", i)},
		})
	}

	report, err := a.Summarize(context.Background(), "client-1", "shop.example",
		[]models.PageAds{{PageID: "p1", Ads: ads}})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if len(report.TopCompetitors) != TopCompetitorsPersisted {
		t.Errorf("persisted list should cap at %d, got %d", TopCompetitorsPersisted, len(report.TopCompetitors))
	}
	if report.TopCompetitors[0].Domain != "rival-00.net" {
		t.Errorf("equal counts keep discovery order, got %q first", report.TopCompetitors[0].Domain)
	}
	if display := report.TopCompetitorsForDisplay(); len(display) != models.DisplayCompetitorLimit {
		t.Errorf("display list should cap at %d, got %d", models.DisplayCompetitorLimit, len(display))
	}
}
